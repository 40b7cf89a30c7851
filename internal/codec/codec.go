// Package codec is the boundary to the image codecs: it decodes source
// files together with their metadata, normalizes pixels to one of the two
// channel layouts AVIF accepts, and encodes AVIF through libavif's avifenc.
package codec

import (
	"context"
	"errors"
	"image"

	"github.com/AnyUserName/avifconv/internal/metadata"
)

// ErrEncoderUnavailable is returned when the AVIF encoder binary cannot be found.
var ErrEncoderUnavailable = errors.New("avif encoder unavailable")

// Decoded is a fully decoded source image.
type Decoded struct {
	Image  image.Image
	Format string // name registered with the image package: "jpeg", "png", ...
	Meta   metadata.Payloads
}

// Mode is the channel layout handed to the encoder.
type Mode int

const (
	ModeRGB Mode = iota
	ModeRGBA
)

func (m Mode) String() string {
	if m == ModeRGBA {
		return "RGBA"
	}
	return "RGB"
}

// Normalized holds pixels ready for encoding. Pixels always starts at the
// origin; in ModeRGB every pixel is fully opaque.
type Normalized struct {
	Pixels *image.NRGBA
	Mode   Mode
}

// EncodeOptions are the per-image encoder parameters.
type EncodeOptions struct {
	Quality  int // 0-100, higher is better
	Speed    int // 0-10, higher is faster
	Lossless bool
	EXIF     []byte // nil: write no EXIF block
	ICC      []byte // nil: write no color profile
}

// Encoder writes a normalized image to dst as AVIF.
type Encoder interface {
	// Name identifies the encoder in logs.
	Name() string

	// Available returns true if the encoder is ready to use.
	Available() bool

	// Encode writes img to dst, replacing any existing file.
	Encode(ctx context.Context, img *Normalized, dst string, opts EncodeOptions) error
}
