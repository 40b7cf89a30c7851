package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/avifconv/internal/codec"
)

// Stage names the step an item failed in.
type Stage string

const (
	StageNone     Stage = ""
	StageDecode   Stage = "decode"
	StageEncode   Stage = "encode"
	StageCanceled Stage = "canceled"
)

// Result is the outcome of converting one image.
type Result struct {
	Source string
	Output string // set on success

	Err    error
	Stage  Stage
	Reason string // human-readable failure line, e.g. "Skip a.png: ..."

	Format     string // decoded source format
	Mode       codec.Mode
	InputSize  int64
	OutputSize int64
	EXIF       bool // EXIF block written to the output
	ICC        bool // ICC profile written to the output
}

// OK reports whether the image was converted.
func (r Result) OK() bool { return r.Err == nil }

func (r Result) fail(stage Stage, err error) Result {
	r.Err = err
	r.Stage = stage
	name := filepath.Base(r.Source)
	switch stage {
	case StageDecode:
		r.Reason = fmt.Sprintf("Skip %s: %v", name, err)
	case StageCanceled:
		r.Reason = fmt.Sprintf("Canceled %s: %v", name, err)
	default:
		r.Reason = fmt.Sprintf("Failed %s: %v", name, err)
	}
	return r
}

// Convert decodes src, normalizes its channel layout and encodes it as
// AVIF into destDir. Every failure is returned inside the Result.
func Convert(ctx context.Context, enc codec.Encoder, src, destDir string, opts Options) Result {
	opts = opts.normalized()
	res := Result{Source: src}

	if err := ctx.Err(); err != nil {
		return res.fail(StageCanceled, err)
	}

	if info, err := os.Stat(src); err == nil {
		res.InputSize = info.Size()
	}

	dec, err := codec.Decode(src)
	if err != nil {
		return res.fail(StageDecode, err)
	}
	img := codec.Normalize(dec.Image)
	res.Format = dec.Format
	res.Mode = img.Mode

	target, claimed, err := ClaimTarget(destDir, OutputName(src, opts.Prefix), opts.Overwrite)
	if err != nil {
		return res.fail(StageEncode, err)
	}

	eo := codec.EncodeOptions{
		Quality:  opts.Quality,
		Speed:    opts.Speed,
		Lossless: opts.Lossless,
		ICC:      dec.Meta.ICC,
	}
	if opts.KeepEXIF {
		eo.EXIF = dec.Meta.EXIF
	}

	if err := enc.Encode(ctx, img, target, eo); err != nil {
		if claimed {
			os.Remove(target)
		}
		return res.fail(StageEncode, err)
	}

	res.Output = target
	res.EXIF = len(eo.EXIF) > 0
	res.ICC = len(eo.ICC) > 0
	if info, err := os.Stat(target); err == nil {
		res.OutputSize = info.Size()
	}
	return res
}
