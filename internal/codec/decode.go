package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/AnyUserName/avifconv/internal/metadata"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads and fully decodes the image at path. Animated GIFs yield
// their first frame.
func Decode(path string) (*Decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &Decoded{
		Image:  img,
		Format: format,
		Meta:   metadata.Extract(format, data),
	}, nil
}
