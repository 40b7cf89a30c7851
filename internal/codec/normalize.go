package codec

import (
	"image"

	"github.com/disintegration/imaging"
)

// Normalize converts img to the RGBA layout when it has any transparency
// and to the RGB layout otherwise.
func Normalize(img image.Image) *Normalized {
	mode := ModeRGB
	if HasAlpha(img) {
		mode = ModeRGBA
	}
	return &Normalized{
		Pixels: imaging.Clone(img),
		Mode:   mode,
	}
}

// HasAlpha reports whether any pixel of img is not fully opaque.
func HasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
