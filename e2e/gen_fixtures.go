//go:build ignore

// gen_fixtures creates a small source tree for the convert smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "cards", "nested"), 0o755))

	// Banner (JPEG, 400x225), plus an upper-case extension.
	save(filepath.Join(dir, "banner.jpg"), gradient(400, 225))
	save(filepath.Join(dir, "PHOTO.JPG"), gradient(160, 90))

	// Cards (PNG, 200x150 each), one level down.
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.png", i)
		save(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)))
	}
	save(filepath.Join(dir, "cards", "nested", "deep.bmp"), solidWithBorder(64, 64, 30))

	// Alpha image, and an RGBA-typed image that is fully opaque.
	save(filepath.Join(dir, "logo.png"), alphaGradient(100, 100))
	save(filepath.Join(dir, "scan.tiff"), gradient(120, 80))

	// Files the scanner must skip, and one it must fail to decode.
	must(os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image\n"), 0o644))
	must(os.WriteFile(filepath.Join(dir, "broken.png"), []byte("\x89PNG\r\n\x1a\ntruncated"), 0o644))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 9 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func save(path string, img image.Image) {
	must(imaging.Save(img, path, imaging.JPEGQuality(85)))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
