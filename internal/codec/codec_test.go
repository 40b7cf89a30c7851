package codec

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func gradient(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: alpha,
			})
		}
	}
	return img
}

func writeFile(t *testing.T, path string, encode func(*bytes.Buffer) error) {
	t.Helper()
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		t.Fatalf("encode %s: %v", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDecode_Formats(t *testing.T) {
	dir := t.TempDir()
	img := gradient(16, 12, 255)

	cases := []struct {
		name   string
		format string
		encode func(*bytes.Buffer) error
	}{
		{"a.png", "png", func(b *bytes.Buffer) error { return png.Encode(b, img) }},
		{"b.jpg", "jpeg", func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) }},
		{"c.gif", "gif", func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) }},
		{"d.bmp", "bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, img) }},
		{"e.tiff", "tiff", func(b *bytes.Buffer) error { return tiff.Encode(b, img, nil) }},
	}

	for _, c := range cases {
		path := filepath.Join(dir, c.name)
		writeFile(t, path, c.encode)

		d, err := Decode(path)
		if err != nil {
			t.Errorf("%s: decode: %v", c.name, err)
			continue
		}
		if d.Format != c.format {
			t.Errorf("%s: format %q, want %q", c.name, d.Format, c.format)
		}
		if d.Image.Bounds().Dx() != 16 || d.Image.Bounds().Dy() != 12 {
			t.Errorf("%s: bounds %v", c.name, d.Image.Bounds())
		}
	}
}

func TestDecode_Corrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	writeFile(t, path, func(b *bytes.Buffer) error { return png.Encode(b, gradient(32, 32, 255)) })

	data, _ := os.ReadFile(path)
	os.WriteFile(path, data[:40], 0o644)

	if _, err := Decode(path); err == nil {
		t.Fatal("truncated png decoded without error")
	}
}

func TestDecode_Missing(t *testing.T) {
	if _, err := Decode(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Fatal("missing file decoded without error")
	}
}

func TestNormalize_OpaqueIsRGB(t *testing.T) {
	n := Normalize(gradient(4, 4, 255))
	if n.Mode != ModeRGB {
		t.Errorf("mode %v, want RGB", n.Mode)
	}
}

func TestNormalize_TranslucentIsRGBA(t *testing.T) {
	n := Normalize(gradient(4, 4, 128))
	if n.Mode != ModeRGBA {
		t.Errorf("mode %v, want RGBA", n.Mode)
	}
	if got := n.Pixels.NRGBAAt(1, 1).A; got != 128 {
		t.Errorf("alpha %d, want 128", got)
	}
}

func TestNormalize_ChannelLayouts(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	ycc := image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)

	grayAlpha := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			grayAlpha.SetNRGBA(x, y, color.NRGBA{R: 90, G: 90, B: 90, A: 10})
		}
	}

	pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
		color.NRGBA{A: 0}, color.NRGBA{R: 255, A: 255},
	})
	pal.SetColorIndex(1, 1, 1)

	cases := []struct {
		name string
		img  image.Image
		want Mode
	}{
		{"gray", gray, ModeRGB},
		{"ycbcr", ycc, ModeRGB},
		{"gray+alpha", grayAlpha, ModeRGBA},
		{"paletted with transparent index", pal, ModeRGBA},
	}
	for _, c := range cases {
		if got := Normalize(c.img).Mode; got != c.want {
			t.Errorf("%s: mode %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNormalize_MovesToOrigin(t *testing.T) {
	src := gradient(10, 10, 255).SubImage(image.Rect(3, 3, 7, 9))
	n := Normalize(src)
	if n.Pixels.Rect != image.Rect(0, 0, 4, 6) {
		t.Errorf("rect %v, want (0,0)-(4,6)", n.Pixels.Rect)
	}
}

func TestAvifencArgs(t *testing.T) {
	args := avifencArgs(ModeRGB, EncodeOptions{Quality: 80, Speed: 6}, "", "", "in.png", "out.avif")
	got := strings.Join(args, " ")
	want := "--speed 6 -j all --min 13 --max 13 in.png out.avif"
	if got != want {
		t.Errorf("args:\n got %q\nwant %q", got, want)
	}

	args = avifencArgs(ModeRGBA, EncodeOptions{Quality: 100, Speed: 12}, "x.exif", "p.icc", "in.png", "out.avif")
	got = strings.Join(args, " ")
	want = "--speed 10 -j all --min 0 --max 0 --minalpha 0 --maxalpha 0 --exif x.exif --icc p.icc in.png out.avif"
	if got != want {
		t.Errorf("args:\n got %q\nwant %q", got, want)
	}

	args = avifencArgs(ModeRGBA, EncodeOptions{Lossless: true, Quality: 10}, "", "", "in.png", "out.avif")
	got = strings.Join(args, " ")
	if !strings.Contains(got, "--lossless") || strings.Contains(got, "--min") {
		t.Errorf("lossless args: %q", got)
	}
}

func TestQuantizer(t *testing.T) {
	cases := map[int]int{0: 63, 50: 32, 80: 13, 100: 0, -5: 63, 150: 0}
	for q, want := range cases {
		if got := quantizer(q); got != want {
			t.Errorf("quantizer(%d) = %d, want %d", q, got, want)
		}
	}
}

func TestAVIFEncoder_Unavailable(t *testing.T) {
	enc := NewAVIFEncoder("avifenc-does-not-exist-xyz")
	if enc.Available() {
		t.Fatal("bogus binary reported available")
	}
	err := enc.Encode(context.Background(), Normalize(gradient(2, 2, 255)), filepath.Join(t.TempDir(), "x.avif"), EncodeOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), ErrEncoderUnavailable.Error()) {
		t.Errorf("error %v does not wrap ErrEncoderUnavailable", err)
	}
}

func TestAVIFEncoder_Encode(t *testing.T) {
	if _, err := exec.LookPath("avifenc"); err != nil {
		t.Skip("avifenc not installed")
	}

	dst := filepath.Join(t.TempDir(), "out.avif")
	enc := NewAVIFEncoder("")
	err := enc.Encode(context.Background(), Normalize(gradient(32, 24, 200)), dst, EncodeOptions{
		Quality: 60, Speed: 10, EXIF: []byte("MM\x00*\x00\x00\x00\x08\x00\x00"),
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty output")
	}
}
