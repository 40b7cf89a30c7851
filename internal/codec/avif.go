package codec

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
)

// AVIFEncoder encodes images to AVIF by shelling out to avifenc.
// This approach avoids CGO while keeping libavif's full option set.
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	bin string

	once        sync.Once
	available   bool
	avifencPath string
}

// NewAVIFEncoder returns an encoder that runs bin, or "avifenc" from PATH
// when bin is empty.
func NewAVIFEncoder(bin string) *AVIFEncoder {
	if bin == "" {
		bin = "avifenc"
	}
	return &AVIFEncoder{bin: bin}
}

func (e *AVIFEncoder) Name() string { return "avifenc" }

func (e *AVIFEncoder) Available() bool {
	e.once.Do(func() {
		path, err := exec.LookPath(e.bin)
		if err == nil {
			e.available = true
			e.avifencPath = path
		}
	})
	return e.available
}

// Path returns the resolved binary path, or "" when unavailable.
func (e *AVIFEncoder) Path() string {
	if !e.Available() {
		return ""
	}
	return e.avifencPath
}

func (e *AVIFEncoder) Encode(ctx context.Context, img *Normalized, dst string, opts EncodeOptions) error {
	if !e.Available() {
		return fmt.Errorf("%w: %s not found in PATH; install with: brew install libavif", ErrEncoderUnavailable, e.bin)
	}

	work, err := os.MkdirTemp("", "avifconv_*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.RemoveAll(work)

	// avifenc reads files, so stage the pixels as PNG. An opaque NRGBA
	// image is written as 3-channel PNG, which keeps RGB output alpha-free.
	srcPath := filepath.Join(work, "src.png")
	if err := writePNG(srcPath, img); err != nil {
		return err
	}

	var exifPath, iccPath string
	if len(opts.EXIF) > 0 {
		exifPath = filepath.Join(work, "exif.bin")
		if err := os.WriteFile(exifPath, opts.EXIF, 0o600); err != nil {
			return fmt.Errorf("stage exif: %w", err)
		}
	}
	if len(opts.ICC) > 0 {
		iccPath = filepath.Join(work, "profile.icc")
		if err := os.WriteFile(iccPath, opts.ICC, 0o600); err != nil {
			return fmt.Errorf("stage icc: %w", err)
		}
	}

	args := avifencArgs(img.Mode, opts, exifPath, iccPath, srcPath, dst)
	cmd := exec.CommandContext(ctx, e.avifencPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("avifenc: %w: %s", err, string(out))
	}
	return nil
}

func writePNG(path string, img *Normalized) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, img.Pixels); err != nil {
		f.Close()
		return fmt.Errorf("encode temp png: %w", err)
	}
	return f.Close()
}

// avifencArgs builds the avifenc command line. exifPath and iccPath are
// skipped when empty.
func avifencArgs(mode Mode, opts EncodeOptions, exifPath, iccPath, src, dst string) []string {
	args := []string{
		"--speed", strconv.Itoa(clamp(opts.Speed, 0, 10)),
		"-j", "all",
	}

	if opts.Lossless {
		args = append(args, "--lossless")
	} else {
		q := strconv.Itoa(quantizer(opts.Quality))
		args = append(args, "--min", q, "--max", q)
		if mode == ModeRGBA {
			args = append(args, "--minalpha", q, "--maxalpha", q)
		}
	}

	if exifPath != "" {
		args = append(args, "--exif", exifPath)
	}
	if iccPath != "" {
		args = append(args, "--icc", iccPath)
	}
	return append(args, src, dst)
}

// quantizer maps quality 0-100 onto avifenc's quantizer scale, where
// 0 is best and 63 is worst.
func quantizer(quality int) int {
	quality = clamp(quality, 0, 100)
	return 63 - (quality * 63 / 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
