package pipeline

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/AnyUserName/avifconv/internal/codec"
)

// fakeEncoder writes a marker file instead of running avifenc.
type fakeEncoder struct {
	mu      sync.Mutex
	calls   map[string]codec.EncodeOptions // keyed by output base name
	modes   map[string]codec.Mode
	failFor func(dst string) bool
}

func newFakeEncoder() *fakeEncoder {
	return &fakeEncoder{
		calls: make(map[string]codec.EncodeOptions),
		modes: make(map[string]codec.Mode),
	}
}

func (f *fakeEncoder) Name() string    { return "fake" }
func (f *fakeEncoder) Available() bool { return true }

func (f *fakeEncoder) Encode(_ context.Context, img *codec.Normalized, dst string, opts codec.EncodeOptions) error {
	f.mu.Lock()
	f.calls[filepath.Base(dst)] = opts
	f.modes[filepath.Base(dst)] = img.Mode
	f.mu.Unlock()

	if f.failFor != nil && f.failFor(dst) {
		return errors.New("no space left on device")
	}
	return os.WriteFile(dst, []byte("AVIF"+filepath.Base(dst)), 0o644)
}

func (f *fakeEncoder) optsFor(name string) (codec.EncodeOptions, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.calls[name]
	return o, ok
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sample(alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 30), B: 60, A: alpha})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, alpha uint8) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, sample(alpha)); err != nil {
		t.Fatal(err)
	}
	return writeBytes(t, dir, name, buf.Bytes())
}

func writeJPEG(t *testing.T, dir, name string, segments ...[]byte) string {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sample(255), nil); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	data := append([]byte{}, raw[:2]...)
	for _, s := range segments {
		data = append(data, s...)
	}
	data = append(data, raw[2:]...)
	return writeBytes(t, dir, name, data)
}

func writeBytes(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func appSegment(marker byte, body []byte) []byte {
	seg := []byte{0xFF, marker, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(body)+2))
	return append(seg, body...)
}

func relNames(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		rel, _ := filepath.Rel(root, p)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func equal(a, b []string) bool {
	return strings.Join(a, "\n") == strings.Join(b, "\n")
}
