package pipeline

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.jpg", "a.png", "C.JPEG", "d.WebP", "e.bmp", "f.tif", "g.TIFF", "h.gif",
		"notes.txt", "movie.mkv", "archive.png.zip", "noext",
	} {
		touch(t, dir, name)
	}

	files, err := Discover(dir, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"C.JPEG", "a.png", "b.jpg", "d.WebP", "e.bmp", "f.tif", "g.TIFF", "h.gif"}
	if got := relNames(dir, files); !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_Depth(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.png")
	touch(t, dir, "sub/one.jpg")
	touch(t, dir, "sub/deeper/two.gif")
	touch(t, dir, "sub/deeper/skip.txt")

	flat, err := Discover(dir, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got, want := relNames(dir, flat), []string{"top.png"}; !equal(got, want) {
		t.Errorf("non-recursive: got %v, want %v", got, want)
	}

	all, err := Discover(dir, true)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"sub/deeper/two.gif", "sub/one.jpg", "top.png"}
	if got := relNames(dir, all); !equal(got, want) {
		t.Errorf("recursive: got %v, want %v", got, want)
	}
}

func TestDiscover_DirectoryNamedLikeImage(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "album.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, dir, "album.png/inner.png")

	flat, _ := Discover(dir, false)
	if len(flat) != 0 {
		t.Errorf("directory returned as image: %v", flat)
	}
	all, _ := Discover(dir, true)
	if got, want := relNames(dir, all), []string{"album.png/inner.png"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	dir := t.TempDir()
	img := touch(t, dir, "photo.JPG")
	txt := touch(t, dir, "photo.txt")

	got, err := Discover(img, false)
	if err != nil || len(got) != 1 || got[0] != img {
		t.Errorf("recognized file: got %v, %v", got, err)
	}
	got, err = Discover(txt, true)
	if err != nil || len(got) != 0 {
		t.Errorf("unrecognized file: got %v, %v", got, err)
	}
}

func TestDiscover_MissingIsEmpty(t *testing.T) {
	got, err := Discover(filepath.Join(t.TempDir(), "nope"), true)
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v; want empty, nil", got, err)
	}
}

func TestDiscover_DotfilesHaveNoExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, ".png")
	touch(t, dir, ".hidden.png")

	got, _ := Discover(dir, false)
	if want := []string{".hidden.png"}; !equal(relNames(dir, got), want) {
		t.Errorf("got %v, want %v", relNames(dir, got), want)
	}
}

func TestDiscover_FollowsFileSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := touch(t, t.TempDir(), "real.png")
	if err := os.Symlink(target, filepath.Join(dir, "link.png")); err != nil {
		t.Skipf("symlink: %v", err)
	}

	got, _ := Discover(dir, false)
	if want := []string{"link.png"}; !equal(relNames(dir, got), want) {
		t.Errorf("got %v, want %v", relNames(dir, got), want)
	}
}

func TestIsImage(t *testing.T) {
	cases := map[string]bool{
		"a.png": true, "A.PNG": true, "x/y/z.tif": true,
		"a.avif": false, "a": false, "a.": false, ".jpg": false,
	}
	for path, want := range cases {
		if got := IsImage(path); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", path, got, want)
		}
	}
}
