package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	outputExt = ".avif"

	// maxProbe bounds the _N suffix search.
	maxProbe = 1_000_000
)

// OutputName returns the file name an image converts to:
// "<prefix>_<stem>.avif", or "<stem>.avif" when prefix is empty.
func OutputName(src, prefix string) string {
	stem, _ := splitExt(filepath.Base(src))
	if prefix != "" {
		stem = prefix + "_" + stem
	}
	return stem + outputExt
}

// ClaimTarget picks the output path for name inside destDir.
//
// With overwrite set, destDir/name is returned unchanged and nothing is
// created. Otherwise the first free path among name, stem_2, stem_3, ...
// is created empty with O_EXCL and returned with claimed=true; the caller
// owns that placeholder and removes it if nothing gets written. Exclusive
// creation keeps concurrent workers from ever picking the same name.
func ClaimTarget(destDir, name string, overwrite bool) (path string, claimed bool, err error) {
	path = filepath.Join(destDir, name)
	if overwrite {
		return path, false, nil
	}

	stem, ext := splitExt(name)
	for n := 1; n <= maxProbe; n++ {
		if n > 1 {
			path = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			f.Close()
			return path, true, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", false, fmt.Errorf("claim %s: %w", filepath.Base(path), err)
		}
	}
	return "", false, fmt.Errorf("claim %s: no free name after %d attempts", name, maxProbe)
}
