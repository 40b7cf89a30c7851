package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceSpec is what the caller asked to convert.
type SourceSpec struct {
	Path      string
	Recursive bool
}

// imageExtensions lists recognized image file extensions.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
}

// splitExt splits a file name into stem and extension. The extension
// starts at the last dot; a leading dot (dotfiles) or a trailing dot does
// not start one.
func splitExt(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}

// IsImage reports whether path has a recognized image extension,
// compared case-insensitively.
func IsImage(path string) bool {
	_, ext := splitExt(filepath.Base(path))
	return imageExtensions[strings.ToLower(ext)]
}

// Discover returns the image files under source, sorted by full path.
//
// A regular file yields itself when its extension is recognized. A
// directory yields its recognized regular files: immediate children only,
// or every level below it when recursive is set. A path that is neither
// (including one that does not exist) yields nothing; callers check
// existence beforehand. The only error is failing to list source itself.
func Discover(source string, recursive bool) ([]string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, nil
	}
	if info.Mode().IsRegular() {
		if IsImage(source) {
			return []string{source}, nil
		}
		return nil, nil
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []string
	if recursive {
		files, err = walkImages(source)
	} else {
		files, err = listImages(source)
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if IsImage(path) && isRegular(path, e) {
			files = append(files, path)
		}
	}
	return files, nil
}

func walkImages(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			// Unreadable subdirectory: leave it out and keep going.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if IsImage(path) && isRegular(path, d) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// isRegular follows symlinks, so a link to an image file counts.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
