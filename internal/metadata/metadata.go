// Package metadata pulls the raw EXIF and ICC payloads out of encoded image
// files so they can be carried into the AVIF output unchanged.
//
// Only container-level parsing is done here. The EXIF block is returned as
// TIFF-structured bytes (the "Exif\0\0" marker is stripped) and the ICC
// profile as the raw profile bytes. Malformed or truncated containers yield
// whatever was found before the damage; extraction never fails.
package metadata

import "bytes"

// Payloads holds the optional metadata blocks of one source image.
// A nil field means the source did not carry that block.
type Payloads struct {
	EXIF []byte
	ICC  []byte
}

// HasEXIF reports whether an EXIF block was found.
func (p Payloads) HasEXIF() bool { return len(p.EXIF) > 0 }

// HasICC reports whether an ICC profile was found.
func (p Payloads) HasICC() bool { return len(p.ICC) > 0 }

var exifMarker = []byte("Exif\x00\x00")

// Extract returns the metadata payloads of data, which is the full content
// of a file in the given format. format uses the names registered with the
// image package ("jpeg", "png", "webp", "tiff", "gif", "bmp").
func Extract(format string, data []byte) Payloads {
	switch format {
	case "jpeg":
		return fromJPEG(data)
	case "png":
		return fromPNG(data)
	case "webp":
		return fromWebP(data)
	case "tiff":
		return fromTIFF(data)
	}
	return Payloads{}
}

// trimExifMarker drops a leading "Exif\0\0" marker if present.
func trimExifMarker(b []byte) []byte {
	return bytes.TrimPrefix(b, exifMarker)
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
