package metadata

import (
	"bytes"
	"encoding/binary"
)

// fromWebP walks the RIFF chunk list of an extended (VP8X) WebP file.
// Simple lossy/lossless files have no metadata chunks and yield nothing.
func fromWebP(data []byte) Payloads {
	var p Payloads
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		return p
	}

	i := 12
	for i+8 <= len(data) {
		fourcc := string(data[i : i+4])
		n := binary.LittleEndian.Uint32(data[i+4:])
		if uint64(n) > uint64(len(data)-i-8) {
			break
		}
		body := data[i+8 : i+8+int(n)]

		switch fourcc {
		case "EXIF":
			if p.EXIF == nil {
				p.EXIF = clone(trimExifMarker(body))
			}
		case "ICCP":
			if p.ICC == nil {
				p.ICC = clone(body)
			}
		}

		// chunks are padded to an even size
		i += 8 + int(n) + int(n&1)
	}
	return p
}
