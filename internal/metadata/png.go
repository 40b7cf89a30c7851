package metadata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// maxICCSize caps the inflated iCCP payload.
const maxICCSize = 16 << 20

func fromPNG(data []byte) Payloads {
	var p Payloads
	if !bytes.HasPrefix(data, pngSignature) {
		return p
	}

	i := len(pngSignature)
	for i+8 <= len(data) {
		n := binary.BigEndian.Uint32(data[i:])
		typ := string(data[i+4 : i+8])
		if uint64(n) > uint64(len(data)-i-8) {
			break
		}
		body := data[i+8 : i+8+int(n)]

		switch typ {
		case "eXIf":
			if p.EXIF == nil {
				p.EXIF = clone(trimExifMarker(body))
			}
		case "iCCP":
			if p.ICC == nil {
				p.ICC = inflateICCP(body)
			}
		case "IEND":
			return p
		}
		// length + type + body + crc
		i += 12 + int(n)
	}
	return p
}

// inflateICCP decodes an iCCP chunk body: a NUL-terminated profile name,
// one compression-method byte (always 0, zlib) and the compressed profile.
func inflateICCP(body []byte) []byte {
	nul := bytes.IndexByte(body, 0)
	if nul < 1 || nul > 79 || nul+2 > len(body) {
		return nil
	}
	if body[nul+1] != 0 {
		return nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(body[nul+2:]))
	if err != nil {
		return nil
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxICCSize))
	if err != nil {
		return nil
	}
	return clone(out)
}
