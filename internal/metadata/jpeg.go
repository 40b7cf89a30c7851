package metadata

import (
	"bytes"
	"encoding/binary"
)

var iccMarker = []byte("ICC_PROFILE\x00")

// fromJPEG scans the marker segments that precede the scan data.
// EXIF lives in APP1, ICC is split across one or more APP2 segments.
func fromJPEG(data []byte) Payloads {
	var p Payloads
	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return p
	}

	icc := iccChunks{}
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			break
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			// fill byte
			i++
			continue
		case marker == 0xD9 || marker == 0xDA:
			// EOI or start of scan: no metadata past this point.
			p.ICC = icc.assemble()
			return p
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			i += 2
			continue
		}

		length := int(binary.BigEndian.Uint16(data[i+2:]))
		if length < 2 || i+2+length > len(data) {
			break
		}
		seg := data[i+4 : i+2+length]

		switch marker {
		case 0xE1:
			if p.EXIF == nil && bytes.HasPrefix(seg, exifMarker) {
				p.EXIF = clone(seg[len(exifMarker):])
			}
		case 0xE2:
			if bytes.HasPrefix(seg, iccMarker) && len(seg) >= len(iccMarker)+2 {
				hdr := seg[len(iccMarker):]
				icc.add(int(hdr[0]), int(hdr[1]), hdr[2:])
			}
		}
		i += 2 + length
	}

	p.ICC = icc.assemble()
	return p
}

// iccChunks collects the numbered APP2 pieces of an ICC profile.
type iccChunks struct {
	total  int
	chunks map[int][]byte
}

func (c *iccChunks) add(seq, total int, body []byte) {
	if seq < 1 || total < 1 || seq > total {
		return
	}
	if c.chunks == nil {
		c.chunks = make(map[int][]byte, total)
		c.total = total
	}
	if total != c.total {
		return
	}
	c.chunks[seq] = body
}

// assemble joins the chunks in sequence order. A profile with a missing
// chunk is unusable and is dropped.
func (c *iccChunks) assemble() []byte {
	if c.total == 0 {
		return nil
	}
	var buf bytes.Buffer
	for seq := 1; seq <= c.total; seq++ {
		body, ok := c.chunks[seq]
		if !ok {
			return nil
		}
		buf.Write(body)
	}
	return clone(buf.Bytes())
}
