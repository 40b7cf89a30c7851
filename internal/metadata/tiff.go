package metadata

import "encoding/binary"

const (
	tagICCProfile = 34675
	ifdEntrySize  = 12
)

// fromTIFF reads the ICC profile from IFD0. TIFF files carry EXIF as a
// sub-IFD of the image itself rather than as a separable block, so only
// the ICC payload is returned.
func fromTIFF(data []byte) Payloads {
	var p Payloads
	if len(data) < 8 {
		return p
	}

	var order binary.ByteOrder
	switch string(data[0:4]) {
	case "II*\x00":
		order = binary.LittleEndian
	case "MM\x00*":
		order = binary.BigEndian
	default:
		return p
	}

	ifd := int64(order.Uint32(data[4:8]))
	if ifd < 8 || ifd+2 > int64(len(data)) {
		return p
	}
	count := int64(order.Uint16(data[ifd:]))
	entries := ifd + 2
	if entries+count*ifdEntrySize > int64(len(data)) {
		return p
	}

	for k := int64(0); k < count; k++ {
		e := data[entries+k*ifdEntrySize:]
		if order.Uint16(e[0:2]) != tagICCProfile {
			continue
		}
		n := int64(order.Uint32(e[4:8]))
		if n <= 4 {
			p.ICC = clone(e[8 : 8+n])
			return p
		}
		off := int64(order.Uint32(e[8:12]))
		if off+n > int64(len(data)) {
			return p
		}
		p.ICC = clone(data[off : off+n])
		return p
	}
	return p
}
