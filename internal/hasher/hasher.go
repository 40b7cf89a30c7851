// Package hasher computes the xxHash64 digests recorded in run reports.
package hasher

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the digest length used in reports: the full 64 bits.
const HexLen = 16

// ContentHash returns the xxHash64 of data as lowercase hex, truncated to
// hexLen characters when 0 < hexLen < 16.
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// FileHash streams the file at path through xxHash64.
func FileHash(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ReaderHash(f, hexLen)
}

// ReaderHash computes xxHash64 from a reader, streaming.
func ReaderHash(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

func truncate(sum uint64, hexLen int) string {
	full := fmt.Sprintf("%016x", sum)
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
