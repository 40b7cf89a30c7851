package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/avifconv/internal/hasher"
)

// Validate checks r for internal consistency and that every recorded
// output exists under destDir with the recorded size and hash. An empty
// destDir means r.DestDir. It returns one message per problem.
func Validate(r *Report, destDir string) []string {
	if destDir == "" {
		destDir = r.DestDir
	}
	var errs []string

	if r.Version != SupportedVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", r.Version))
	}

	seen := map[string]bool{}
	var ok, failed int
	for i, e := range r.Entries {
		if e.Source == "" {
			errs = append(errs, fmt.Sprintf("entry[%d]: missing source", i))
		}
		if !e.OK {
			failed++
			if e.Reason == "" {
				errs = append(errs, fmt.Sprintf("entry[%d] %s: failed without a reason", i, e.Source))
			}
			continue
		}
		ok++

		if e.Output == "" {
			errs = append(errs, fmt.Sprintf("entry[%d] %s: missing output", i, e.Source))
			continue
		}
		if seen[e.Output] {
			errs = append(errs, fmt.Sprintf("entry[%d]: duplicate output %q", i, e.Output))
		}
		seen[e.Output] = true

		full := filepath.Join(destDir, filepath.FromSlash(e.Output))
		info, err := os.Stat(full)
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry[%d]: output not found: %s", i, e.Output))
			continue
		}
		if info.Size() != e.OutputSize {
			errs = append(errs, fmt.Sprintf("entry[%d]: size mismatch for %s: report=%d, disk=%d",
				i, e.Output, e.OutputSize, info.Size()))
		}
		if e.Hash != "" {
			sum, err := hasher.FileHash(full, hasher.HexLen)
			if err != nil {
				errs = append(errs, fmt.Sprintf("entry[%d]: hash %s: %v", i, e.Output, err))
			} else if sum != e.Hash {
				errs = append(errs, fmt.Sprintf("entry[%d]: hash mismatch for %s: report=%s, disk=%s",
					i, e.Output, e.Hash, sum))
			}
		}
	}

	if r.Stats.Attempted != len(r.Entries) {
		errs = append(errs, fmt.Sprintf("stats.attempted mismatch: %d != %d", r.Stats.Attempted, len(r.Entries)))
	}
	if r.Stats.Succeeded != ok {
		errs = append(errs, fmt.Sprintf("stats.succeeded mismatch: %d != %d", r.Stats.Succeeded, ok))
	}
	if r.Stats.Failed != failed {
		errs = append(errs, fmt.Sprintf("stats.failed mismatch: %d != %d", r.Stats.Failed, failed))
	}
	return errs
}
