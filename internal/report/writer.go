// Package report records the per-item results of a run as JSON and checks
// a recorded run against the files on disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnyUserName/avifconv/internal/hasher"
	"github.com/AnyUserName/avifconv/internal/pipeline"
)

// New creates an empty report with defaults.
func New(src pipeline.SourceSpec, destDir string, opts pipeline.Options) *Report {
	return &Report{
		Version:     SupportedVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      src.Path,
		Recursive:   src.Recursive,
		DestDir:     destDir,
		Options: Options{
			Quality:   opts.Quality,
			Speed:     opts.Speed,
			Lossless:  opts.Lossless,
			KeepEXIF:  opts.KeepEXIF,
			Overwrite: opts.Overwrite,
			Prefix:    opts.Prefix,
			Workers:   opts.Workers,
		},
	}
}

// AddResults appends one entry per result, hashing each output file.
func (r *Report) AddResults(results []pipeline.Result) error {
	for _, res := range results {
		e := Entry{
			Source:    res.Source,
			OK:        res.OK(),
			Stage:     string(res.Stage),
			Reason:    res.Reason,
			Format:    res.Format,
			InputSize: res.InputSize,
		}
		if res.OK() {
			rel, err := filepath.Rel(r.DestDir, res.Output)
			if err != nil {
				return fmt.Errorf("relative output path: %w", err)
			}
			sum, err := hasher.FileHash(res.Output, hasher.HexLen)
			if err != nil {
				return fmt.Errorf("hash %s: %w", rel, err)
			}
			e.Output = filepath.ToSlash(rel)
			e.Mode = res.Mode.String()
			e.OutputSize = res.OutputSize
			e.Hash = sum
			e.EXIF = res.EXIF
			e.ICC = res.ICC
		}
		r.Entries = append(r.Entries, e)
	}
	return nil
}

// ComputeStats recalculates aggregate statistics from entries.
func (r *Report) ComputeStats() {
	var s Stats
	s.Attempted = len(r.Entries)
	for _, e := range r.Entries {
		if !e.OK {
			s.Failed++
			continue
		}
		s.Succeeded++
		s.TotalInputBytes += e.InputSize
		s.TotalOutputBytes += e.OutputSize
	}
	r.Stats = s
}

// WriteJSON serializes the report to path.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// Load reads a report. A directory is taken to contain FileName.
func Load(path string) (*Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
