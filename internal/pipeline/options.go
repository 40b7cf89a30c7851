package pipeline

import (
	"fmt"
	"strings"
)

// Options are the conversion settings of one run. They do not change
// while the run is in progress.
type Options struct {
	Overwrite bool   // replace existing outputs instead of picking _N names
	Quality   int    // 0-100
	Speed     int    // 0-10, higher is faster
	Lossless  bool   // ignore Quality and encode losslessly
	KeepEXIF  bool   // copy the source EXIF block; ICC profiles are always copied
	Prefix    string // output name prefix, joined with "_"; empty for none
	Workers   int    // parallel conversions; 1 keeps strict Discovery order
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Quality:  80,
		Speed:    6,
		KeepEXIF: true,
		Workers:  1,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality %d out of range 0..100", o.Quality)
	}
	if o.Speed < 0 || o.Speed > 10 {
		return fmt.Errorf("speed %d out of range 0..10", o.Speed)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers %d must not be negative", o.Workers)
	}
	return nil
}

// normalized trims the prefix and defaults Workers to 1.
func (o Options) normalized() Options {
	o.Prefix = strings.TrimSpace(o.Prefix)
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}
