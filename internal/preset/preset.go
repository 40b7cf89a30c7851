// Package preset resolves conversion settings from built-in presets and an
// optional YAML config file.
package preset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AnyUserName/avifconv/internal/pipeline"
)

// Settings is everything a run needs besides the source path.
type Settings struct {
	OutDir    string
	Recursive bool
	Options   pipeline.Options
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		OutDir:    "./avif_out",
		Recursive: true,
		Options:   pipeline.DefaultOptions(),
	}
}

// Overrides is a partial Settings; nil fields leave the value untouched.
type Overrides struct {
	Out       *string `yaml:"out"`
	Recursive *bool   `yaml:"recursive"`
	Overwrite *bool   `yaml:"overwrite"`
	Quality   *int    `yaml:"quality"`
	Speed     *int    `yaml:"speed"`
	Lossless  *bool   `yaml:"lossless"`
	KeepEXIF  *bool   `yaml:"keepExif"`
	Prefix    *string `yaml:"prefix"`
	Workers   *int    `yaml:"workers"`
}

// Apply writes every set field into s.
func (o Overrides) Apply(s *Settings) {
	if o.Out != nil {
		s.OutDir = *o.Out
	}
	if o.Recursive != nil {
		s.Recursive = *o.Recursive
	}
	if o.Overwrite != nil {
		s.Options.Overwrite = *o.Overwrite
	}
	if o.Quality != nil {
		s.Options.Quality = *o.Quality
	}
	if o.Speed != nil {
		s.Options.Speed = *o.Speed
	}
	if o.Lossless != nil {
		s.Options.Lossless = *o.Lossless
	}
	if o.KeepEXIF != nil {
		s.Options.KeepEXIF = *o.KeepEXIF
	}
	if o.Prefix != nil {
		s.Options.Prefix = *o.Prefix
	}
	if o.Workers != nil {
		s.Options.Workers = *o.Workers
	}
}

func ptr[T any](v T) *T { return &v }

// Built-in presets.
var builtin = map[string]Overrides{
	"default": {
		Quality: ptr(80),
		Speed:   ptr(6),
	},
	"web": {
		Quality:  ptr(60),
		Speed:    ptr(8),
		KeepEXIF: ptr(false),
	},
	"archival": {
		Lossless: ptr(true),
		Speed:    ptr(4),
	},
	"fast": {
		Quality: ptr(70),
		Speed:   ptr(10),
	},
}

// Names lists the presets available with f loaded (f may be nil), sorted.
func Names(f *File) []string {
	set := map[string]bool{}
	for name := range builtin {
		set[name] = true
	}
	if f != nil {
		for name := range f.Presets {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve layers the built-in defaults, the config file defaults and the
// named preset, in that order. A preset in the config file shadows a
// built-in one of the same name. An empty name selects no preset.
func Resolve(f *File, name string) (Settings, error) {
	s := Defaults()
	if f != nil {
		f.Defaults.Apply(&s)
	}
	if name == "" {
		return s, nil
	}

	if f != nil {
		if o, ok := f.Presets[name]; ok {
			o.Apply(&s)
			return s, nil
		}
	}
	o, ok := builtin[name]
	if !ok {
		return s, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(Names(f), ", "))
	}
	o.Apply(&s)
	return s, nil
}
