package preset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the YAML config file layout:
//
//	defaults:
//	  quality: 75
//	  out: $(HOME)/Pictures/avif
//	presets:
//	  thumbs:
//	    quality: 50
//	    prefix: thumb
type File struct {
	Defaults Overrides            `yaml:"defaults"`
	Presets  map[string]Overrides `yaml:"presets"`
}

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// expandEnvVars replaces $(VAR) with os.Getenv(VAR).
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envPattern.FindStringSubmatch(m)[1])
	})
}

// Load reads a config file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes config file content. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(strings.NewReader(expandEnvVars(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	return &f, nil
}
