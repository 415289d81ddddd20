// Package linefile reads self-contained line definitions for offline runs:
// stations and recipes (or a legacy process map) plus parameters and goal.
package linefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"plating-line-backend/internal/line"
	"plating-line-backend/internal/simulation"
)

// File is one line definition. Parameters and Goal start from the project
// defaults, so a file only lists what differs.
type File struct {
	Name       string          `yaml:"name"`
	Notes      string          `yaml:"notes"`
	Line       line.Line       `yaml:",inline"`
	Parameters line.Parameters `yaml:"parameters"`
	Goal       line.Goal       `yaml:"goal"`
}

// Load reads a line file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading line file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a line file. Unknown keys are rejected so that a misspelt
// field does not silently fall back to its default.
func Parse(data []byte) (*File, error) {
	f := File{
		Parameters: line.DefaultParameters(),
		Goal:       line.DefaultGoal(),
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing line YAML: %w", err)
	}
	return &f, nil
}

// Input turns the file into an engine input.
func (f *File) Input() simulation.Input {
	return simulation.Input{
		Line:       f.Line,
		Parameters: f.Parameters,
		Goal:       f.Goal,
		Name:       f.Name,
		Notes:      f.Notes,
	}
}

// Validate checks the line, parameters and goal together, the same way the
// engine does before scheduling.
func (f *File) Validate() error {
	return simulation.Validate(f.Input())
}
