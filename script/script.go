// Package script loads cue sheets: YAML files that list messages to play
// through the reveal engine, with optional sheet-wide and per-cue options.
package script

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"typeline/typer"
)

// ErrNoCues is returned for a sheet with nothing to play.
var ErrNoCues = errors.New("script: no cues")

// Cue is one message. In YAML it is either a bare string or a mapping
// with text and options.
type Cue struct {
	Text    string         `yaml:"text"`
	Options map[string]any `yaml:"options,omitempty"`
}

// UnmarshalYAML accepts the scalar shorthand alongside the full mapping.
func (c *Cue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.Text = value.Value
		return nil
	}
	type plain Cue
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Cue(p)
	return nil
}

// Script is a parsed cue sheet. Options apply to the whole sheet before
// the first cue; a cue's own options apply from that cue on.
type Script struct {
	Name    string         `yaml:"name,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
	Cues    []Cue          `yaml:"cues"`
}

// Parse decodes a cue sheet from YAML.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("script: parse: %w", err)
	}
	if len(s.Cues) == 0 {
		return nil, ErrNoCues
	}
	return &s, nil
}

// Load reads and parses a cue sheet file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return Parse(data)
}

// Stepped reports whether any cue carries its own options. A stepped sheet
// must be played one cue at a time so the option changes land between
// messages.
func (s *Script) Stepped() bool {
	for _, c := range s.Cues {
		if len(c.Options) > 0 {
			return true
		}
	}
	return false
}

// Texts returns the cue texts in order.
func (s *Script) Texts() []string {
	out := make([]string, len(s.Cues))
	for i, c := range s.Cues {
		out[i] = c.Text
	}
	return out
}

// Run plays the sheet to completion. Sheet options are applied first; a
// plain sheet is enqueued in one batch, a stepped sheet cue by cue so each
// cue's options take effect before its reveal starts.
func (s *Script) Run(t *typer.Typer) {
	if len(s.Options) > 0 {
		t.UpdateOptions(typer.Options(s.Options))
	}
	if !s.Stepped() {
		t.EnqueueAll(s.Texts())
		t.Wait()
		return
	}
	for _, c := range s.Cues {
		if len(c.Options) > 0 {
			t.UpdateOptions(typer.Options(c.Options))
		}
		t.Enqueue(c.Text)
		t.Wait()
	}
}
