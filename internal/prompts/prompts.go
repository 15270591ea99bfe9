// Package prompts loads named prompt templates and fills their {placeholder}
// variables.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ResumeAnalysis is the template used for resume feedback.
const ResumeAnalysis = "resume_analysis"

// Format identifies the encoding of a prompt definitions file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed prompts.json
var defaultPrompts []byte

// Entry is a single prompt definition.
type Entry struct {
	Template    string `json:"template" yaml:"template"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Set is an immutable collection of parsed templates. It is safe for
// concurrent use.
type Set struct {
	source    string
	templates map[string]*template
}

// Load reads prompt definitions from path. The format follows the file
// extension: .yaml and .yml use YAML, anything else is treated as JSON.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read prompts file %s: %v", ErrConfig, path, err)
	}
	set, err := Parse(data, formatFor(path))
	if err != nil {
		return nil, fmt.Errorf("prompts file %s: %w", path, err)
	}
	set.source = path
	return set, nil
}

// Default returns the prompt definitions compiled into the binary.
func Default() (*Set, error) {
	set, err := Parse(defaultPrompts, FormatJSON)
	if err != nil {
		return nil, err
	}
	set.source = "embedded"
	return set, nil
}

// Parse decodes prompt definitions from data.
func Parse(data []byte, format Format) (*Set, error) {
	entries := map[string]Entry{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrConfig, err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrConfig, format)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no prompts defined", ErrConfig)
	}

	templates := make(map[string]*template, len(entries))
	for name, entry := range entries {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: prompt with empty name", ErrConfig)
		}
		if strings.TrimSpace(entry.Template) == "" {
			return nil, fmt.Errorf("%w: prompt %q has no template", ErrConfig, name)
		}
		tmpl, err := parseTemplate(entry.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: prompt %q: %v", ErrConfig, name, err)
		}
		tmpl.description = entry.Description
		templates[name] = tmpl
	}
	return &Set{templates: templates}, nil
}

// Get returns the named template with every placeholder replaced by its
// value in vars. A placeholder without a value is an error; unused vars are
// ignored.
func (s *Set) Get(name string, vars map[string]string) (string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return tmpl.render(name, vars)
}

// Placeholders lists the distinct placeholder names of a template in order
// of first appearance.
func (s *Set) Placeholders(name string) ([]string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return append([]string(nil), tmpl.placeholders...), nil
}

// Require checks that the named template exists and that its placeholders
// are exactly keys.
func (s *Set) Require(name string, keys ...string) error {
	have, err := s.Placeholders(name)
	if err != nil {
		return err
	}
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	var missing, unexpected []string
	got := make(map[string]struct{}, len(have))
	for _, p := range have {
		got[p] = struct{}{}
		if _, ok := want[p]; !ok {
			unexpected = append(unexpected, p)
		}
	}
	for _, k := range keys {
		if _, ok := got[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		sort.Strings(missing)
		sort.Strings(unexpected)
		return fmt.Errorf("%w: prompt %q placeholders mismatch (missing=%v unexpected=%v)", ErrSubstitution, name, missing, unexpected)
	}
	return nil
}

// Names returns the prompt names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Description returns the optional description of a prompt.
func (s *Set) Description(name string) string {
	if tmpl, ok := s.templates[name]; ok {
		return tmpl.description
	}
	return ""
}

// Source reports where the set was loaded from.
func (s *Set) Source() string {
	return s.source
}

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
