package userdata

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Output formats understood by the CLI.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Preferences represents user-wide defaults stored in preferences.yaml.
type Preferences struct {
	OutputFormat string `yaml:"output_format,omitempty"`
	PageSize     int    `yaml:"page_size,omitempty"`
	Language     string `yaml:"language,omitempty"`
	Color        bool   `yaml:"color,omitempty"`

	// Extras holds arbitrary user-defined fields.
	Extras map[string]interface{} `yaml:",inline"`
}

// DefaultPreferences returns the preferences used when no file exists.
func DefaultPreferences() *Preferences {
	return &Preferences{
		OutputFormat: OutputTable,
		PageSize:     50,
	}
}

// LoadPreferences reads and parses preferences.yaml.
func LoadPreferences() (*Preferences, error) {
	path, err := GetPreferencesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	p := DefaultPreferences()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid preferences in %s: %w", path, err)
	}
	return p, nil
}

// LoadPreferencesOrDefault is LoadPreferences with a missing file treated
// as the defaults.
func LoadPreferencesOrDefault() (*Preferences, error) {
	p, err := LoadPreferences()
	if err == nil {
		return p, nil
	}
	path, pathErr := GetPreferencesPath()
	if pathErr == nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return DefaultPreferences(), nil
		}
	}
	return nil, err
}

func (p *Preferences) validate() error {
	switch p.OutputFormat {
	case "", OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output_format must be %q or %q, got %q", OutputTable, OutputJSON, p.OutputFormat)
	}
	// Backend list endpoints accept 1..100.
	if p.PageSize < 0 || p.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", p.PageSize)
	}
	return nil
}
