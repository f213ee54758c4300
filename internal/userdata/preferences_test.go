package userdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPreferences_Extras(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("PRESALESLY_USERDATA", tmp)

	content := "output_format: json\npage_size: 20\nlanguage: fr\ntheme: dark\n"
	if err := os.WriteFile(filepath.Join(tmp, PreferencesFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if p.OutputFormat != OutputJSON || p.PageSize != 20 || p.Language != "fr" {
		t.Errorf("unexpected preferences: %+v", p)
	}
	if p.Extras["theme"] != "dark" {
		t.Errorf("expected extras to keep theme, got %v", p.Extras)
	}
}

func TestLoadPreferences_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad format", "output_format: xml\n"},
		{"page size too large", "page_size: 500\n"},
		{"not yaml", "output_format: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			t.Setenv("PRESALESLY_USERDATA", tmp)
			if err := os.WriteFile(filepath.Join(tmp, PreferencesFile), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadPreferences(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadPreferencesOrDefault_Missing(t *testing.T) {
	t.Setenv("PRESALESLY_USERDATA", t.TempDir())

	p, err := LoadPreferencesOrDefault()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.OutputFormat != OutputTable || p.PageSize != 50 {
		t.Errorf("expected defaults, got %+v", p)
	}
}
