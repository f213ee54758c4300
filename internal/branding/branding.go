// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults apply when a key is missing.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	APIPrefix    string `yaml:"api_prefix"`
	LoginCommand string `yaml:"login_command"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:      "presalesly",
			DisplayName:  "Presalesly",
			Description:  "Command-line client for the Presalesly CRM",
			HomeDir:      ".presalesly",
			EnvPrefix:    "PRESALESLY",
			APIPrefix:    "/api/v1",
			LoginCommand: "login",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "presalesly").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".presalesly").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PRESALESLY").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// APIPrefix returns the path prefix of the versioned REST API.
func APIPrefix() string { load(); return defaults.APIPrefix }

// LoginHint returns the command a user runs to start a new session.
func LoginHint() string { load(); return defaults.CLIName + " " + defaults.LoginCommand }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "PRESALESLY_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
