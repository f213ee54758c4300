package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/presalesly/presalesly/internal/branding"
)

// Directory and file name constants for the userdata convention.
const (
	UserdataDir     = "userdata"
	SessionFile     = "session.json"
	PreferencesFile = "preferences.yaml"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
	FilePermNormal os.FileMode = 0644
)

// GetUserdataRoot returns the path to the userdata directory.
// It checks the PRESALESLY_USERDATA environment variable first,
// then falls back to ~/.presalesly/userdata.
func GetUserdataRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("USERDATA")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir(), UserdataDir), nil
}

// GetSessionPath returns the path to session.json within userdata.
func GetSessionPath() (string, error) {
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, SessionFile), nil
}

// GetPreferencesPath returns the path to preferences.yaml within userdata.
func GetPreferencesPath() (string, error) {
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, PreferencesFile), nil
}

// EnsureRoot creates the userdata root with secure permissions if missing.
func EnsureRoot() (string, error) {
	root, err := GetUserdataRoot()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(root, DirPermSecure); err != nil {
		return "", fmt.Errorf("creating userdata directory %s: %w", root, err)
	}
	return root, nil
}
