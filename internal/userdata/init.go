package userdata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/presalesly/presalesly/internal/platform"
)

// Default content for preferences.yaml.
const defaultPreferencesContent = `output_format: table
page_size: 50
# language: en
# color: true
`

// InitGlobal creates the userdata directory structure with proper permissions.
// It prints progress messages to w. Existing items are skipped with a message.
func InitGlobal(w io.Writer) error {
	root, err := GetUserdataRoot()
	if err != nil {
		return err
	}

	// The root holds session.json, so it is private to the user.
	if err := ensureDir(w, root, DirPermSecure); err != nil {
		return err
	}

	prefsPath := filepath.Join(root, PreferencesFile)
	if err := ensureFile(w, prefsPath, defaultPreferencesContent, FilePermNormal); err != nil {
		return err
	}

	return nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(w io.Writer, path string, perm os.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll may not apply exact perms if parent dirs needed creation.
	if err := platform.Chmod(path, perm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}

// ensureFile creates a file with content if it doesn't exist.
func ensureFile(w io.Writer, path, content string, perm os.FileMode) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(w, "  [SKIP] %s already exists\n", path)
		return nil
	}

	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	fmt.Fprintf(w, "  [ OK ] Created %s\n", path)
	return nil
}
