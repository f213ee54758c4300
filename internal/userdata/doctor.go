package userdata

import (
	"fmt"
	"io"
	"os"

	"github.com/presalesly/presalesly/internal/platform"
)

// CheckUserdata validates the userdata directory, the session record
// permissions and the preferences file. When fix is true, it attempts to
// repair issues.
func CheckUserdata(w io.Writer, fix bool) error {
	root, err := GetUserdataRoot()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Userdata check:")

	if _, statErr := os.Stat(root); os.IsNotExist(statErr) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", root)
		if fix {
			fmt.Fprintln(w, "  [FIX ] Running init...")
			if initErr := InitGlobal(w); initErr != nil {
				return fmt.Errorf("auto-fix init: %w", initErr)
			}
		} else {
			fmt.Fprintln(w, "         Run 'presalesly init' to create")
		}
		return nil
	}
	checkPerm(w, root, DirPermSecure, fix)

	sessionPath, err := GetSessionPath()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(sessionPath); os.IsNotExist(statErr) {
		fmt.Fprintf(w, "  [ -- ] %s not present (not logged in)\n", sessionPath)
	} else {
		checkPerm(w, sessionPath, FilePermSecure, fix)
	}

	prefsPath, err := GetPreferencesPath()
	if err != nil {
		return err
	}
	checkPreferences(w, prefsPath)

	return nil
}

func checkPerm(w io.Writer, path string, expectedPerm os.FileMode, fix bool) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return
	}

	actualPerm := info.Mode().Perm()
	if actualPerm != expectedPerm {
		fmt.Fprintf(w, "  [WARN] %s has permissions %o (expected %o)\n", path, actualPerm, expectedPerm)
		if fix {
			if chErr := platform.Chmod(path, expectedPerm); chErr != nil {
				fmt.Fprintf(w, "  [FAIL] Could not fix permissions on %s: %v\n", path, chErr)
				return
			}
			fmt.Fprintf(w, "  [FIX ] Fixed permissions on %s to %o\n", path, expectedPerm)
		}
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s (permissions %o)\n", path, actualPerm)
}

func checkPreferences(w io.Writer, path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist (defaults apply)\n", path)
		return
	}
	if _, err := LoadPreferences(); err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s parses\n", path)
}
