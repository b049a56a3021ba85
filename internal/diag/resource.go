package diag

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoResourceDir is returned when no candidate resource directory exists.
var ErrNoResourceDir = errors.New("resource directory not found")

// ResourceDir resolves where packaged resources live for the running
// executable.
func ResourceDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return resourceDirFor(exe)
}

func resourceDirFor(exe string) (string, error) {
	candidates := resourceCandidates(exe)
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNoResourceDir, strings.Join(candidates, ", "))
}
