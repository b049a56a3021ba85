//go:build !darwin && !windows

package diag

import (
	"path/filepath"

	"coursehost/internal/model"
)

// Packages install resources under /usr/lib/<app>; a bare binary keeps them
// next to itself.
func resourceCandidates(exe string) []string {
	dir := filepath.Dir(exe)
	return []string{
		filepath.Join(dir, "..", "lib", model.AppName),
		filepath.Join("/usr/lib", model.AppName),
		dir,
	}
}
