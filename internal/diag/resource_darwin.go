package diag

import "path/filepath"

// Inside an app bundle the executable is Contents/MacOS/<name> and resources
// are in Contents/Resources.
func resourceCandidates(exe string) []string {
	dir := filepath.Dir(exe)
	return []string{filepath.Join(dir, "..", "Resources"), dir}
}
