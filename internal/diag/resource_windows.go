package diag

import "path/filepath"

func resourceCandidates(exe string) []string {
	return []string{filepath.Dir(exe)}
}
