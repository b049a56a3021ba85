//go:generate go run ../cmd/assetcheck --root .. --skip-build

// Package frontend embeds the compiled courseware web UI.
//
// The dist directory is produced by the Vite build of the web project and
// copied here before "wails build"; go:generate reports on its state.
package frontend

import "io/fs"

// Dist returns the bundle rooted at its dist directory.
func Dist() fs.FS {
	sub, err := fs.Sub(files, "dist")
	if err != nil {
		// fs.Sub only fails for invalid paths.
		panic(err)
	}
	return sub
}
