// Package assets inspects compiled frontend asset directories.
//
// The same inspection runs at build time against the on-disk dist directory
// and at runtime against the packaged resources and the embedded bundle.
package assets

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"coursehost/internal/model"
)

// DefaultEntry is the file the webview loads first.
const DefaultEntry = "index.html"

// DistDir returns the expected frontend output directory for a project root.
// rel is taken as-is when absolute.
func DistDir(root, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(root, rel)
}

// InspectDir inspects an on-disk directory.
func InspectDir(label, dir, entry string) model.AssetReport {
	r := model.AssetReport{Label: label, Dir: dir, EntryFile: entry}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return r
	}
	return inspect(os.DirFS(dir), r, func(name string) string {
		return filepath.Join(dir, name)
	})
}

// InspectFS inspects the root of fsys. display is the name reported for it.
func InspectFS(fsys fs.FS, label, display, entry string) model.AssetReport {
	r := model.AssetReport{Label: label, Dir: display, EntryFile: entry}
	info, err := fs.Stat(fsys, ".")
	if err != nil || !info.IsDir() {
		return r
	}
	return inspect(fsys, r, func(name string) string {
		return path.Join(display, name)
	})
}

func inspect(fsys fs.FS, r model.AssetReport, join func(string) string) model.AssetReport {
	r.DirFound = true
	if fi, err := fs.Stat(fsys, r.EntryFile); err == nil && !fi.IsDir() {
		r.EntryFound = true
	}
	// fs.ReadDir may return the entries it read before failing.
	children, err := fs.ReadDir(fsys, ".")
	if err != nil {
		r.ListErr = err
	}
	for _, c := range children {
		r.Entries = append(r.Entries, model.Entry{Path: join(c.Name()), IsDir: c.IsDir()})
	}
	return r
}

// ErrKind classifies a listing error for display.
func ErrKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	case errors.Is(err, fs.ErrInvalid):
		return "invalid path"
	default:
		return "i/o error"
	}
}
