package model

import "io/fs"

// Entry is one immediate child of an inspected directory.
type Entry struct {
	Path  string `json:"path"` // Full path (directory joined with the child name)
	IsDir bool   `json:"isDir"`
}

// AssetReport is the result of inspecting a frontend asset directory.
type AssetReport struct {
	Label      string  // Which location was inspected (e.g. "dist", "resource", "embedded")
	Dir        string  // The directory that was inspected
	EntryFile  string  // Name of the entry file looked for inside Dir
	DirFound   bool    // Dir exists and is a directory
	EntryFound bool    // EntryFile exists inside Dir; only meaningful when DirFound
	Entries    []Entry // Immediate children of Dir, in enumeration order
	ListErr    error   // Set when Dir exists but could not be listed
}

// Healthy reports whether the directory and the entry file were both found.
func (r AssetReport) Healthy() bool {
	return r.DirFound && r.EntryFound
}

// Source pairs a report with the filesystem it was taken from, so callers
// can open the listed files. FS is nil when the directory was not found.
type Source struct {
	Report AssetReport
	FS     fs.FS
}
