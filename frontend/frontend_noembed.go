//go:build noembed

package frontend

import "testing/fstest"

// Stub used with -tags noembed so the Go code builds without the bundle.
var files = fstest.MapFS{
	"dist/index.html": &fstest.MapFile{Data: []byte("<!-- noembed stub -->")},
}
