//go:build !noembed

package frontend

import "embed"

//go:embed all:dist
var files embed.FS
