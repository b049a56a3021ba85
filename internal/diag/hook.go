package diag

import (
	"context"
	"io/fs"
	"log/slog"
	"os"

	"coursehost/internal/assets"
	"coursehost/internal/model"
)

// Hook is the setup-time inspection of the packaged frontend.
type Hook struct {
	// Out receives the diagnostic lines.
	Out *slog.Logger
	// Entry is the file the webview loads first.
	Entry string
	// Embedded is the bundle compiled into the binary, rooted at its dist
	// directory. Nil skips the check.
	Embedded fs.FS
	// Resolve finds the on-disk resource directory. Defaults to ResourceDir.
	Resolve func() (string, error)
}

// Run prints the diagnostics. Resolution failures are reported, never
// returned.
func (h *Hook) Run(ctx context.Context) error {
	h.Out.Info("setup complete, inspecting packaged frontend")
	sources, err := Collect(h.Embedded, h.Entry, h.Resolve)
	for _, s := range sources {
		assets.Emit(ctx, h.Out, slog.LevelInfo, s.Report)
	}
	if err != nil {
		h.Out.Warn("could not resolve resource directory", "err", err)
	}
	return nil
}

// Collect inspects the embedded bundle, when given, and the resolved
// resource directory. The returned error is the resolution failure; the
// embedded report is still returned with it.
func Collect(embedded fs.FS, entry string, resolve func() (string, error)) ([]model.Source, error) {
	var out []model.Source
	if embedded != nil {
		r := assets.InspectFS(embedded, "embedded", "frontend/dist", entry)
		out = append(out, model.Source{Report: r, FS: sourceFS(r, embedded)})
	}
	if resolve == nil {
		resolve = ResourceDir
	}
	dir, err := resolve()
	if err != nil {
		return out, err
	}
	r := assets.InspectDir("resource", dir, entry)
	out = append(out, model.Source{Report: r, FS: sourceFS(r, os.DirFS(dir))})
	return out, nil
}

func sourceFS(r model.AssetReport, fsys fs.FS) fs.FS {
	if !r.DirFound {
		return nil
	}
	return fsys
}
