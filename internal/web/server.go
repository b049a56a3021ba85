// Package web is the browser preview server for the frontend bundle.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"coursehost/internal/assets"
	"coursehost/internal/model"
)

// ReportFunc returns fresh asset reports for /api/assets.
type ReportFunc func() []model.AssetReport

// ReportJSON is the wire form of model.AssetReport.
type ReportJSON struct {
	Label       string        `json:"label"`
	Dir         string        `json:"dir"`
	EntryFile   string        `json:"entryFile"`
	DirFound    bool          `json:"dirFound"`
	EntryFound  bool          `json:"entryFound"`
	Entries     []model.Entry `json:"entries"`
	ListErr     string        `json:"listErr,omitempty"`
	ListErrKind string        `json:"listErrKind,omitempty"`
}

func toJSON(r model.AssetReport) ReportJSON {
	out := ReportJSON{
		Label:      r.Label,
		Dir:        r.Dir,
		EntryFile:  r.EntryFile,
		DirFound:   r.DirFound,
		EntryFound: r.EntryFound,
		Entries:    r.Entries,
	}
	if out.Entries == nil {
		out.Entries = []model.Entry{}
	}
	if r.ListErr != nil {
		out.ListErr = r.ListErr.Error()
		out.ListErrKind = assets.ErrKind(r.ListErr)
	}
	return out
}

// LsEntry is one item returned by /api/ls.
type LsEntry struct {
	Name    string `json:"name"`
	IsDir   bool   `json:"isDir"`
	Size    int64  `json:"size"`
	ModTime string `json:"modTime,omitempty"`
}

type handler struct {
	fsys   fs.FS
	entry  string
	report ReportFunc
	files  http.Handler
}

// NewHandler serves fsys with history-API fallback to entry, plus the
// diagnostic endpoints.
func NewHandler(fsys fs.FS, entry string, report ReportFunc) http.Handler {
	h := &handler{fsys: fsys, entry: entry, report: report, files: http.FileServer(http.FS(fsys))}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/assets", h.handleAssets)
	mux.HandleFunc("GET /api/ls", h.handleLs)
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/", h.handleStatic)
	return mux
}

func (h *handler) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "."
	}
	if _, err := fs.Stat(h.fsys, name); err != nil {
		// Client-side routes have no extension; missing assets stay 404.
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
		h.serveEntry(w, r)
		return
	}
	h.files.ServeHTTP(w, r)
}

func (h *handler) serveEntry(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.fsys, h.entry)
	if err != nil {
		http.Error(w, h.entry+" not found in bundle", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

func (h *handler) handleAssets(w http.ResponseWriter, r *http.Request) {
	var out []ReportJSON
	if h.report != nil {
		for _, rep := range h.report() {
			out = append(out, toJSON(rep))
		}
	}
	if out == nil {
		out = []ReportJSON{}
	}
	writeJSON(w, out)
}

func (h *handler) handleLs(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		p = "."
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		p = "."
	}
	files, err := fs.ReadDir(h.fsys, p)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	entries := []LsEntry{}
	for _, f := range files {
		e := LsEntry{Name: f.Name(), IsDir: f.IsDir()}
		if info, err := f.Info(); err == nil {
			e.Size = info.Size()
			if !info.ModTime().IsZero() {
				e.ModTime = info.ModTime().Format("Jan 02 15:04")
			}
		}
		entries = append(entries, e)
	}
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// Serve runs the preview server on addr until ctx is cancelled.
func Serve(ctx context.Context, logger *slog.Logger, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", "url", "http://"+addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}
