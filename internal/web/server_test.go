package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"coursehost/internal/assets"
	"coursehost/internal/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fsys := fstest.MapFS{
		"index.html":          {Data: []byte("<html>app</html>")},
		"assets/index-1a.js":  {Data: []byte("console.log(1)")},
		"assets/index-1a.css": {Data: []byte("body{}")},
	}
	report := func() []model.AssetReport {
		return []model.AssetReport{
			{Label: "embedded", Dir: "frontend/dist", EntryFile: "index.html", DirFound: true, EntryFound: true,
				Entries: []model.Entry{{Path: "frontend/dist/assets", IsDir: true}}},
			{Label: "resource", Dir: "/opt/app", EntryFile: "index.html", DirFound: true,
				ListErr: &fs.PathError{Op: "readdir", Path: "/opt/app", Err: fs.ErrPermission}},
		}
	}
	srv := httptest.NewServer(NewHandler(fsys, "index.html", report))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestHandler_Static(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/", http.StatusOK, "<html>app</html>"},
		{"/assets/index-1a.js", http.StatusOK, "console.log(1)"},
		{"/courses/42/player", http.StatusOK, "<html>app</html>"},
		{"/assets/missing.js", http.StatusNotFound, ""},
		{"/api/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := get(t, srv.URL+tt.path)
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestHandler_MissingEntry(t *testing.T) {
	srv := httptest.NewServer(NewHandler(fstest.MapFS{"app.js": {}}, "index.html", nil))
	defer srv.Close()
	code, body := get(t, srv.URL+"/some/route")
	if code != http.StatusNotFound || !strings.Contains(body, "index.html not found") {
		t.Errorf("got %d %q", code, body)
	}
}

func TestHandler_Assets(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv.URL+"/api/assets")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var got []ReportJSON
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reports", len(got))
	}
	if !got[0].EntryFound || len(got[0].Entries) != 1 || got[0].Entries[0].Path != "frontend/dist/assets" || !got[0].Entries[0].IsDir {
		t.Errorf("report[0] = %+v", got[0])
	}
	if got[1].ListErrKind != "permission denied" || got[1].Entries == nil {
		t.Errorf("report[1] = %+v", got[1])
	}
}

func TestHandler_Ls(t *testing.T) {
	srv := newTestServer(t)
	code, body := get(t, srv.URL+"/api/ls?path=assets")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %s", code, body)
	}
	var entries []LsEntry
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Name != "index-1a.css" || entries[0].Size != 6 {
		t.Errorf("entries = %+v", entries)
	}

	// Paths cannot escape the bundle.
	code, body = get(t, srv.URL+"/api/ls?path=../../etc")
	if code != http.StatusNotFound {
		t.Errorf("escape attempt: status %d: %s", code, body)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, slog.New(slog.NewTextHandler(&buf, nil)), "127.0.0.1:0", http.NotFoundHandler())
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestWatch(t *testing.T) {
	root := t.TempDir()
	dist := filepath.Join(root, "dist")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	var buf bytes.Buffer
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, slog.New(slog.NewTextHandler(&buf, nil)), dist, func() { changed <- struct{}{} })
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.Mkdir(dist, 0o755); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("creation of the bundle directory not reported")
	}

	if err := os.WriteFile(filepath.Join(dist, "index.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("write inside the bundle directory not reported")
	}

	// A rebuild from scratch: the directory goes away and comes back.
	time.Sleep(400 * time.Millisecond)
	drain(changed)
	if err := os.RemoveAll(dist); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("removal of the bundle directory not reported")
	}
	time.Sleep(400 * time.Millisecond)
	drain(changed)
	if err := os.Mkdir(dist, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dist, "index.html"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("recreated bundle directory not reported")
	}
	if r := assets.InspectDir("dist", dist, "index.html"); !r.Healthy() {
		t.Errorf("report after rebuild = %+v", r)
	}

	// Still following the new directory.
	time.Sleep(400 * time.Millisecond)
	drain(changed)
	if err := os.WriteFile(filepath.Join(dist, "app.js"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("write inside the recreated directory not reported")
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Watch() = %v", err)
	}
}

func drain(c chan struct{}) {
	for {
		select {
		case <-c:
		default:
			return
		}
	}
}
