package shell

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"testing"
	"time"

	"coursehost/internal/config"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	lines  []Line
	done   chan Terminated
}

func newRecorder() *recorder {
	return &recorder{done: make(chan Terminated, 1)}
}

func (r *recorder) emit(ctx context.Context, name string, data ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
	for _, d := range data {
		switch v := d.(type) {
		case Line:
			r.lines = append(r.lines, v)
		case Terminated:
			r.done <- v
		}
	}
}

func newTestBridge(t *testing.T, cfg config.Shell) (*Plugin, *recorder) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	var buf bytes.Buffer
	p, err := New(cfg, slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatal(err)
	}
	rec := newRecorder()
	p.bridge.emit = rec.emit
	return p, rec
}

func TestScope(t *testing.T) {
	s, err := NewScope(config.Shell{
		Open: `^https?://`,
		Scope: []config.Command{
			{Name: "greet", Cmd: "echo", Args: []string{"hello|hi", `\w+`}},
			{Name: "anything", Cmd: "sh", AnyArgs: true},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		cmd     string
		args    []string
		wantErr bool
	}{
		{"allowed", "greet", []string{"hello", "world"}, false},
		{"alternation is anchored", "greet", []string{"hello there", "world"}, true},
		{"validator is anchored", "greet", []string{"hi", "two words"}, true},
		{"too few args", "greet", []string{"hi"}, true},
		{"too many args", "greet", []string{"hi", "a", "b"}, true},
		{"unknown command", "rm", []string{"-rf", "/"}, true},
		{"any args", "anything", []string{"-c", "exit 3"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Resolve(tt.cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNotAllowed) {
				t.Errorf("error %v does not wrap ErrNotAllowed", err)
			}
		})
	}
	if !s.CanOpen("https://example.com") || s.CanOpen("file:///etc/passwd") {
		t.Error("CanOpen mismatch")
	}

	if _, err := NewScope(config.Shell{Open: "("}); err == nil {
		t.Error("expected error for invalid open pattern")
	}
	empty, err := NewScope(config.Shell{})
	if err != nil {
		t.Fatal(err)
	}
	if empty.CanOpen("https://example.com") {
		t.Error("empty open pattern should disable Open")
	}
}

func TestBridge_Execute(t *testing.T) {
	p, _ := newTestBridge(t, config.Shell{Scope: []config.Command{{Name: "sh", Cmd: "sh", AnyArgs: true}}})
	b := p.Bindings().(*Bridge)

	out, err := b.Execute("sh", []string{"-c", "echo out; echo err >&2; exit 3"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Code != 3 || out.Stdout != "out\n" || out.Stderr != "err\n" {
		t.Errorf("Execute() = %+v", out)
	}

	if _, err := b.Execute("bash", nil); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("Execute(unscoped) error = %v, want ErrNotAllowed", err)
	}
}

func TestBridge_ExecuteMissingProgram(t *testing.T) {
	p, _ := newTestBridge(t, config.Shell{Scope: []config.Command{{Name: "ghost", Cmd: "coursehost-no-such-program"}}})
	if _, err := p.bridge.Execute("ghost", nil); err == nil || errors.Is(err, ErrNotAllowed) {
		t.Errorf("Execute() error = %v, want a start error", err)
	}
}

func TestBridge_Spawn(t *testing.T) {
	p, rec := newTestBridge(t, config.Shell{Scope: []config.Command{{Name: "cat", Cmd: "cat"}}})
	if err := p.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	b := p.bridge

	pid, err := b.Spawn("cat", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Write(pid, "first\nsecond\n"); err != nil {
		t.Fatal(err)
	}
	c, err := b.lookup(pid)
	if err != nil {
		t.Fatal(err)
	}
	c.stdin.Close()

	select {
	case term := <-rec.done:
		if term.PID != pid || term.Code != 0 {
			t.Errorf("Terminated = %+v", term)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("process did not terminate")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.lines) != 2 || rec.lines[0].Line != "first" || rec.lines[1].Line != "second" {
		t.Errorf("lines = %+v", rec.lines)
	}
	if rec.events[len(rec.events)-1] != EventTerminated {
		t.Errorf("last event = %q, want %q", rec.events[len(rec.events)-1], EventTerminated)
	}
	if _, err := b.lookup(pid); !errors.Is(err, ErrNoProcess) {
		t.Errorf("lookup after exit = %v, want ErrNoProcess", err)
	}
}

func TestBridge_Kill(t *testing.T) {
	p, rec := newTestBridge(t, config.Shell{Scope: []config.Command{{Name: "sleep", Cmd: "sleep", Args: []string{`\d+`}}}})
	b := p.bridge

	pid, err := b.Spawn("sleep", []string{"30"})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Kill(pid); err != nil {
		t.Fatal(err)
	}
	select {
	case term := <-rec.done:
		if term.Code == 0 {
			t.Errorf("killed process reported code 0")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("process was not killed")
	}
	if err := b.Kill(pid); !errors.Is(err, ErrNoProcess) {
		t.Errorf("second Kill() = %v, want ErrNoProcess", err)
	}
	if err := b.Write(12345678, "x"); !errors.Is(err, ErrNoProcess) {
		t.Errorf("Write(unknown) = %v, want ErrNoProcess", err)
	}
}

func TestPlugin_StopKillsChildren(t *testing.T) {
	p, rec := newTestBridge(t, config.Shell{Scope: []config.Command{{Name: "sleep", Cmd: "sleep", Args: []string{`\d+`}}}})
	if _, err := p.bridge.Spawn("sleep", []string{"30"}); err != nil {
		t.Fatal(err)
	}
	p.Stop(context.Background())
	select {
	case <-rec.done:
	case <-time.After(10 * time.Second):
		t.Fatal("Stop did not kill the child")
	}
}

func TestBridge_Open(t *testing.T) {
	p, _ := newTestBridge(t, config.Shell{Open: `^https://`})
	var opened []string
	p.bridge.open = func(ctx context.Context, url string) { opened = append(opened, url) }

	if err := p.bridge.Open("https://example.com/docs"); err != nil {
		t.Fatal(err)
	}
	if err := p.bridge.Open("javascript:alert(1)"); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("Open(javascript) = %v, want ErrNotAllowed", err)
	}
	if len(opened) != 1 || opened[0] != "https://example.com/docs" {
		t.Errorf("opened = %v", opened)
	}
	if p.Name() != "shell" {
		t.Errorf("Name() = %q", p.Name())
	}
}
