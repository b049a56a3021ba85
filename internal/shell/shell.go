// Package shell is the process-execution bridge exposed to the frontend.
//
// The frontend addresses programs by their scope name. Run-to-completion
// commands go through Execute; long-running ones through Spawn, whose output
// is streamed back as events.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"coursehost/internal/config"
)

// Event names emitted for spawned processes.
const (
	EventStdout     = "shell://stdout"
	EventStderr     = "shell://stderr"
	EventTerminated = "shell://terminated"
)

// ErrNoProcess is returned for a pid that was not spawned by the bridge or
// has already exited.
var ErrNoProcess = errors.New("no such process")

// Output is the result of a command run to completion.
type Output struct {
	Code   int    `json:"code"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Line is one line of output from a spawned process.
type Line struct {
	PID  int    `json:"pid"`
	Line string `json:"line"`
}

// Terminated reports the exit of a spawned process.
type Terminated struct {
	PID  int `json:"pid"`
	Code int `json:"code"`
}

// Plugin registers the bridge with the application.
type Plugin struct {
	bridge *Bridge
}

// New returns the shell plugin for the configured scope.
func New(cfg config.Shell, logger *slog.Logger) (*Plugin, error) {
	scope, err := NewScope(cfg)
	if err != nil {
		return nil, err
	}
	return &Plugin{bridge: newBridge(scope, logger)}, nil
}

// Name identifies the plugin.
func (p *Plugin) Name() string { return "shell" }

// Bindings returns the object whose methods the frontend calls.
func (p *Plugin) Bindings() any { return p.bridge }

// Start records the runtime context used for events and process lifetimes.
func (p *Plugin) Start(ctx context.Context) error {
	p.bridge.mu.Lock()
	p.bridge.ctx = ctx
	p.bridge.mu.Unlock()
	return nil
}

// Stop kills every process still running.
func (p *Plugin) Stop(ctx context.Context) {
	p.bridge.killAll()
}

type child struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// Bridge is bound to the frontend. Its exported methods form the API.
type Bridge struct {
	scope  *Scope
	logger *slog.Logger
	emit   func(ctx context.Context, name string, data ...any)
	open   func(ctx context.Context, url string)

	mu       sync.Mutex
	ctx      context.Context
	children map[int]*child
}

func newBridge(scope *Scope, logger *slog.Logger) *Bridge {
	return &Bridge{
		scope:    scope,
		logger:   logger,
		emit:     runtime.EventsEmit,
		open:     runtime.BrowserOpenURL,
		ctx:      context.Background(),
		children: map[int]*child{},
	}
}

func (b *Bridge) runCtx() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

func (b *Bridge) command(name string, args []string) (*exec.Cmd, error) {
	program, err := b.scope.Resolve(name, args)
	if err != nil {
		b.logger.Warn("shell: rejected", "name", name, "err", err)
		return nil, err
	}
	return exec.CommandContext(b.runCtx(), program, args...), nil
}

// Execute runs a scoped command to completion. A non-zero exit status is
// reported in Output.Code, not as an error.
func (b *Bridge) Execute(name string, args []string) (Output, error) {
	cmd, err := b.command(name, args)
	if err != nil {
		return Output{}, err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		out.Code = exitErr.ExitCode()
	case err != nil:
		return Output{}, fmt.Errorf("running %q: %w", name, err)
	}
	b.logger.Debug("shell: executed", "name", name, "code", out.Code)
	return out, nil
}

// Spawn starts a scoped command and returns its pid. Output lines and the
// exit status are delivered as events.
func (b *Bridge) Spawn(name string, args []string) (int, error) {
	cmd, err := b.command(name, args)
	if err != nil {
		return 0, err
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return 0, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, err
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting %q: %w", name, err)
	}
	pid := cmd.Process.Pid

	b.mu.Lock()
	b.children[pid] = &child{cmd: cmd, stdin: stdin}
	ctx := b.ctx
	b.mu.Unlock()
	b.logger.Info("shell: spawned", "name", name, "pid", pid)

	var wg sync.WaitGroup
	wg.Add(2)
	go b.stream(ctx, &wg, pid, stdout, EventStdout)
	go b.stream(ctx, &wg, pid, stderr, EventStderr)
	go func() {
		// Pipes must be drained before Wait closes them.
		wg.Wait()
		err := cmd.Wait()
		code := 0
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		} else if err != nil {
			code = -1
		}
		b.mu.Lock()
		delete(b.children, pid)
		b.mu.Unlock()
		b.logger.Info("shell: terminated", "name", name, "pid", pid, "code", code)
		b.emit(ctx, EventTerminated, Terminated{PID: pid, Code: code})
	}()
	return pid, nil
}

func (b *Bridge) stream(ctx context.Context, wg *sync.WaitGroup, pid int, r io.Reader, event string) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		b.emit(ctx, event, Line{PID: pid, Line: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		b.logger.Warn("shell: reading output", "pid", pid, "err", err)
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
	}
}

func (b *Bridge) lookup(pid int) (*child, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.children[pid]
	if !ok {
		return nil, fmt.Errorf("pid %d: %w", pid, ErrNoProcess)
	}
	return c, nil
}

// Write sends data to the stdin of a spawned process.
func (b *Bridge) Write(pid int, data string) error {
	c, err := b.lookup(pid)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.stdin, data)
	return err
}

// Kill terminates a spawned process.
func (b *Bridge) Kill(pid int) error {
	c, err := b.lookup(pid)
	if err != nil {
		return err
	}
	return c.cmd.Process.Kill()
}

func (b *Bridge) killAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for pid, c := range b.children {
		if err := c.cmd.Process.Kill(); err != nil {
			b.logger.Warn("shell: kill", "pid", pid, "err", err)
		}
	}
}

// Open hands a URL to the system browser or mail client.
func (b *Bridge) Open(target string) error {
	if !b.scope.CanOpen(target) {
		return fmt.Errorf("open %q: %w", target, ErrNotAllowed)
	}
	b.open(b.runCtx(), target)
	return nil
}
