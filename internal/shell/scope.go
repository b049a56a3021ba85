package shell

import (
	"errors"
	"fmt"
	"regexp"

	"coursehost/internal/config"
)

// ErrNotAllowed is returned for commands, arguments or URLs outside the scope.
var ErrNotAllowed = errors.New("not allowed by shell scope")

type scopedCommand struct {
	program string
	args    []*regexp.Regexp
	anyArgs bool
}

// Scope decides what the frontend may run or open.
type Scope struct {
	commands map[string]scopedCommand
	open     *regexp.Regexp
}

// NewScope compiles the configured scope.
func NewScope(cfg config.Shell) (*Scope, error) {
	s := &Scope{commands: make(map[string]scopedCommand, len(cfg.Scope))}
	if cfg.Open != "" {
		re, err := regexp.Compile(cfg.Open)
		if err != nil {
			return nil, fmt.Errorf("shell: open pattern: %w", err)
		}
		s.open = re
	}
	for _, c := range cfg.Scope {
		sc := scopedCommand{program: c.Cmd, anyArgs: c.AnyArgs}
		for _, a := range c.Args {
			// Validators must match the whole argument.
			re, err := regexp.Compile(`^(?:` + a + `)$`)
			if err != nil {
				return nil, fmt.Errorf("shell: %s: %w", c.Name, err)
			}
			sc.args = append(sc.args, re)
		}
		s.commands[c.Name] = sc
	}
	return s, nil
}

// Resolve returns the program to run for name with args.
func (s *Scope) Resolve(name string, args []string) (string, error) {
	c, ok := s.commands[name]
	if !ok {
		return "", fmt.Errorf("command %q: %w", name, ErrNotAllowed)
	}
	if c.anyArgs {
		return c.program, nil
	}
	if len(args) != len(c.args) {
		return "", fmt.Errorf("command %q takes %d arguments, got %d: %w", name, len(c.args), len(args), ErrNotAllowed)
	}
	for i, re := range c.args {
		if !re.MatchString(args[i]) {
			return "", fmt.Errorf("command %q argument %d %q: %w", name, i, args[i], ErrNotAllowed)
		}
	}
	return c.program, nil
}

// CanOpen reports whether target may be handed to the system opener.
func (s *Scope) CanOpen(target string) bool {
	return s.open != nil && s.open.MatchString(target)
}
