// Package config loads the application configuration.
//
// Built-in defaults come from the embedded default.yaml. An optional file
// given on the command line is decoded on top of them, so it only needs the
// keys it changes.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the full application configuration.
type Config struct {
	Diagnostics bool     `yaml:"diagnostics"`
	App         App      `yaml:"app"`
	Frontend    Frontend `yaml:"frontend"`
	Shell       Shell    `yaml:"shell"`
	Preview     Preview  `yaml:"preview"`
	Update      Update   `yaml:"update"`
}

// App holds the main window settings.
type App struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Frontend locates the compiled bundle.
type Frontend struct {
	Dist  string `yaml:"dist"`  // Relative to the project root unless absolute
	Entry string `yaml:"entry"` // Loaded first by the webview
}

// Shell is the scope of the shell plugin.
type Shell struct {
	Open  string    `yaml:"open"` // URLs matching this may be opened; empty disables
	Scope []Command `yaml:"scope"`
}

// Command is one program the frontend may run, addressed by Name.
type Command struct {
	Name    string   `yaml:"name"`
	Cmd     string   `yaml:"cmd"`
	Args    []string `yaml:"args"`     // Positional validators, matched as whole-string regexps
	AnyArgs bool     `yaml:"any_args"` // Skip argument validation
}

// Preview configures the browser preview server.
type Preview struct {
	Addr string `yaml:"addr"`
}

// Update names the GitHub repository checked for releases.
type Update struct {
	Owner      string `yaml:"owner"`
	Repository string `yaml:"repository"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	if err := yaml.Unmarshal(defaultYAML, c); err != nil {
		panic(fmt.Sprintf("config: invalid default.yaml: %v", err))
	}
	c.Diagnostics = diagnosticsDefault
	return c
}

// Load returns the defaults overlaid with the file at path. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := Decode(raw, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode overlays raw YAML onto c and validates the result.
func Decode(raw []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding config: %w", err)
	}
	return c.Validate()
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Width <= 0 || c.App.Height <= 0 {
		errs = append(errs, fmt.Errorf("app: window size %dx%d must be positive", c.App.Width, c.App.Height))
	}
	if c.Frontend.Dist == "" {
		errs = append(errs, errors.New("frontend: dist is required"))
	}
	if c.Frontend.Entry == "" {
		errs = append(errs, errors.New("frontend: entry is required"))
	}
	if c.Shell.Open != "" {
		if _, err := regexp.Compile(c.Shell.Open); err != nil {
			errs = append(errs, fmt.Errorf("shell: open: %w", err))
		}
	}
	seen := map[string]bool{}
	for i, cmd := range c.Shell.Scope {
		switch {
		case cmd.Name == "":
			errs = append(errs, fmt.Errorf("shell: scope[%d]: name is required", i))
		case seen[cmd.Name]:
			errs = append(errs, fmt.Errorf("shell: scope[%d]: duplicate name %q", i, cmd.Name))
		}
		seen[cmd.Name] = true
		if cmd.Cmd == "" {
			errs = append(errs, fmt.Errorf("shell: scope[%d]: cmd is required", i))
		}
		for j, a := range cmd.Args {
			if _, err := regexp.Compile(a); err != nil {
				errs = append(errs, fmt.Errorf("shell: scope[%d].args[%d]: %w", i, j, err))
			}
		}
	}
	return errors.Join(errs...)
}
