// Package config handles the optional .derive.yaml project file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/syssam/derive/compiler/gen"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// FileName is the name of the project file looked up by Find.
const FileName = ".derive.yaml"

// Config represents the .derive.yaml project configuration file. Empty
// fields keep the generator defaults.
type Config struct {
	Version    int      `yaml:"version"`
	Header     string   `yaml:"header,omitempty"`
	Tag        string   `yaml:"tag,omitempty"`
	Output     string   `yaml:"output,omitempty"`
	Runtime    string   `yaml:"runtime,omitempty"`
	FieldNames string   `yaml:"field_names,omitempty"`
	Workers    int      `yaml:"workers,omitempty"`
	BuildFlags []string `yaml:"build_flags,omitempty"`
	Strict     bool     `yaml:"strict,omitempty"`
	Patterns   []string `yaml:"patterns,omitempty"`
}

// Load reads a Config from a file path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find looks for FileName in dir and its parents, stopping at the
// directory holding go.mod. It returns an empty path when there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	if c.FieldNames != "" && !gen.FieldNames(c.FieldNames).Valid() {
		return fmt.Errorf("field_names: unknown mode %q", c.FieldNames)
	}
	if c.Workers < 0 {
		return errors.New("workers: must not be negative")
	}
	return nil
}

// Options converts the set fields into generator options.
func (c *Config) Options() []gen.Option {
	var opts []gen.Option
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Tag != "" {
		opts = append(opts, gen.WithTagKey(c.Tag))
	}
	if c.Output != "" {
		opts = append(opts, gen.WithOutputFile(c.Output))
	}
	if c.Runtime != "" {
		opts = append(opts, gen.WithRuntime(c.Runtime))
	}
	if c.FieldNames != "" {
		opts = append(opts, gen.WithFieldNames(gen.FieldNames(c.FieldNames)))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	if len(c.BuildFlags) > 0 {
		opts = append(opts, gen.WithBuildFlags(c.BuildFlags...))
	}
	if c.Strict {
		opts = append(opts, gen.WithStrict(true))
	}
	return opts
}
