package gen

import (
	"errors"
	"strings"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file and identifies
// files the generator owns.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTagKey sets the struct tag key that holds builder directives.
func WithTagKey(key string) Option {
	return func(c *Config) error {
		if key == "" || strings.ContainsAny(key, " \t:\"`") {
			return NewConfigError("TagKey", key, "must be a non-empty struct tag key")
		}
		c.TagKey = key
		return nil
	}
}

// WithOutputFile sets the base name of the generated file.
func WithOutputFile(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("OutputFile", nil, "output file cannot be empty")
		}
		c.OutputFile = name
		return nil
	}
}

// WithRuntime sets the import path of the package providing
// IncompleteBuilderError to generated code.
func WithRuntime(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("Runtime", nil, "runtime import path cannot be empty")
		}
		c.Runtime = path
		return nil
	}
}

// WithFieldNames sets the naming of fields reported as missing.
// Supported modes: "go", "snake".
func WithFieldNames(n FieldNames) Option {
	return func(c *Config) error {
		if !n.Valid() {
			return NewConfigError("FieldNames", n, "unsupported naming; use go or snake")
		}
		c.FieldNames = n
		return nil
	}
}

// WithWorkers sets the number of packages rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithStrict makes field-level directive errors fail the run.
func WithStrict(strict bool) Option {
	return func(c *Config) error {
		c.Strict = strict
		return nil
	}
}

// WithRenderer sets the renderer used to produce files.
func WithRenderer(r Renderer) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Renderer", nil, "renderer cannot be nil")
		}
		c.Renderer = r
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
