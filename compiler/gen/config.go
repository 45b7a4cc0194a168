package gen

import (
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// Defaults used by NewConfig.
const (
	// DefaultHeader marks files written by the generator. Files starting
	// with it may be overwritten or removed.
	DefaultHeader = "Code generated by derive. DO NOT EDIT."
	// DefaultTagKey is the struct tag key of builder directives.
	DefaultTagKey = "builder"
	// DefaultOutputFile is the name of the per-package generated file.
	DefaultOutputFile = "derive_gen.go"
	// DefaultRuntime is the import path of the package that provides
	// IncompleteBuilderError to generated code.
	DefaultRuntime = "github.com/syssam/derive"
)

// FieldNames selects how missing fields are named in the error returned
// by a generated Build method.
type FieldNames string

const (
	// FieldNamesGo reports fields by their Go name, e.g. CurrentDir.
	FieldNamesGo FieldNames = "go"
	// FieldNamesSnake reports fields in snake case, e.g. current_dir.
	FieldNamesSnake FieldNames = "snake"
)

// Valid reports whether n is a known naming mode.
func (n FieldNames) Valid() bool {
	return n == FieldNamesGo || n == FieldNamesSnake
}

// Config holds the configuration of a generation run.
type Config struct {
	// Header is written as the first comment of every generated file.
	Header string
	// TagKey is the struct tag key that holds builder directives.
	TagKey string
	// OutputFile is the base name of the generated file in each package.
	OutputFile string
	// Runtime is the import path of the runtime error package.
	Runtime string
	// FieldNames selects the names reported for missing fields.
	FieldNames FieldNames
	// Workers bounds the number of packages rendered in parallel.
	Workers int
	// BuildFlags are passed to the package loader.
	BuildFlags []string
	// Strict makes field-level directive errors fail the run.
	Strict bool
	// Renderer turns synthesized declarations into files.
	Renderer Renderer
}

func defaultConfig() *Config {
	return &Config{
		Header:     DefaultHeader,
		TagKey:     DefaultTagKey,
		OutputFile: DefaultOutputFile,
		Runtime:    DefaultRuntime,
		FieldNames: FieldNamesGo,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch {
	case c.TagKey == "" || strings.ContainsAny(c.TagKey, " \t:\"`"):
		return NewConfigError("TagKey", c.TagKey, "must be a non-empty struct tag key")
	case c.OutputFile == "" || filepath.Base(c.OutputFile) != c.OutputFile:
		return NewConfigError("OutputFile", c.OutputFile, "must be a file name without directories")
	case filepath.Ext(c.OutputFile) != ".go" || strings.HasSuffix(c.OutputFile, "_test.go"):
		return NewConfigError("OutputFile", c.OutputFile, "must be a non-test .go file")
	case c.Runtime == "":
		return NewConfigError("Runtime", nil, "runtime import path cannot be empty")
	case !c.FieldNames.Valid():
		return NewConfigError("FieldNames", c.FieldNames, "use go or snake")
	case c.Workers <= 0:
		return NewConfigError("Workers", c.Workers, "must be positive")
	}
	return nil
}

// IsGenerated reports whether src starts with the configured header
// comment, i.e. whether the file may be overwritten or removed.
func (c *Config) IsGenerated(src []byte) bool {
	header := "// " + c.Header
	line, _, _ := strings.Cut(string(src), "\n")
	return c.Header != "" && strings.TrimSpace(line) == header
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.BuildFlags = slices.Clone(c.BuildFlags)
	return &cp
}
