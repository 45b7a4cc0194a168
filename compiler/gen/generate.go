package gen

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/derive/compiler/load"
	"github.com/syssam/derive/internal/ctxlog"
)

// Plan is everything to be generated for one package.
type Plan struct {
	// Package is the package name used in the generated file.
	Package string
	// Path is the import path of the package.
	Path string
	// File is the absolute path of the generated file.
	File     string
	Header   string
	Runtime  string
	Builders []*Builder
	Enums    []*EnumDict
}

// Empty reports whether the plan generates nothing.
func (p *Plan) Empty() bool {
	return len(p.Builders) == 0 && len(p.Enums) == 0
}

// Diagnostics returns the directive errors of every builder in the plan.
func (p *Plan) Diagnostics() []*DirectiveError {
	var ds []*DirectiveError
	for _, b := range p.Builders {
		ds = append(ds, b.Errors...)
	}
	return ds
}

// Action is what a Result asks the writer to do.
type Action uint8

const (
	// ActionWrite writes Content to Path.
	ActionWrite Action = iota + 1
	// ActionRemove removes a stale generated file at Path.
	ActionRemove
	// ActionSkip leaves Path alone.
	ActionSkip
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case ActionWrite:
		return "write"
	case ActionRemove:
		return "remove"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Result is the outcome of generating one package.
type Result struct {
	Package     string
	Path        string
	Action      Action
	Content     []byte
	Diagnostics []*DirectiveError
}

// Generator plans and renders packages. It is safe for concurrent use.
type Generator struct {
	cfg *Config
}

// NewGenerator returns a generator for cfg, which must have a Renderer.
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if cfg.Renderer == nil {
		return nil, NewConfigError("Renderer", nil, "no renderer set: use WithRenderer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Plan classifies and synthesizes every annotated declaration of pkg.
// Structural errors are joined and returned together with a nil plan:
// nothing is generated for a package that has one.
func (g *Generator) Plan(pkg *load.Package) (*Plan, error) {
	p := &Plan{
		Package: pkg.Name,
		Path:    pkg.Path,
		File:    filepath.Join(pkg.Dir, g.cfg.OutputFile),
		Header:  g.cfg.Header,
		Runtime: g.cfg.Runtime,
	}
	var errs []error
	for _, r := range pkg.Records {
		cs := NewClassifier(r.Name, g.cfg).ClassifyAll(r.Fields)
		b, err := Synthesize(r, cs, g.cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.Builders = append(p.Builders, b)
	}
	for _, e := range pkg.Enums {
		d, err := NewEnumDict(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.Enums = append(p.Enums, d)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return p, nil
}

// Generate plans and renders pkgs in parallel. Results are returned in the
// order of pkgs for every package that could be planned; the error joins
// the failures of the others.
func (g *Generator) Generate(ctx context.Context, pkgs []*load.Package) ([]*Result, error) {
	logger := ctxlog.FromContext(ctx)
	results := make([]*Result, len(pkgs))

	var (
		mu   sync.Mutex
		errs []error
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for i, pkg := range pkgs {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.generate(pkg)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			logger.Debug("planned package",
				"pkg", pkg.Path,
				"renderer", g.cfg.Renderer.Name(),
				"action", res.Action,
				"diagnostics", len(res.Diagnostics))
			results[i] = res
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	out := make([]*Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, errors.Join(errs...)
}

func (g *Generator) generate(pkg *load.Package) (*Result, error) {
	p, err := g.Plan(pkg)
	if err != nil {
		return nil, err
	}
	res := &Result{Package: pkg.Path, Path: p.File, Diagnostics: p.Diagnostics()}
	if p.Empty() {
		res.Action = ActionSkip
		if g.owned(p.File) {
			res.Action = ActionRemove
		}
		return res, nil
	}
	content, err := g.cfg.Renderer.Render(p)
	if err != nil {
		return nil, NewGenerationError("render", p.File, "", err)
	}
	res.Action, res.Content = ActionWrite, content
	return res, nil
}

// owned reports whether path exists and carries the generator header.
func (g *Generator) owned(path string) bool {
	src, err := os.ReadFile(path)
	return err == nil && g.cfg.IsGenerated(src)
}

// Write applies results to disk. An existing file without the generator
// header is never overwritten. Unchanged files are not rewritten.
func (g *Generator) Write(ctx context.Context, results []*Result) error {
	logger := ctxlog.FromContext(ctx)
	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.Workers)
	for _, r := range results {
		errg.Go(func() error {
			switch r.Action {
			case ActionRemove:
				if err := os.Remove(r.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return NewGenerationError("clean", r.Path, "", err)
				}
				logger.Info("removed stale file", "file", r.Path)
			case ActionWrite:
				old, err := os.ReadFile(r.Path)
				switch {
				case err == nil && bytes.Equal(old, r.Content):
					logger.Debug("unchanged", "file", r.Path)
					return nil
				case err == nil && !g.cfg.IsGenerated(old):
					return NewGenerationError("write", r.Path, "refusing to overwrite a file not written by derive", nil)
				case err != nil && !errors.Is(err, fs.ErrNotExist):
					return NewGenerationError("write", r.Path, "", err)
				}
				if err := os.WriteFile(r.Path, r.Content, 0o644); err != nil {
					return NewGenerationError("write", r.Path, "", err)
				}
				logger.Info("generated", "file", r.Path)
			}
			return nil
		})
	}
	return errg.Wait()
}
