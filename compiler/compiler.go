// Package compiler drives a generation run: it loads packages, plans and
// renders their builders and enum tables, and writes or checks the output.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/gen/golang"
	"github.com/syssam/derive/compiler/load"
	"github.com/syssam/derive/internal/ctxlog"
)

// ErrDiagnostics is returned in strict mode when any field carries a
// directive error. The files are written regardless.
var ErrDiagnostics = errors.New("derive: directive errors reported")

// Report summarizes a generation run.
type Report struct {
	// Results holds one entry per package that could be planned.
	Results []*gen.Result
	// Diagnostics are the field-level directive errors of every package,
	// in package then declaration order.
	Diagnostics []*gen.DirectiveError
}

// Written returns the paths of the results that write a file.
func (r *Report) Written() []string {
	var paths []string
	for _, res := range r.Results {
		if res.Action == gen.ActionWrite {
			paths = append(paths, res.Path)
		}
	}
	return paths
}

// Generate loads the packages matched by patterns in dir, renders them
// and writes the generated files. Packages with structural errors are
// skipped and their errors are returned after the others were written.
func Generate(ctx context.Context, cfg *gen.Config, dir string, patterns ...string) (*Report, error) {
	g, report, genErr := run(ctx, cfg, dir, patterns)
	if g == nil {
		return nil, genErr
	}
	if err := g.Write(ctx, report.Results); err != nil {
		return report, errors.Join(genErr, err)
	}
	if g.Config().Strict && len(report.Diagnostics) > 0 {
		genErr = errors.Join(genErr, fmt.Errorf("%w: %d in total", ErrDiagnostics, len(report.Diagnostics)))
	}
	return report, genErr
}

// Drift is a generated file whose content on disk differs from what a
// generation run would produce.
type Drift struct {
	// Path of the generated file.
	Path string
	// Action is what Generate would do to the file.
	Action gen.Action
	// Diff lists the removed (-) and added (+) lines, from disk to the
	// expected content.
	Diff string
}

// Check renders the packages matched by patterns without writing anything
// and returns every file that is out of date.
func Check(ctx context.Context, cfg *gen.Config, dir string, patterns ...string) ([]*Drift, *Report, error) {
	g, report, genErr := run(ctx, cfg, dir, patterns)
	if g == nil {
		return nil, nil, genErr
	}
	var drifts []*Drift
	for _, res := range report.Results {
		if res.Action == gen.ActionSkip {
			continue
		}
		old, err := os.ReadFile(res.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, report, errors.Join(genErr, gen.NewGenerationError("check", res.Path, "", err))
		}
		if string(old) == string(res.Content) {
			continue
		}
		drifts = append(drifts, &Drift{
			Path:   res.Path,
			Action: res.Action,
			Diff:   LineDiff(string(old), string(res.Content)),
		})
	}
	return drifts, report, genErr
}

// run loads and renders. A nil generator means nothing can be written.
func run(ctx context.Context, cfg *gen.Config, dir string, patterns []string) (*gen.Generator, *Report, error) {
	if cfg == nil {
		return nil, nil, gen.NewConfigError("Config", nil, "config cannot be nil")
	}
	cfg = cfg.Clone()
	if cfg.Renderer == nil {
		cfg.Renderer = golang.New()
	}
	g, err := gen.NewGenerator(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := ctxlog.FromContext(ctx)
	pkgs, err := load.Load(ctx, &load.Config{
		Dir:        dir,
		Patterns:   patterns,
		BuildFlags: cfg.BuildFlags,
	})
	if err != nil {
		return nil, nil, err
	}
	for _, pkg := range pkgs {
		// Loading errors are expected while generated files are missing.
		for _, e := range pkg.Errors {
			logger.Debug("package error", "pkg", pkg.Path, "error", e)
		}
	}
	results, genErr := g.Generate(ctx, pkgs)
	if results == nil && genErr != nil && ctx.Err() != nil {
		return nil, nil, genErr
	}
	report := &Report{Results: results}
	for _, res := range results {
		for _, d := range res.Diagnostics {
			logger.Warn(d.Diagnostic(), "pos", d.Pos.String(), "kind", d.Kind.String())
		}
		report.Diagnostics = append(report.Diagnostics, res.Diagnostics...)
	}
	return g, report, genErr
}

// LineDiff returns the lines removed from old (prefixed "-") and added in
// new (prefixed "+"), in order. Unchanged lines are omitted.
func LineDiff(old, new string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "-"
		case diffpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
