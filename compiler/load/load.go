// Package load reads Go packages and extracts the record and enum
// declarations annotated for generation.
package load

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"
)

// Config controls package loading.
type Config struct {
	// Dir is the directory in which patterns are resolved.
	// Empty means the current directory.
	Dir string
	// Patterns are go/packages patterns. Empty means ".".
	Patterns []string
	// BuildFlags are passed to the underlying build system.
	BuildFlags []string
	// Tests includes test files.
	Tests bool
}

// Package is a loaded Go package with its annotated declarations.
type Package struct {
	// Name is the package name.
	Name string
	// Path is the import path.
	Path string
	// Dir is the directory holding the package files.
	Dir string
	// Files are the absolute paths of the Go files that were parsed.
	Files []string
	// Records are the types annotated with BuilderMarker, ordered by file
	// then position.
	Records []*Record
	// Enums are the types annotated with EnumMarker with their variants.
	Enums []*Enum
	// Errors holds the problems reported while loading. They do not stop
	// extraction; generated files referenced by the sources may not
	// exist yet.
	Errors []error
}

// ErrNoPackages is returned when the patterns match no package.
var ErrNoPackages = errors.New("load: no packages matched")

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedImports

// Load loads the packages matched by cfg and extracts their annotated
// declarations.
func Load(ctx context.Context, cfg *Config) ([]*Package, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	fset := token.NewFileSet()
	pcfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
		Tests:      cfg.Tests,
		Fset:       fset,
	}
	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoPackages, patterns)
	}
	out := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		lp, err := fromPackage(fset, p)
		if err != nil {
			return nil, err
		}
		out = append(out, lp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func fromPackage(fset *token.FileSet, p *packages.Package) (*Package, error) {
	lp := &Package{
		Name:  p.Name,
		Path:  p.PkgPath,
		Files: p.CompiledGoFiles,
	}
	if len(lp.Files) == 0 {
		lp.Files = p.GoFiles
	}
	if len(lp.Files) > 0 {
		lp.Dir = filepath.Dir(lp.Files[0])
	}
	for _, e := range p.Errors {
		lp.Errors = append(lp.Errors, e)
	}
	names := make(map[string]string, len(p.Imports))
	for path, ip := range p.Imports {
		names[path] = ip.Name
	}
	consts := make(map[string][]*Variant)
	for _, f := range p.Syntax {
		fd, err := ExtractFile(fset, f, FileImports(f, names))
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", p.PkgPath, err)
		}
		lp.Records = append(lp.Records, fd.Records...)
		lp.Enums = append(lp.Enums, fd.Enums...)
		for typ, vs := range fd.Consts {
			consts[typ] = append(consts[typ], vs...)
		}
	}
	sort.SliceStable(lp.Records, func(i, j int) bool { return before(lp.Records[i].Pos, lp.Records[j].Pos) })
	sort.SliceStable(lp.Enums, func(i, j int) bool { return before(lp.Enums[i].Pos, lp.Enums[j].Pos) })
	for _, e := range lp.Enums {
		vs := consts[e.Name]
		sort.SliceStable(vs, func(i, j int) bool { return before(vs[i].Pos, vs[j].Pos) })
		e.Variants = vs
	}
	return lp, nil
}

func before(a, b token.Position) bool {
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	return a.Offset < b.Offset
}
