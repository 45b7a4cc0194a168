package golang

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/load"
)

const testDir = "/src/command"

// loadSource extracts the annotated declarations of a single-file package.
func loadSource(t *testing.T, src string) *load.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, testDir+"/command.go", src, parser.ParseComments)
	require.NoError(t, err)
	fd, err := load.ExtractFile(fset, file, nil)
	require.NoError(t, err)
	for _, e := range fd.Enums {
		e.Variants = fd.Consts[e.Name]
	}
	return &load.Package{
		Name:    file.Name.Name,
		Path:    "example.com/command",
		Dir:     testDir,
		Records: fd.Records,
		Enums:   fd.Enums,
	}
}

// planSource plans src with the Go renderer and the given options.
func planSource(t *testing.T, src string, opts ...gen.Option) *gen.Plan {
	t.Helper()
	cfg, err := gen.NewConfig(append([]gen.Option{gen.WithRenderer(New())}, opts...)...)
	require.NoError(t, err)
	g, err := gen.NewGenerator(cfg)
	require.NoError(t, err)
	p, err := g.Plan(loadSource(t, src))
	require.NoError(t, err)
	return p
}

// renderSource plans and renders src, checking that the output parses.
func renderSource(t *testing.T, src string, opts ...gen.Option) string {
	t.Helper()
	code := New().File(planSource(t, src, opts...)).GoString()
	_, err := parser.ParseFile(token.NewFileSet(), "derive_gen.go", code, parser.ParseComments)
	require.NoError(t, err, code)
	return code
}
