package golang

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/derive/compiler/gen"
)

// runtimeName is the package name of the runtime import in generated files.
const runtimeName = "derive"

// Renderer renders plans as Go files.
type Renderer struct{}

// New returns a Go renderer.
func New() *Renderer {
	return &Renderer{}
}

var _ gen.Renderer = (*Renderer)(nil)

// Name implements gen.Renderer.
func (r *Renderer) Name() string {
	return "golang"
}

// formatOptions group standard library imports apart from the others
// without resolving or dropping any import.
var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// Render implements gen.Renderer. The output is formatted like goimports.
func (r *Renderer) Render(p *gen.Plan) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.File(p).Render(&buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.File, err)
	}
	formatted, err := imports.Process(p.File, buf.Bytes(), formatOptions)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", p.File, err)
	}
	return formatted, nil
}

// File returns the jennifer file for p.
func (r *Renderer) File(p *gen.Plan) *jen.File {
	f := jen.NewFilePathName(p.Path, p.Package)
	if p.Header != "" {
		f.HeaderComment(p.Header)
	}
	if p.Package != runtimeName {
		f.ImportName(p.Runtime, runtimeName)
	}
	for _, b := range p.Builders {
		importTypes(f, b)
		genBuilder(f, b, p.Runtime)
	}
	for _, d := range p.Enums {
		genEnum(f, d)
	}
	// Error declarations come last: a //line directive affects every line
	// after it.
	for _, b := range p.Builders {
		genErrors(f, b)
	}
	return f
}
