package golang

import (
	"fmt"
	"path/filepath"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/derive/compiler/gen"
)

// genErrors emits one uncompilable declaration per directive error of b.
// The //line directive makes the Go compiler report it at the field's
// struct tag.
func genErrors(f *jen.File, b *gen.Builder) {
	for _, e := range b.Errors {
		if e.Pos.IsValid() && e.Pos.Filename != "" {
			f.Comment(fmt.Sprintf("//line %s:%d:%d", filepath.Base(e.Pos.Filename), e.Pos.Line, e.Pos.Column))
		}
		f.Var().Id("_").Int().Op("=").Lit(e.Diagnostic())
		f.Line()
	}
}
