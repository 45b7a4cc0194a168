package golang

import (
	"path"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/derive/compiler/gen"
	"github.com/syssam/derive/compiler/load"
)

// typeCode returns the jennifer code for t. Types that TypeRef does not
// model structurally are rendered from their source form.
func typeCode(t *load.TypeRef) *jen.Statement {
	switch t.Kind {
	case load.KindNamed:
		var s *jen.Statement
		switch {
		case t.PkgPath != "":
			s = jen.Qual(t.PkgPath, t.Name)
		case t.Pkg != "":
			s = jen.Id(t.Pkg + "." + t.Name)
		default:
			s = jen.Id(t.Name)
		}
		if len(t.Args) > 0 {
			args := make([]jen.Code, len(t.Args))
			for i, a := range t.Args {
				args[i] = typeCode(a)
			}
			s.Types(args...)
		}
		return s
	case load.KindPointer:
		return jen.Op("*").Add(typeCode(t.Elem()))
	case load.KindSlice:
		return jen.Index().Add(typeCode(t.Elem()))
	case load.KindArray:
		return jen.Index(jen.Id(t.Name)).Add(typeCode(t.Elem()))
	case load.KindMap:
		return jen.Map(typeCode(t.Args[0])).Add(typeCode(t.Args[1]))
	case load.KindChan:
		switch t.Name {
		case "<-chan":
			return jen.Op("<-").Chan().Add(typeCode(t.Elem()))
		case "chan<-":
			return jen.Chan().Op("<-").Add(typeCode(t.Elem()))
		default:
			return jen.Chan().Add(typeCode(t.Elem()))
		}
	default:
		return otherCode(t)
	}
}

// otherCode renders a verbatim type expression, replacing each resolved
// pkg.Name reference with a qualified identifier so its import is kept.
// Identifiers inside string literals (struct tags) are left alone.
func otherCode(t *load.TypeRef) *jen.Statement {
	quals := make(map[string]*load.TypeRef, len(t.Refs))
	for _, r := range t.Refs {
		if r.PkgPath != "" {
			quals[r.Pkg+"."+r.Name] = r
		}
	}
	if len(quals) == 0 {
		return jen.Id(t.Expr)
	}
	src := t.Expr
	s := jen.Null()
	start := 0
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '`':
			i = skipLiteral(src, i)
		case isIdentByte(c) && (i == 0 || !isIdentByte(src[i-1]) && src[i-1] != '.'):
			j := i
			for j < len(src) && (isIdentByte(src[j]) || src[j] == '.') {
				j++
			}
			if r, ok := quals[src[i:j]]; ok {
				if start < i {
					s.Id(src[start:i])
				}
				s.Qual(r.PkgPath, r.Name)
				start = j
			}
			i = j
		default:
			i++
		}
	}
	if start < len(src) {
		s.Id(src[start:])
	}
	return s
}

// skipLiteral returns the index just past the string literal opening at i.
func skipLiteral(src string, i int) int {
	quote := src[i]
	for i++; i < len(src); i++ {
		switch {
		case src[i] == '\\' && quote == '"':
			i++
		case src[i] == quote:
			return i + 1
		}
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// importTypes registers the source alias of every qualified type used by b,
// so that generated code refers to packages by the names the record uses.
func importTypes(f *jen.File, b *gen.Builder) {
	for _, s := range b.Slots {
		walk(s.Type, func(t *load.TypeRef) {
			if t.Kind != load.KindNamed || t.PkgPath == "" || t.Pkg == "" {
				return
			}
			if path.Base(t.PkgPath) == t.Pkg {
				f.ImportName(t.PkgPath, t.Pkg)
			} else {
				f.ImportAlias(t.PkgPath, t.Pkg)
			}
		})
	}
}

func walk(t *load.TypeRef, fn func(*load.TypeRef)) {
	if t == nil {
		return
	}
	fn(t)
	for _, a := range t.Args {
		walk(a, fn)
	}
	for _, r := range t.Refs {
		walk(r, fn)
	}
}
