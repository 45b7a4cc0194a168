package load

import (
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"
	"strings"
)

// TypeKind is the coarse-grained shape of a TypeRef.
type TypeKind uint8

const (
	// KindNamed is a named type, optionally package-qualified and
	// instantiated with type arguments: T, pkg.T, T[A, B].
	KindNamed TypeKind = iota
	// KindPointer is *T. Args holds the element.
	KindPointer
	// KindSlice is []T. Args holds the element.
	KindSlice
	// KindArray is [N]T. Name holds the length expression, Args the element.
	KindArray
	// KindMap is map[K]V. Args holds the key and the value.
	KindMap
	// KindChan is a channel type. Name holds the direction prefix
	// ("chan", "<-chan" or "chan<-"), Args the element.
	KindChan
	// KindOther is any other type expression (func, interface, struct
	// literal, ellipsis). It is carried verbatim in Expr and the qualified
	// types it names are listed in Refs.
	KindOther
)

var kindNames = [...]string{
	KindNamed:   "named",
	KindPointer: "pointer",
	KindSlice:   "slice",
	KindArray:   "array",
	KindMap:     "map",
	KindChan:    "chan",
	KindOther:   "other",
}

// String implements fmt.Stringer.
func (k TypeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// TypeRef is a composable reference to a declared type. Wrappers such as
// pointers and slices nest their element in Args.
type TypeRef struct {
	Kind TypeKind
	// Name is the type name for KindNamed, the length for KindArray and the
	// direction for KindChan.
	Name string
	// PkgPath is the import path of a qualified KindNamed type.
	PkgPath string
	// Pkg is the package name used in source for a qualified type.
	Pkg string
	// Args holds wrapped elements or type arguments.
	Args []*TypeRef
	// Refs holds the package-qualified types named inside a KindOther
	// expression, once each, in source order.
	Refs []*TypeRef
	// Expr is the source form of the type expression.
	Expr string
}

// Named returns a reference to an unqualified named type.
func Named(name string, args ...*TypeRef) *TypeRef {
	t := &TypeRef{Kind: KindNamed, Name: name, Args: args}
	t.Expr = t.format()
	return t
}

// Qualified returns a reference to a named type declared in another package.
func Qualified(pkgPath, pkg, name string) *TypeRef {
	t := &TypeRef{Kind: KindNamed, Name: name, PkgPath: pkgPath, Pkg: pkg}
	t.Expr = t.format()
	return t
}

// PointerTo returns *elem.
func PointerTo(elem *TypeRef) *TypeRef {
	t := &TypeRef{Kind: KindPointer, Args: []*TypeRef{elem}}
	t.Expr = t.format()
	return t
}

// SliceOf returns []elem.
func SliceOf(elem *TypeRef) *TypeRef {
	t := &TypeRef{Kind: KindSlice, Args: []*TypeRef{elem}}
	t.Expr = t.format()
	return t
}

// MapOf returns map[key]value.
func MapOf(key, value *TypeRef) *TypeRef {
	t := &TypeRef{Kind: KindMap, Args: []*TypeRef{key, value}}
	t.Expr = t.format()
	return t
}

// Elem returns the single wrapped element, or nil if t does not wrap
// exactly one type.
func (t *TypeRef) Elem() *TypeRef {
	if t == nil || len(t.Args) != 1 {
		return nil
	}
	return t.Args[0]
}

// String returns the source form of the type.
func (t *TypeRef) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Expr != "" {
		return t.Expr
	}
	return t.format()
}

func (t *TypeRef) format() string {
	var b strings.Builder
	switch t.Kind {
	case KindNamed:
		if t.Pkg != "" {
			b.WriteString(t.Pkg)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('[')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(a.String())
			}
			b.WriteByte(']')
		}
	case KindPointer:
		b.WriteString("*" + t.Elem().String())
	case KindSlice:
		b.WriteString("[]" + t.Elem().String())
	case KindArray:
		b.WriteString("[" + t.Name + "]" + t.Elem().String())
	case KindMap:
		if len(t.Args) == 2 {
			b.WriteString("map[" + t.Args[0].String() + "]" + t.Args[1].String())
		}
	case KindChan:
		b.WriteString(t.Name + " " + t.Elem().String())
	default:
		b.WriteString(t.Expr)
	}
	return b.String()
}

// ImportResolver maps a package name used in a selector expression to its
// import path. It reports false for unknown names.
type ImportResolver func(name string) (string, bool)

// TypeOf converts a type expression into a TypeRef. Qualified identifiers
// are resolved through imports; unresolved qualifiers keep an empty PkgPath.
func TypeOf(expr ast.Expr, imports ImportResolver) *TypeRef {
	t := typeOf(expr, imports)
	t.Expr = exprString(expr)
	return t
}

// exprString returns the source form of expr. types.ExprString drops struct
// tags, which are part of a struct type's identity, so expressions with a
// tagged field go through the printer.
func exprString(expr ast.Expr) string {
	tagged := false
	ast.Inspect(expr, func(n ast.Node) bool {
		if f, ok := n.(*ast.Field); ok && f.Tag != nil {
			tagged = true
		}
		return !tagged
	})
	if !tagged {
		return types.ExprString(expr)
	}
	var b strings.Builder
	if err := printer.Fprint(&b, token.NewFileSet(), expr); err != nil {
		return types.ExprString(expr)
	}
	return b.String()
}

func typeOf(expr ast.Expr, imports ImportResolver) *TypeRef {
	switch x := expr.(type) {
	case *ast.ParenExpr:
		return TypeOf(x.X, imports)
	case *ast.Ident:
		return &TypeRef{Kind: KindNamed, Name: x.Name}
	case *ast.SelectorExpr:
		pkg, ok := x.X.(*ast.Ident)
		if !ok {
			return other(x, imports)
		}
		t := &TypeRef{Kind: KindNamed, Name: x.Sel.Name, Pkg: pkg.Name}
		if imports != nil {
			t.PkgPath, _ = imports(pkg.Name)
		}
		return t
	case *ast.IndexExpr:
		t := typeOf(x.X, imports)
		if t.Kind != KindNamed {
			return other(x, imports)
		}
		t.Args = []*TypeRef{TypeOf(x.Index, imports)}
		return t
	case *ast.IndexListExpr:
		t := typeOf(x.X, imports)
		if t.Kind != KindNamed {
			return other(x, imports)
		}
		for _, idx := range x.Indices {
			t.Args = append(t.Args, TypeOf(idx, imports))
		}
		return t
	case *ast.StarExpr:
		return &TypeRef{Kind: KindPointer, Args: []*TypeRef{TypeOf(x.X, imports)}}
	case *ast.ArrayType:
		elem := TypeOf(x.Elt, imports)
		if x.Len == nil {
			return &TypeRef{Kind: KindSlice, Args: []*TypeRef{elem}}
		}
		if _, ok := x.Len.(*ast.Ellipsis); ok {
			return other(x, imports)
		}
		return &TypeRef{Kind: KindArray, Name: types.ExprString(x.Len), Args: []*TypeRef{elem}}
	case *ast.MapType:
		return &TypeRef{Kind: KindMap, Args: []*TypeRef{TypeOf(x.Key, imports), TypeOf(x.Value, imports)}}
	case *ast.ChanType:
		dir := "chan"
		switch x.Dir {
		case ast.RECV:
			dir = "<-chan"
		case ast.SEND:
			dir = "chan<-"
		}
		return &TypeRef{Kind: KindChan, Name: dir, Args: []*TypeRef{TypeOf(x.Value, imports)}}
	default:
		return other(expr, imports)
	}
}

// other returns a KindOther reference to expr. Every pkg.Name selector
// inside expr is resolved into Refs so the qualifier can be imported.
func other(expr ast.Expr, imports ImportResolver) *TypeRef {
	t := &TypeRef{Kind: KindOther}
	seen := make(map[string]bool)
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if _, ok := sel.X.(*ast.Ident); !ok {
			return true
		}
		ref := TypeOf(sel, imports)
		if !seen[ref.Expr] {
			seen[ref.Expr] = true
			t.Refs = append(t.Refs, ref)
		}
		return false
	})
	return t
}
