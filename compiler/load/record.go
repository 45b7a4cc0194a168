package load

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// Markers recognised in type doc comments.
const (
	// BuilderMarker requests builder generation for a struct type.
	BuilderMarker = "derive:builder"
	// EnumMarker requests a name table and dump function for a named
	// basic type and its constants.
	EnumMarker = "derive:enumdict"
)

// Record is a type annotated for builder generation, as declared in source.
type Record struct {
	// Name is the type name.
	Name string
	// Pos is the position of the type name.
	Pos token.Position
	// Fields holds the named fields in declaration order. A declaration
	// such as `A, B int` yields two fields. Blank (_) fields are left out:
	// they cannot be set and stay zero in a composite literal.
	Fields []*Field
	// Struct reports whether the declared type is a struct type.
	Struct bool
	// Underlying is the source form of the declared type when it is not
	// a struct.
	Underlying string
	// Embedded lists the type expressions of embedded fields.
	Embedded []string
	// TypeParams lists the names of the type parameters, if any.
	TypeParams []string
}

// Field is one named field of a Record.
type Field struct {
	// Name is the Go field name.
	Name string
	// Type is the declared type.
	Type *TypeRef
	// Directives holds the struct tag entries in source order.
	Directives []*Directive
	// Pos is the position of the field name.
	Pos token.Position
	// TagPos is the position of the struct tag, or the field position
	// when the field has no tag.
	TagPos token.Position
}

// Lookup returns the directives of the field in the given namespace.
func (f *Field) Lookup(namespace string) []*Directive {
	var ds []*Directive
	for _, d := range f.Directives {
		if d.Namespace == namespace {
			ds = append(ds, d)
		}
	}
	return ds
}

// Enum is a named type annotated for enum table generation.
type Enum struct {
	// Name is the type name.
	Name string
	// Pos is the position of the type name.
	Pos token.Position
	// Underlying is the source form of the underlying type.
	Underlying string
	// Basic reports whether Underlying is a predeclared basic type.
	Basic bool
	// Variants holds the constants of the type in declaration order.
	Variants []*Variant
}

// Variant is one constant of an Enum.
type Variant struct {
	Name string
	Pos  token.Position
}

// FileDecls holds the annotated declarations found in one file.
type FileDecls struct {
	Records []*Record
	Enums   []*Enum
	// Consts maps a type name to the constants declared with it in this
	// file, in declaration order.
	Consts map[string][]*Variant
}

// ExtractFile collects annotated records and enums from a parsed file.
// Constants of every named type are collected too, since an enum's
// constants may be declared in a different file of the package.
func ExtractFile(fset *token.FileSet, file *ast.File, imports ImportResolver) (*FileDecls, error) {
	if imports == nil {
		imports = FileImports(file, nil)
	}
	fd := &FileDecls{Consts: make(map[string][]*Variant)}
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		switch gd.Tok {
		case token.TYPE:
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				switch {
				case hasMarker(doc, BuilderMarker):
					r, err := extractRecord(fset, ts, imports)
					if err != nil {
						return nil, err
					}
					fd.Records = append(fd.Records, r)
				case hasMarker(doc, EnumMarker):
					fd.Enums = append(fd.Enums, extractEnum(fset, ts))
				}
			}
		case token.CONST:
			extractConsts(fset, gd, fd.Consts)
		}
	}
	return fd, nil
}

// FileImports returns a resolver over the imports of file. names maps an
// import path to the declared package name; when it has no entry the name
// is guessed from the path.
func FileImports(file *ast.File, names map[string]string) ImportResolver {
	m := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		var name string
		switch {
		case imp.Name != nil:
			name = imp.Name.Name
		case names[path] != "":
			name = names[path]
		default:
			name = guessImportName(path)
		}
		if name == "_" || name == "." {
			continue
		}
		m[name] = path
	}
	return func(name string) (string, bool) {
		p, ok := m[name]
		return p, ok
	}
}

// guessImportName returns the conventional package name of an import path:
// the last element, skipping major version suffixes and dropping ".vN" and
// "go-" decorations.
func guessImportName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && isMajorVersion(name[i+1:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	return strings.ReplaceAll(name, "-", "_")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}

func hasMarker(doc *ast.CommentGroup, marker string) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimPrefix(c.Text, "//")
		if text == c.Text {
			continue
		}
		if f := strings.Fields(text); len(f) > 0 && f[0] == marker && !strings.HasPrefix(text, " ") {
			return true
		}
	}
	return false
}

func extractRecord(fset *token.FileSet, ts *ast.TypeSpec, imports ImportResolver) (*Record, error) {
	r := &Record{
		Name: ts.Name.Name,
		Pos:  fset.Position(ts.Name.Pos()),
	}
	if ts.TypeParams != nil {
		for _, f := range ts.TypeParams.List {
			for _, n := range f.Names {
				r.TypeParams = append(r.TypeParams, n.Name)
			}
		}
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		r.Underlying = types.ExprString(ts.Type)
		return r, nil
	}
	r.Struct = true
	if st.Fields == nil {
		return r, nil
	}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			r.Embedded = append(r.Embedded, types.ExprString(f.Type))
			continue
		}
		typ := TypeOf(f.Type, imports)
		var (
			ds     []*Directive
			tagPos token.Position
		)
		if f.Tag != nil {
			tagPos = fset.Position(f.Tag.Pos())
			raw, err := strconv.Unquote(f.Tag.Value)
			if err != nil {
				return nil, fmt.Errorf("field %s.%s: %w", r.Name, f.Names[0].Name, err)
			}
			// A syntax error leaves the directives scanned so far; an entry
			// that failed to parse carries its own Err.
			ds, _ = ParseTag(raw)
			for _, d := range ds {
				d.Pos = tagPos
			}
		}
		for _, n := range f.Names {
			if n.Name == "_" {
				continue
			}
			pos := fset.Position(n.Pos())
			fp := tagPos
			if f.Tag == nil {
				fp = pos
			}
			r.Fields = append(r.Fields, &Field{
				Name:       n.Name,
				Type:       typ,
				Directives: ds,
				Pos:        pos,
				TagPos:     fp,
			})
		}
	}
	return r, nil
}

func extractEnum(fset *token.FileSet, ts *ast.TypeSpec) *Enum {
	e := &Enum{
		Name:       ts.Name.Name,
		Pos:        fset.Position(ts.Name.Pos()),
		Underlying: types.ExprString(ts.Type),
	}
	if id, ok := ts.Type.(*ast.Ident); ok && ts.TypeParams == nil && !ts.Assign.IsValid() {
		obj := types.Universe.Lookup(id.Name)
		if tn, ok := obj.(*types.TypeName); ok {
			_, e.Basic = tn.Type().(*types.Basic)
		}
	}
	return e
}

// extractConsts records the constants of each named type in a const block.
// A spec without type and values repeats the previous spec's type.
func extractConsts(fset *token.FileSet, gd *ast.GenDecl, consts map[string][]*Variant) {
	var typ string
	for _, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)
		switch {
		case vs.Type != nil:
			typ = ""
			if id, ok := vs.Type.(*ast.Ident); ok {
				typ = id.Name
			}
		case len(vs.Values) > 0:
			typ = ""
			if call, ok := vs.Values[0].(*ast.CallExpr); ok && len(call.Args) == 1 {
				if id, ok := call.Fun.(*ast.Ident); ok {
					typ = id.Name
				}
			}
		}
		if typ == "" {
			continue
		}
		for _, n := range vs.Names {
			if n.Name == "_" {
				continue
			}
			consts[typ] = append(consts[typ], &Variant{Name: n.Name, Pos: fset.Position(n.Pos())})
		}
	}
}
