package gen

import (
	"go/token"

	"github.com/syssam/derive/compiler/load"
)

var (
	stringType = load.Named("string")
	intType    = load.Named("int")
)

// newField returns a field declared on line, with tag as its raw struct tag.
func newField(name string, typ *load.TypeRef, tag string, line int) *load.Field {
	f := &load.Field{
		Name: name,
		Type: typ,
		Pos:  token.Position{Filename: "/src/command/command.go", Line: line, Column: 2},
	}
	f.TagPos = f.Pos
	if tag != "" {
		f.TagPos = token.Position{Filename: f.Pos.Filename, Line: line, Column: 20}
		ds, _ := load.ParseTag(tag)
		for _, d := range ds {
			d.Pos = f.TagPos
		}
		f.Directives = ds
	}
	return f
}

// newRecord returns a struct record with the given fields.
func newRecord(name string, fields ...*load.Field) *load.Record {
	return &load.Record{
		Name:   name,
		Pos:    token.Position{Filename: "/src/command/command.go", Line: 3, Column: 6},
		Fields: fields,
		Struct: true,
	}
}

// commandRecord is the four-field record used across tests.
func commandRecord() *load.Record {
	return newRecord("Command",
		newField("Executable", stringType, "", 4),
		newField("Args", load.SliceOf(stringType), "", 5),
		newField("Env", load.SliceOf(stringType), "", 6),
		newField("CurrentDir", stringType, "", 7),
	)
}

func synthesize(cfg *Config, r *load.Record) (*Builder, error) {
	return Synthesize(r, NewClassifier(r.Name, cfg).ClassifyAll(r.Fields), cfg)
}

// method returns the valid setter of b with the given method name.
func method(b *Builder, name string) (*Setter, bool) {
	for _, s := range b.Setters {
		if s.Kind != SetInvalid && s.Method == name {
			return s, true
		}
	}
	return nil, false
}

// merged reports whether the accumulator shares the field's method name,
// leaving only the append setter.
func merged(c *Classification) bool {
	return c.Accumulator != nil && len(c.Setters) == 1 && c.Setters[0].Kind == AppendElem
}
