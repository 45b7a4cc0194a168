package gen

import (
	"go/token"

	"github.com/syssam/derive/compiler/load"
)

// EnumDict is the abstract form of an enum table: a lookup function
// returning a fresh name→value map and a dump function writing one
// "NAME : value" line per constant.
type EnumDict struct {
	// Type is the enum type name.
	Type string
	Pos  token.Position
	// Underlying is the basic type constants are converted to when dumped.
	Underlying string
	// Verb formats a value of the underlying type.
	Verb string
	// Lookup is the name of the function returning the name table.
	Lookup string
	// Dump is the name of the function writing the table.
	Dump string
	// Variants are the constant names in declaration order.
	Variants []string
}

// verbs maps the predeclared basic types to their natural format verb.
var verbs = map[string]string{
	"bool":       "%t",
	"string":     "%q",
	"float32":    "%g",
	"float64":    "%g",
	"complex64":  "%g",
	"complex128": "%g",
}

// NewEnumDict returns the table for e. A type whose underlying type is not
// a predeclared basic type is a *StructuralError.
func NewEnumDict(e *load.Enum) (*EnumDict, error) {
	if !e.Basic {
		return nil, NewStructuralError(e.Name, e.Pos, "enum underlying type "+e.Underlying+" is not a predeclared basic type")
	}
	verb, ok := verbs[e.Underlying]
	if !ok {
		verb = "%d"
	}
	d := &EnumDict{
		Type:       e.Name,
		Pos:        e.Pos,
		Underlying: e.Underlying,
		Verb:       verb,
		Lookup:     e.Name + "Values",
		Dump:       "Dump" + exportName(e.Name),
		Variants:   make([]string, 0, len(e.Variants)),
	}
	if !token.IsExported(e.Name) {
		d.Dump = "dump" + exportName(e.Name)
	}
	for _, v := range e.Variants {
		d.Variants = append(d.Variants, v.Name)
	}
	return d, nil
}
