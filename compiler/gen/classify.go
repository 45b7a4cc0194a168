package gen

import (
	"errors"
	"go/token"

	"github.com/syssam/derive/compiler/load"
)

// SetterKind is the effect of a generated setter.
type SetterKind uint8

const (
	// SetValue stores a value in a holder slot, marking it present.
	SetValue SetterKind = iota + 1
	// SetSequence replaces the accumulated elements with a whole slice.
	SetSequence
	// AppendElem appends one element to an accumulator slot.
	AppendElem
	// SetInvalid stands in for the setter of a field whose directive is
	// invalid. It renders as a declaration that fails to compile.
	SetInvalid
)

var setterKindNames = [...]string{
	SetValue:    "set",
	SetSequence: "set-sequence",
	AppendElem:  "append",
	SetInvalid:  "invalid",
}

// String implements fmt.Stringer.
func (k SetterKind) String() string {
	if int(k) < len(setterKindNames) && setterKindNames[k] != "" {
		return setterKindNames[k]
	}
	return "unknown"
}

// Setter describes one generated builder method.
type Setter struct {
	Kind SetterKind
	// Method is the exported method name.
	Method string
	// Param is the parameter name.
	Param string
	// Type is the parameter type: the optionality-stripped field type for
	// SetValue and SetSequence, the element type for AppendElem.
	Type *load.TypeRef
	// Slot is the builder slot the setter writes. Set by Synthesize.
	Slot string
	// Err is set for SetInvalid.
	Err *DirectiveError
}

// Classification is the per-field decision record.
type Classification struct {
	// Name is the Go field name.
	Name string
	// Pos is the position of the field name.
	Pos token.Position
	// Declared is the field type as written.
	Declared *load.TypeRef
	// Optional reports a pointer field. Optional fields are never missing.
	Optional bool
	// Type is the declared type without its pointer.
	Type *load.TypeRef
	// Accumulator is set when the field carries a valid each directive.
	Accumulator *Accumulator
	// Setters holds one or two setters, or a single SetInvalid one.
	Setters []*Setter
	// Err is the directive error of the field, if any.
	Err *DirectiveError
}

// Required reports whether Build must check the field.
func (c *Classification) Required() bool {
	return !c.Optional && c.Accumulator == nil
}

// Classifier classifies the fields of one record.
type Classifier struct {
	record string
	tagKey string
}

// NewClassifier returns a classifier for the named record.
func NewClassifier(record string, cfg *Config) *Classifier {
	return &Classifier{record: record, tagKey: cfg.TagKey}
}

// Classify returns the classification of f. Directive problems are
// reported through Classification.Err, never as a failure of the call.
func (c *Classifier) Classify(f *load.Field) *Classification {
	shape := ShapeOf(f.Type)
	cl := &Classification{
		Name:     f.Name,
		Pos:      f.Pos,
		Declared: f.Type,
		Optional: shape.Optional,
		Type:     shape.Stripped,
	}
	acc, err := ParseDirective(f, shape.Stripped, c.tagKey)
	if err != nil {
		var de *DirectiveError
		if !errors.As(err, &de) {
			de = NewDirectiveError(MalformedDirective, c.record, f.Name, f.TagPos, "invalid directive", err)
		}
		de.Type = c.record
		return invalidate(cl, de)
	}
	method := exportName(f.Name)
	if acc == nil {
		cl.Setters = []*Setter{{
			Kind:   SetValue,
			Method: method,
			Param:  localName(f.Name),
			Type:   shape.Stripped,
		}}
		return cl
	}
	cl.Accumulator = acc
	appender := &Setter{
		Kind:   AppendElem,
		Method: exportName(acc.Name),
		Param:  localName(acc.Name),
		Type:   acc.Elem,
	}
	if appender.Method == method {
		cl.Setters = []*Setter{appender}
		return cl
	}
	cl.Setters = []*Setter{
		{
			Kind:   SetSequence,
			Method: method,
			Param:  localName(f.Name),
			Type:   shape.Stripped,
		},
		appender,
	}
	return cl
}

// ClassifyAll classifies fields in declaration order.
func (c *Classifier) ClassifyAll(fields []*load.Field) []*Classification {
	cs := make([]*Classification, len(fields))
	for i, f := range fields {
		cs[i] = c.Classify(f)
	}
	return cs
}

// invalidate replaces the setters of cl with an error declaration. The
// field keeps a plain holder slot.
func invalidate(cl *Classification, de *DirectiveError) *Classification {
	cl.Err = de
	cl.Accumulator = nil
	cl.Setters = []*Setter{{Kind: SetInvalid, Method: exportName(cl.Name), Err: de}}
	return cl
}
