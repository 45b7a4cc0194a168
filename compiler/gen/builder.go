package gen

import (
	"fmt"
	"go/token"

	"github.com/syssam/derive/compiler/load"
)

// FinalizeMethod is the name of the generated finalize method.
const FinalizeMethod = "Build"

// SlotKind is the storage form of a builder slot.
type SlotKind uint8

const (
	// SlotHolder stores *T and starts nil (unset).
	SlotHolder SlotKind = iota + 1
	// SlotSequence stores []E and starts as an empty slice.
	SlotSequence
)

// Slot is one storage field of the builder.
type Slot struct {
	Kind SlotKind
	// Name is the unexported builder field name.
	Name string
	// Field is the record field the slot feeds.
	Field string
	// Type is T for a holder (stored as *T) and E for a sequence (stored
	// as []E).
	Type *load.TypeRef
}

// CopyMode is how Build moves a slot into the record.
type CopyMode uint8

const (
	// CopyValue dereferences a holder of a required field.
	CopyValue CopyMode = iota + 1
	// CopyPointer passes the holder of an optional field through.
	CopyPointer
	// CopySequence clones an accumulator slot into a slice field.
	CopySequence
	// CopySequencePointer clones an accumulator slot and stores its
	// address into an optional slice field.
	CopySequencePointer
)

// Check is one missing-field test of Build.
type Check struct {
	// Slot is the holder slot tested for nil.
	Slot string
	// Reported is the name added to the missing list.
	Reported string
}

// Assign moves one slot into one record field.
type Assign struct {
	Field string
	Slot  string
	Mode  CopyMode
}

// Finalize is the abstract form of the Build method.
type Finalize struct {
	Method string
	// Checks are in declaration order. All of them run before failing.
	Checks []*Check
	// Assigns are in declaration order.
	Assigns []*Assign
}

// Builder is the abstract declaration tree for one record.
type Builder struct {
	// Record is the record type name.
	Record string
	// Pos is the position of the record type name.
	Pos token.Position
	// Name is the builder type name.
	Name string
	// Factory is the name of the zero-argument constructor.
	Factory string
	Slots   []*Slot
	// Setters in declaration order of their fields.
	Setters  []*Setter
	Finalize *Finalize
	// Errors holds the directive errors of the record's fields.
	Errors []*DirectiveError
}

// Required returns the reported names of the fields checked by Build.
func (b *Builder) Required() []string {
	names := make([]string, len(b.Finalize.Checks))
	for i, c := range b.Finalize.Checks {
		names[i] = c.Reported
	}
	return names
}

// CheckRecord reports whether r can have a builder. The returned error is a
// *StructuralError.
func CheckRecord(r *load.Record) error {
	fail := func(format string, args ...any) error {
		return NewStructuralError(r.Name, r.Pos, fmt.Sprintf(format, args...))
	}
	switch {
	case !r.Struct:
		return fail("declared as %s, not a struct with named fields", r.Underlying)
	case len(r.TypeParams) > 0:
		return fail("generic struct types are not supported")
	case len(r.Embedded) > 0:
		return fail("embedded field %s has no name", r.Embedded[0])
	case len(r.Fields) == 0:
		return fail("struct has no named fields")
	}
	methods := map[string]string{FinalizeMethod: FinalizeMethod}
	for _, f := range r.Fields {
		m := exportName(f.Name)
		if prev, ok := methods[m]; ok {
			if prev == FinalizeMethod {
				return fail("field %s collides with the %s method", f.Name, FinalizeMethod)
			}
			return fail("fields %s and %s both need setter %s", prev, f.Name, m)
		}
		methods[m] = f.Name
	}
	return nil
}

// Synthesize builds the declaration tree of a record's builder from its
// field classifications, which must be in declaration order.
func Synthesize(r *load.Record, cs []*Classification, cfg *Config) (*Builder, error) {
	if err := CheckRecord(r); err != nil {
		return nil, err
	}
	b := &Builder{
		Record:   r.Name,
		Pos:      r.Pos,
		Name:     r.Name + "Builder",
		Factory:  "New" + r.Name + "Builder",
		Finalize: &Finalize{Method: FinalizeMethod},
	}
	// Field setters own their names. Accumulators take what is left.
	methods := map[string]string{FinalizeMethod: FinalizeMethod}
	for _, c := range cs {
		methods[exportName(c.Name)] = c.Name
	}
	for _, c := range cs {
		if c.Accumulator != nil {
			if owner, ok := methods[exportName(c.Accumulator.Name)]; ok && owner != c.Name {
				msg := fmt.Sprintf("accumulator %s collides with the %s method", c.Accumulator.Name, exportName(c.Accumulator.Name))
				invalidate(c, NewDirectiveError(MalformedDirective, r.Name, c.Name, c.Accumulator.Pos, msg, nil))
			} else {
				methods[exportName(c.Accumulator.Name)] = c.Name
			}
		}
	}
	slots := make(map[string]bool, len(cs))
	for _, c := range cs {
		slot := &Slot{Kind: SlotHolder, Name: uniqueName(localName(c.Name), slots), Field: c.Name, Type: c.Type}
		if c.Accumulator != nil {
			slot.Kind, slot.Type = SlotSequence, c.Accumulator.Elem
		}
		b.Slots = append(b.Slots, slot)
		for _, s := range c.Setters {
			s.Slot = slot.Name
			b.Setters = append(b.Setters, s)
		}
		if c.Err != nil {
			b.Errors = append(b.Errors, c.Err)
		}
		b.Finalize.Assigns = append(b.Finalize.Assigns, &Assign{Field: c.Name, Slot: slot.Name, Mode: copyMode(c)})
		if c.Required() {
			b.Finalize.Checks = append(b.Finalize.Checks, &Check{Slot: slot.Name, Reported: reportedName(c.Name, cfg.FieldNames)})
		}
	}
	return b, nil
}

func copyMode(c *Classification) CopyMode {
	switch {
	case c.Accumulator != nil && c.Optional:
		return CopySequencePointer
	case c.Accumulator != nil:
		return CopySequence
	case c.Optional:
		return CopyPointer
	default:
		return CopyValue
	}
}

func uniqueName(name string, taken map[string]bool) string {
	for taken[name] {
		name = "_" + name
	}
	taken[name] = true
	return name
}
