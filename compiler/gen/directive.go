package gen

import (
	"fmt"
	"go/token"

	"github.com/syssam/derive/compiler/load"
)

// AccumulatorKey is the only option key recognised in a builder directive.
const AccumulatorKey = "each"

// Accumulator is a parsed each=<name> directive.
type Accumulator struct {
	// Name is the accumulator name as written in the tag.
	Name string
	// Elem is the element type appended by the accumulator setter.
	Elem *load.TypeRef
	// Pos is the position of the struct tag.
	Pos token.Position
}

// ParseDirective looks up the field's directive in namespace and validates
// it against stripped, the field type without its pointer. It returns nil
// and no error when the field has no directive. Errors are *DirectiveError
// values without the record name set.
func ParseDirective(f *load.Field, stripped *load.TypeRef, namespace string) (*Accumulator, error) {
	ds := f.Lookup(namespace)
	if len(ds) == 0 {
		return nil, nil
	}
	fail := func(kind DirectiveKind, pos token.Position, cause error, format string, args ...any) error {
		msg := fmt.Sprintf(format, args...)
		msg += fmt.Sprintf("; expected %s:\"%s=...\"", namespace, AccumulatorKey)
		return NewDirectiveError(kind, "", f.Name, pos, msg, cause)
	}
	if len(ds) > 1 {
		return nil, fail(MalformedDirective, ds[1].Pos, nil, "more than one %s directive", namespace)
	}
	d := ds[0]
	if d.Err != nil {
		return nil, fail(MalformedDirective, d.Pos, d.Err, "cannot parse %q", d.Raw)
	}
	switch len(d.Options) {
	case 0:
		return nil, fail(MalformedDirective, d.Pos, nil, "no option")
	case 1:
	default:
		return nil, fail(MalformedDirective, d.Pos, nil, "more than one option")
	}
	opt := d.Options[0]
	if !opt.HasValue {
		return nil, fail(MalformedDirective, d.Pos, nil, "option %q has no value", opt.Key)
	}
	if opt.Key != AccumulatorKey {
		return nil, fail(UnrecognizedOption, d.Pos, nil, "unrecognized option %q", opt.Key)
	}
	if opt.Value == "" || opt.Value == "_" || !token.IsIdentifier(opt.Value) {
		return nil, fail(MalformedDirective, d.Pos, nil, "accumulator name %q is not a usable identifier", opt.Value)
	}
	elem := UnwrapSequence(stripped)
	if elem == nil {
		return nil, fail(DirectiveRequiresSequence, d.Pos, nil, "%s needs a slice field, found %s", AccumulatorKey, stripped)
	}
	return &Accumulator{Name: opt.Value, Elem: elem, Pos: d.Pos}, nil
}
