package gen

import "github.com/syssam/derive/compiler/load"

// Shape is a view over a declared field type.
type Shape struct {
	// Optional reports whether the declared type is a pointer.
	Optional bool
	// Sequence reports whether the optionality-stripped type is a slice.
	Sequence bool
	// Stripped is the declared type without its pointer, if any.
	Stripped *load.TypeRef
	// Elem is the slice element when Sequence is set, Stripped otherwise.
	Elem *load.TypeRef
}

// UnwrapOptional returns T for a declared *T, or nil for any other type.
// Only one layer is removed.
func UnwrapOptional(t *load.TypeRef) *load.TypeRef {
	return unwrap(t, load.KindPointer)
}

// UnwrapSequence returns E for a declared []E, or nil for any other type.
// Only one layer is removed.
func UnwrapSequence(t *load.TypeRef) *load.TypeRef {
	return unwrap(t, load.KindSlice)
}

func unwrap(t *load.TypeRef, kind load.TypeKind) *load.TypeRef {
	if t == nil || t.Kind != kind {
		return nil
	}
	return t.Elem()
}

// ShapeOf strips optionality first, then looks for a sequence in what is
// left. A *[]E is an optional sequence of E; a []*E is a plain sequence of
// *E.
func ShapeOf(t *load.TypeRef) Shape {
	s := Shape{Stripped: t}
	if inner := UnwrapOptional(t); inner != nil {
		s.Optional, s.Stripped = true, inner
	}
	s.Elem = s.Stripped
	if elem := UnwrapSequence(s.Stripped); elem != nil {
		s.Sequence, s.Elem = true, elem
	}
	return s
}
