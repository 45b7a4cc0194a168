// Package derive holds the runtime types referenced by code that the derive
// generator emits.
//
// The generator itself lives in compiler/gen and is driven by cmd/derive.
// Annotate a struct with a doc-comment marker and run go generate:
//
//	//go:generate go run github.com/syssam/derive/cmd/derive
//
//	//derive:builder
//	type Command struct {
//		Executable string
//		Args       []string `builder:"each=arg"`
//		CurrentDir *string
//	}
//
// The generated CommandBuilder exposes one setter per field (two for a
// sequence field whose accumulator name differs from the field name) and a
// Build method that returns an *IncompleteBuilderError listing every
// required field that was never set.
package derive
