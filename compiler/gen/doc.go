// Package gen decides what code a derive run must emit.
//
// For each struct type marked with //derive:builder the package classifies
// every field and synthesizes an abstract builder declaration. For each
// named basic type marked with //derive:enumdict it builds an enum table.
// Rendering to Go source is delegated to a Renderer, see package
// compiler/gen/golang.
//
// # Pipeline
//
//	load.Package
//	     ↓
//	Classifier (ShapeOf + ParseDirective, once per field)
//	     ↓
//	Synthesize (once per record)
//	     ↓
//	Renderer (host-specific pretty printer)
//	     ↓
//	<package>/derive_gen.go
//
// # Field classification
//
// A pointer field (*T) is optional and never reported missing. A slice
// field carrying builder:"each=name" is an accumulator: the builder holds a
// []E initialised empty and gains an append setter named after the
// accumulator. Every other field is required.
//
// A malformed directive does not stop the run. The offending field's setter
// is replaced by a declaration that fails to compile at the tag, so the Go
// compiler reports it where the user wrote it.
//
// # Configuration
//
// Config is built from functional options:
//
//	cfg, err := gen.NewConfig(
//		gen.WithTagKey("builder"),
//		gen.WithFieldNames(gen.FieldNamesSnake),
//	)
package gen
