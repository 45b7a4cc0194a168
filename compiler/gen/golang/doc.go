// Package golang renders generation plans to Go source with
// github.com/dave/jennifer.
//
// A builder renders as:
//
//	type CommandBuilder struct { ... }
//	func NewCommandBuilder() *CommandBuilder
//	func (b *CommandBuilder) Executable(executable string) *CommandBuilder
//	func (b *CommandBuilder) Arg(arg string) *CommandBuilder
//	func (b *CommandBuilder) Build() (*Command, error)
//
// Fields whose directive is invalid get no setter. Instead the file ends
// with a constant declaration that cannot compile, placed under a //line
// directive pointing at the field's struct tag.
package golang
