// Package commands implements the derive command line.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd returns the derive command tree. getenv looks up environment
// variables.
func NewRootCmd(getenv func(string) string) *cobra.Command {
	o := &options{getenv: getenv}
	rootCmd := &cobra.Command{
		Use:   "derive [dir] [patterns...]",
		Short: "Generate builders and enum tables for annotated Go types",
		Long: `derive reads the Go packages matched by patterns (default ".") in dir
(default ".") and writes one generated file per package.

A struct whose doc comment holds the line //derive:builder gets a builder
type with one setter per field and a Build method. A slice field tagged
builder:"each=name" also gets a setter that appends one element.

A named basic type marked //derive:enumdict gets a lookup table from
constant name to value and a function printing every constant.`,
		Example: `  # From a go:generate directive in the package
  //go:generate go run github.com/syssam/derive/cmd/derive

  # Every package of the module, reporting field names in snake case
  derive . ./... --field-names=snake`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: o.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, o, args)
		},
	}
	o.register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newCheckCmd(o))
	rootCmd.AddCommand(newWatchCmd(o))

	return rootCmd
}
