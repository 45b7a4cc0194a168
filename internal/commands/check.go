package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/derive/compiler"
)

func newCheckCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dir] [patterns...]",
		Short: "Report generated files that are out of date",
		Long: `Render every package like the root command but write nothing. Each
generated file that would change is printed with a line diff, and the
command fails when there is at least one.`,
		Example: `  # In CI
  derive check . ./...`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, o, args)
		},
	}
	return cmd
}

func runCheck(cmd *cobra.Command, o *options, args []string) error {
	r, err := o.resolve(cmd, args)
	if err != nil {
		return err
	}
	p := o.printer(cmd, r.dir)
	drifts, report, err := compiler.Check(cmd.Context(), r.cfg, r.dir, r.patterns...)
	if report != nil {
		p.Directives(report.Diagnostics)
	}
	if err != nil {
		p.Error(err)
		return errReported
	}
	out := o.printerTo(cmd.OutOrStdout(), r.dir)
	for _, d := range drifts {
		out.Drift(d)
	}
	if len(drifts) > 0 {
		return fmt.Errorf("%d generated file(s) out of date", len(drifts))
	}
	return nil
}
