package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/syssam/derive/compiler"
	"github.com/syssam/derive/internal/ctxlog"
)

// errReported is returned once the details of a failure were printed.
var errReported = errors.New("generation failed")

func runGenerate(cmd *cobra.Command, o *options, args []string) error {
	r, err := o.resolve(cmd, args)
	if err != nil {
		return err
	}
	return generate(cmd, o, r)
}

func generate(cmd *cobra.Command, o *options, r *run) error {
	ctx := cmd.Context()
	p := o.printer(cmd, r.dir)
	report, err := compiler.Generate(ctx, r.cfg, r.dir, r.patterns...)
	if report != nil {
		p.Directives(report.Diagnostics)
		ctxlog.FromContext(ctx).Debug("generation done",
			"packages", len(report.Results),
			"written", len(report.Written()),
			"diagnostics", len(report.Diagnostics))
	}
	if err != nil {
		p.Error(err)
		return errReported
	}
	return nil
}
