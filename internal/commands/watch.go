package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/derive/internal/ctxlog"
	"github.com/syssam/derive/internal/watch"
)

func newWatchCmd(o *options) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [dir] [patterns...]",
		Short: "Regenerate whenever a Go file changes",
		Long: `Generate once, then watch the directory tree under dir and generate
again after each burst of changes to .go files. Stops on interrupt.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := o.resolve(cmd, args)
			if err != nil {
				return err
			}
			logger := ctxlog.FromContext(cmd.Context())
			if err := generate(cmd, o, r); err != nil {
				logger.Error("initial generation failed", "error", err)
			}
			w := &watch.Watcher{
				Root:     r.dir,
				Ignore:   []string{r.cfg.OutputFile},
				Debounce: debounce,
			}
			logger.Info("watching", "dir", r.dir)
			return w.Run(cmd.Context(), func(context.Context) error {
				return generate(cmd, o, r)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")
	return cmd
}
