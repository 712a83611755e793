package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhamidi/comb/internal/format"
	"github.com/dhamidi/comb/internal/lang"
	"github.com/dhamidi/comb/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var debounce time.Duration
	var opts parseOptions

	cmd := &cobra.Command{
		Use:           "watch <path>",
		Short:         "Re-parse files whenever they change",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extensions []string
			if opts.language == "" {
				for _, name := range lang.Names() {
					l, _ := lang.Lookup(name)
					extensions = append(extensions, l.Extensions...)
				}
			}

			w, err := watch.New(args[0], debounce, extensions...)
			if err != nil {
				return fmt.Errorf("watch %s: %w", args[0], err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			enc := format.NewLineEncoder(cmd.OutOrStdout())
			return w.Watch(ctx, func(paths []string) {
				for _, path := range paths {
					report, err := parseFile(path, opts)
					if err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), err)
						continue
					}
					enc.Encode(report)
				}
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "quiet period before re-parsing")
	cmd.Flags().StringVarP(&opts.language, "lang", "l", "", "language to parse as (default: by file extension)")
	cmd.Flags().BoolVar(&opts.norecover, "no-recover", false, "stop at the first syntax error")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "print the parse tree")

	return cmd
}
