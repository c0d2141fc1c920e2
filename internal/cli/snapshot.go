package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var (
		df     dropFlags
		sf     sessionFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "snapshot <page>",
		Short: "Render a page to PNG",
		Long: `Load an HTML page, run its scripts, optionally add a drop (--anchor with
--content or --content-file) and render the viewport to a PNG file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			prog := newProgress(logger)

			s, err := sf.open(ctx, args[0])
			if err != nil {
				return err
			}
			if df.anchor != "" {
				opts, err := df.options(configFromContext(ctx))
				if err != nil {
					return err
				}
				content, err := df.loadContent()
				if err != nil {
					return err
				}
				if _, err := s.Place(df.anchor, content, opts); err != nil {
					return err
				}
				s.Settle()
			}

			if err := s.Snapshot().SavePNG(output); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			prog.done("rendered " + args[0])
			printSuccess(cmd.OutOrStdout(), "rendered %d drop(s)", s.Drops.Len())
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}
	df.register(cmd)
	sf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "drop.png", "output PNG path")
	return cmd
}
