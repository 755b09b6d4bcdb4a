package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/softdevca/styx"
)

func newFormatCmd() *cobra.Command {
	var maxWidth int
	var indent int
	var force string

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Read a Styx document on stdin, write its canonical layout to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			v, errs := styx.BuildFromSource(string(data))
			for _, e := range errs {
				logger.Warn("parse error", zap.String("kind", e.ErrKind.String()))
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d error(s); refusing to format", len(errs))
			}

			opts := styx.DefaultFormatOptions()
			opts.MaxWidth = maxWidth
			opts.Indent = indent
			switch force {
			case "inline":
				opts.ForceStyle = styx.StyleInline
			case "multiline":
				opts.ForceStyle = styx.StyleMultiline
			}

			fmt.Print(styx.FormatValue(v, opts))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxWidth, "max-width", 80, "column budget before a struct/sequence breaks multiline")
	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per indent level")
	cmd.Flags().StringVar(&force, "force-style", "auto", "auto, inline, or multiline")
	return cmd
}
