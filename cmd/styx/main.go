// Command styx formats, parses, and watches Styx configuration files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger *zap.Logger

func main() {
	root := &cobra.Command{
		Use:   "styx",
		Short: "Format, parse, and watch Styx configuration files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg = zap.NewDevelopmentConfig()
			}
			l, err := cfg.Build()
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	root.PersistentFlags().Bool("verbose", false, "enable development-mode logging")

	root.AddCommand(newFormatCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newEmbedCmd())
	root.AddCommand(newExtractCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
