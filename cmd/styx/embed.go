package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/softdevca/styx/schema"
)

func newEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Compress a Styx document on stdin into a schema blob on stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			blob, err := schema.Encode(data)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(blob)
			return err
		},
	}
	return cmd
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Scan stdin for concatenated schema blobs and print each payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			blobs, err := schema.ExtractAll(data)
			if err != nil {
				return err
			}
			logger.Info("extracted schema blobs", zap.Int("count", len(blobs)))
			for i, b := range blobs {
				if i > 0 {
					fmt.Println("---")
				}
				os.Stdout.Write(b.Payload)
				fmt.Println()
			}
			return nil
		},
	}
	return cmd
}
