package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/softdevca/styx"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-parse a Styx document every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			w, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			defer w.Close()

			if err := w.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}

			check(path)
			for {
				select {
				case ev, ok := <-w.Events:
					if !ok {
						return nil
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						check(path)
					}
				case err, ok := <-w.Errors:
					if !ok {
						return nil
					}
					logger.Error("watch error", zap.Error(err))
				}
			}
		},
	}
	return cmd
}

func check(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read failed", zap.String("file", path), zap.Error(err))
		return
	}
	src := string(data)
	errs := styx.CollectErrors(styx.New(src).ParseToVec())
	if len(errs) == 0 {
		logger.Info("parsed ok", zap.String("file", path))
		return
	}
	for _, e := range errs {
		logger.Warn("parse error", zap.String("file", path), zap.String("kind", e.ErrKind.String()))
		fmt.Println(styx.RenderError(src, e).String())
	}
}
