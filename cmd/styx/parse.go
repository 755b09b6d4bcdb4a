package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/softdevca/styx"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Read a Styx document on stdin, write its tagged-JSON Value tree to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			src := string(data)

			v, errs := styx.BuildFromSource(src)
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, styx.RenderError(src, e).String())
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d error(s)", len(errs))
			}

			result := valueToTaggedJSON(v)
			jsonBytes, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("marshal JSON: %w", err)
			}
			fmt.Println(string(jsonBytes))
			return nil
		},
	}
	return cmd
}

// valueToTaggedJSON renders a styx.Value as the same "tagged JSON"
// shape the teacher's decoder produces for TOML nodes: every leaf
// becomes {"type": ..., "value": ...} so a round-tripping encoder can
// tell an untyped scalar's original spelling apart from structural
// shapes, and a `@tag`'d value carries its tag name alongside.
func valueToTaggedJSON(v styx.Value) any {
	name, hasTag := v.TagName()

	var untagged any
	switch {
	case v.IsUnit():
		untagged = tagged("unit", "")
	case func() bool { _, ok := v.AsString(); return ok }():
		text, _ := v.AsString()
		untagged = tagged("scalar", text)
	case func() bool { _, ok := v.AsEntries(); return ok }():
		entries, _ := v.AsEntries()
		obj := make(map[string]any, len(entries))
		for _, e := range entries {
			key, _ := e.Key.AsString()
			obj[key] = valueToTaggedJSON(e.Value)
		}
		untagged = obj
	case func() bool { _, ok := v.AsItems(); return ok }():
		items, _ := v.AsItems()
		arr := make([]any, 0, len(items))
		for _, it := range items {
			arr = append(arr, valueToTaggedJSON(it))
		}
		untagged = arr
	default:
		untagged = tagged("unit", "")
	}

	if !hasTag {
		return untagged
	}
	return map[string]any{"tag": name, "value": untagged}
}

func tagged(typ, val string) map[string]string {
	return map[string]string{"type": typ, "value": val}
}
