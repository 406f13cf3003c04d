package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hlrev/internal/graph"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a graph document (json, msgpack, cbor by extension)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			outFormat, err := graph.FormatFromPath(out)
			if err != nil {
				return err
			}
			lg, err := a.loadGraph(in)
			if err != nil {
				return err
			}
			// Write the rebuilt graph, not the input, so the output is
			// validated and normalized.
			err = a.timer.Measure("write", func() error {
				return graph.SaveFile(out, graph.FromGraph(lg.graph))
			})
			if err != nil {
				return err
			}
			if !quiet(cmd) {
				inFormat, _ := graph.FormatFromPath(in)
				fmt.Fprintf(cmd.ErrOrStderr(), "converted %s (%s) -> %s (%s), %d types\n",
					in, inFormat, out, outFormat, lg.graph.Len())
			}
			return nil
		},
	}
}
