package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hlrev/internal/batch"
	"hlrev/internal/project"
	"hlrev/internal/types"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <graph>",
		Short: "Write a pattern file for many types at once",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args[0])
		},
	}
	cmd.Flags().Bool("all-classes", false, "compile every obj and struct type")
	cmd.Flags().IntSlice("type", nil, "bytecode indices of the root types")
	cmd.Flags().String("out", "", "output directory (default from config, else ./patterns)")
	cmd.Flags().Int("jobs", 0, "parallel compilations (default GOMAXPROCS)")
	cmd.Flags().Int("max-depth", 0, "recursion depth cap (default 100)")
	cmd.Flags().String("ui", "auto", "progress display (auto|on|off); overrides [batch].ui")
	cmd.Flags().Bool("no-cache", false, "bypass the pattern cache")
	cmd.MarkFlagsMutuallyExclusive("all-classes", "type")
	cmd.MarkFlagsOneRequired("all-classes", "type")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, path string) error {
	mode, err := batchUIMode(cmd, a.manifest.Config.Batch)
	if err != nil {
		return err
	}
	lg, err := a.loadGraph(path)
	if err != nil {
		return err
	}
	roots, err := batchRoots(cmd, lg.graph)
	if err != nil {
		return err
	}

	cfg := a.manifest.Config
	req := batch.Request{
		Graph:    lg.graph,
		Roots:    roots,
		OutDir:   stringSetting(cmd, "out", cfg.Batch.Out),
		Jobs:     intSetting(cmd, "jobs", cfg.Batch.Jobs),
		MaxDepth: intSetting(cmd, "max-depth", cfg.Pattern.MaxDepth),
		Cache:    a.openCache(cmd),
		Digest:   lg.digest,
		Logger:   a.log,
	}
	if req.OutDir == "" {
		req.OutDir = project.Default().Batch.Out
	}

	var res batch.Result
	useTUI := useProgressUI(mode, quiet(cmd), cmd.OutOrStdout())
	err = a.timer.Measure("compile", func() error {
		var err error
		if useTUI {
			title := fmt.Sprintf("%d patterns -> %s", len(roots), req.OutDir)
			res, err = runBatchWithUI(cmd.Context(), cmd.OutOrStdout(), title, batch.FileNames(lg.graph, roots), req)
			return err
		}
		res, err = batch.Run(cmd.Context(), &req)
		return err
	})
	if err != nil {
		return err
	}

	if !quiet(cmd) {
		out := cmd.ErrOrStderr()
		if !useTUI {
			for _, it := range res.Items {
				fmt.Fprintf(out, "wrote %s\n", it.Path)
			}
		}
		abs, _ := filepath.Abs(req.OutDir)
		fmt.Fprintf(out, "%d patterns written to %s (%d from cache)\n", len(res.Items), abs, res.Cached)
	}
	return nil
}

func batchRoots(cmd *cobra.Command, g *types.Graph) ([]types.TypeID, error) {
	if all, _ := cmd.Flags().GetBool("all-classes"); all {
		return batch.Classes(g), nil
	}
	indices, _ := cmd.Flags().GetIntSlice("type")
	roots := make([]types.TypeID, 0, len(indices))
	for _, idx := range indices {
		id, ok := g.ByIndex(idx)
		if !ok {
			return nil, fmt.Errorf("--type %d: index out of range (graph has %d types)", idx, g.Len())
		}
		roots = append(roots, id)
	}
	return roots, nil
}
