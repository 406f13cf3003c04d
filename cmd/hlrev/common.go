package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hlrev/internal/graph"
	"hlrev/internal/pcache"
	"hlrev/internal/project"
	"hlrev/internal/types"
)

type loadedGraph struct {
	graph  *types.Graph
	doc    *graph.Document
	digest project.Digest
}

// loadGraph decodes and builds the graph document at path.
func (a *app) loadGraph(path string) (*loadedGraph, error) {
	var lg loadedGraph
	err := a.timer.Measure("load", func() error {
		g, doc, err := graph.Load(path)
		if err != nil {
			return err
		}
		sum, err := graph.Digest(doc)
		if err != nil {
			return fmt.Errorf("%s: digest: %w", path, err)
		}
		lg = loadedGraph{graph: g, doc: doc, digest: project.Digest(sum)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug("graph loaded", zap.String("path", path), zap.Int("types", lg.graph.Len()))
	return &lg, nil
}

// openCache returns nil when caching is disabled by config or --no-cache.
func (a *app) openCache(cmd *cobra.Command) *pcache.Cache {
	cfg := a.manifest.Config.Cache
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache || !cfg.Enabled {
		return nil
	}
	c, err := pcache.Open(cfg.Dir)
	if err != nil {
		a.log.Warn("pattern cache unavailable", zap.Error(err))
		return nil
	}
	return c
}

// intSetting prefers an explicitly set flag over the config value.
func intSetting(cmd *cobra.Command, flag string, fromConfig int) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return fromConfig
}

func boolSetting(cmd *cobra.Command, flag string, fromConfig bool) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	return fromConfig
}

func stringSetting(cmd *cobra.Command, flag, fromConfig string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return fromConfig
}
