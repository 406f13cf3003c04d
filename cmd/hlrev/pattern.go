package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hlrev/internal/inspect"
)

func newPatternCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern <graph>",
		Short: "Print the layout pattern of one type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPattern(cmd, args[0])
		},
	}
	cmd.Flags().Int("type", -1, "bytecode index of the root type")
	cmd.Flags().String("name", "", "name of the root class (case-insensitive)")
	cmd.Flags().StringP("output", "o", "", "write the pattern to this file instead of stdout")
	cmd.Flags().Int("max-depth", 0, "recursion depth cap (default 100)")
	cmd.Flags().Bool("strict", false, "fail when the type has no layout of its own")
	cmd.Flags().Bool("no-cache", false, "bypass the pattern cache")
	cmd.MarkFlagsMutuallyExclusive("type", "name")
	cmd.MarkFlagsOneRequired("type", "name")
	return cmd
}

func (a *app) runPattern(cmd *cobra.Command, path string) error {
	lg, err := a.loadGraph(path)
	if err != nil {
		return err
	}
	cfg := a.manifest.Config.Pattern
	ws := inspect.New(inspect.Config{
		MaxDepth: intSetting(cmd, "max-depth", cfg.MaxDepth),
		Strict:   boolSetting(cmd, "strict", cfg.Strict),
		Cache:    a.openCache(cmd),
		Logger:   a.log,
	})
	ws.Load(lg.graph, lg.digest)

	if name, _ := cmd.Flags().GetString("name"); name != "" {
		if _, err := ws.SelectByName(name); err != nil {
			return err
		}
	} else {
		index, _ := cmd.Flags().GetInt("type")
		ws.Select(inspect.Class(index))
	}

	out, _ := cmd.Flags().GetString("output")
	return a.timer.Measure("compile", func() error {
		if out != "" {
			if err := ws.SavePattern(cmd.Context(), out); err != nil {
				return patternError(err)
			}
			if !quiet(cmd) {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			}
			return nil
		}
		text, err := ws.GeneratePattern(cmd.Context())
		if err != nil {
			return patternError(err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	})
}

// patternError adds a hint for selection mistakes.
func patternError(err error) error {
	switch {
	case errors.Is(err, inspect.ErrOutOfBounds):
		return fmt.Errorf("%w (see `hlrev types` for valid indices)", err)
	case errors.Is(err, inspect.ErrEmptyPattern):
		return fmt.Errorf("%w (drop --strict to emit the prelude anyway)", err)
	}
	return err
}
