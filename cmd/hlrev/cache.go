package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hlrev/internal/pcache"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the pattern cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "dir",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.cacheDir()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached pattern",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := a.cacheDir()
				if err != nil {
					return err
				}
				c, err := pcache.Open(dir)
				if err != nil {
					return err
				}
				if err := c.DropAll(); err != nil {
					return err
				}
				if !quiet(cmd) {
					fmt.Fprintf(cmd.ErrOrStderr(), "cleared %s\n", c.Dir())
				}
				return nil
			},
		},
	)
	return cmd
}

func (a *app) cacheDir() (string, error) {
	if dir := a.manifest.Config.Cache.Dir; dir != "" {
		return dir, nil
	}
	return pcache.DefaultDir()
}
