package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hlrev/internal/project"
)

// uiMode selects how batch reports progress.
type uiMode int

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

func (m uiMode) String() string {
	switch m {
	case uiOn:
		return "on"
	case uiOff:
		return "off"
	default:
		return "auto"
	}
}

func parseUIMode(value string) (uiMode, bool) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiAuto, true
	case "on":
		return uiOn, true
	case "off":
		return uiOff, true
	}
	return uiAuto, false
}

// batchUIMode resolves --ui, falling back to [batch].ui.
func batchUIMode(cmd *cobra.Command, cfg project.BatchConfig) (uiMode, error) {
	value := stringSetting(cmd, "ui", cfg.UI)
	mode, ok := parseUIMode(value)
	if ok {
		return mode, nil
	}
	if cmd.Flags().Changed("ui") {
		return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return uiAuto, fmt.Errorf("invalid [batch].ui value %q (expected auto|on|off)", value)
}

// useProgressUI reports whether the bubbletea view should own out.
func useProgressUI(mode uiMode, quiet bool, out io.Writer) bool {
	if quiet || mode == uiOff {
		return false
	}
	if mode == uiOn {
		return true
	}
	f, ok := out.(*os.File)
	return ok && isTerminal(f)
}
