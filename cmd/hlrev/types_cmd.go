package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hlrev/internal/types"
)

func newTypesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types <graph>",
		Short: "List the types of a graph with their bytecode indices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTypes(cmd, args[0])
		},
	}
	cmd.Flags().StringSlice("kind", nil, "only these kinds (e.g. obj,struct,enum)")
	cmd.Flags().String("filter", "", "only types whose name or label contains this text")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

type typeRow struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Label string `json:"label"`
}

func (a *app) runTypes(cmd *cobra.Command, path string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	kindNames, _ := cmd.Flags().GetStringSlice("kind")
	kinds := make([]types.Kind, 0, len(kindNames))
	for _, name := range kindNames {
		k, ok := types.ParseKind(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("unknown kind %q", name)
		}
		kinds = append(kinds, k)
	}
	filter, _ := cmd.Flags().GetString("filter")

	lg, err := a.loadGraph(path)
	if err != nil {
		return err
	}
	rows := listTypes(lg.graph, kinds, filter)
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	renderTypes(cmd.OutOrStdout(), rows)
	return nil
}

func listTypes(g *types.Graph, kinds []types.Kind, filter string) []typeRow {
	var ids []types.TypeID
	if len(kinds) > 0 {
		ids = g.OfKind(kinds...)
	} else {
		for i := range g.Len() {
			id, _ := g.ByIndex(i)
			ids = append(ids, id)
		}
	}
	filter = strings.ToLower(filter)
	rows := make([]typeRow, 0, len(ids))
	for _, id := range ids {
		tt, _ := g.Resolve(id)
		row := typeRow{
			Index: g.Index(id),
			Kind:  tt.Kind.String(),
			Name:  g.TypeName(id),
			Label: types.Label(g, id),
		}
		if filter != "" &&
			!strings.Contains(strings.ToLower(row.Name), filter) &&
			!strings.Contains(strings.ToLower(row.Label), filter) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

var (
	kindObjColor    = color.New(color.FgCyan, color.Bold)
	kindEnumColor   = color.New(color.FgYellow)
	kindScalarColor = color.New(color.FgGreen)
	kindOtherColor  = color.New(color.FgMagenta)
)

func kindColor(name string) *color.Color {
	k, _ := types.ParseKind(name)
	switch {
	case k.IsObjectLike():
		return kindObjColor
	case k == types.KindEnum:
		return kindEnumColor
	case k.IsScalar():
		return kindScalarColor
	default:
		return kindOtherColor
	}
}

func renderTypes(out io.Writer, rows []typeRow) {
	for _, r := range rows {
		kind := kindColor(r.Kind).Sprintf("%-8s", r.Kind)
		fmt.Fprintf(out, "%6d  %s  %s\n", r.Index, kind, r.Label)
	}
}
