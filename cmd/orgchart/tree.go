package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/export"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

// viewFlags selects what a non-interactive command renders.
type viewFlags struct {
	query   string
	open    []string
	openAll bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "Search name, title or team")
	cmd.Flags().StringSliceVar(&f.open, "open", nil, "Section ids to expand (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&f.openAll, "open-all", false, "Expand every section")
}

func (f viewFlags) materialize(a *app, forest model.Forest) view.DisplayTree {
	m := a.cfg.Materializer()
	open := view.NewOpenSet(f.open...)
	if f.openAll {
		open = open.With(sectionIDs(m.Sections(), forest)...)
	}
	return m.Materialize(forest, f.query, open)
}

func sectionIDs(s view.Sections, forest model.Forest) []string {
	var ids []string
	var visit func(n *model.TreeNode)
	visit = func(n *model.TreeNode) {
		if s.IsSection(n.ID) {
			ids = append(ids, n.ID)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range forest {
		visit(r)
	}
	return ids
}

func newTreeCmd(a *app) *cobra.Command {
	var vf viewFlags
	var asJSON, asMarkdown bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the chart as an outline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON && asMarkdown {
				return withCode(exitUsage, fmt.Errorf("--json and --markdown are mutually exclusive"))
			}
			return a.withForest(cmd.Context(), func(_ *datasource.Source, forest model.Forest) error {
				tree := vf.materialize(a, forest)
				out := cmd.OutOrStdout()
				switch {
				case asJSON:
					return export.WriteJSON(out, tree)
				case asMarkdown:
					_, err := io.WriteString(out, export.GenerateMarkdown(tree, "", a.cfg.Palette()))
					return err
				default:
					return writeOutline(out, tree)
				}
			})
		},
	}
	vf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the display tree as JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Emit a Markdown report with a Mermaid diagram")
	return cmd
}

// writeOutline prints one indented line per displayed node.
func writeOutline(w io.Writer, tree view.DisplayTree) error {
	if tree.Empty() {
		_, err := fmt.Fprintln(w, tree.Message())
		return err
	}
	var sb strings.Builder
	tree.Walk(func(n view.Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(outlineLabel(n))
		sb.WriteByte('\n')
	})
	_, err := io.WriteString(w, sb.String())
	return err
}

func outlineLabel(n view.Node) string {
	label := n.Label()
	if n.Title != "" {
		label += " (" + n.Title + ")"
	}
	switch {
	case n.IsSection() && n.Open:
		label += " [-]"
	case n.IsSection() && n.Hidden > 0:
		label += fmt.Sprintf(" [+%d]", n.Hidden)
	}
	if n.Match == view.MatchName || n.Match == view.MatchTeam {
		label = "* " + label
	}
	return label
}
