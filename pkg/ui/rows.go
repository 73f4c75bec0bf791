package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// row is one line of the flattened chart.
type row struct {
	node   view.Node
	depth  int
	prefix string // box-drawing connectors
}

// flatten lays out the display tree as an indented outline.
func flatten(tree view.DisplayTree) []row {
	var rows []row
	var visit func(n view.Node, depth int, guides []bool, last bool)
	visit = func(n view.Node, depth int, guides []bool, last bool) {
		var b strings.Builder
		for _, more := range guides {
			if more {
				b.WriteString("│   ")
			} else {
				b.WriteString("    ")
			}
		}
		if depth > 0 {
			if last {
				b.WriteString("└── ")
			} else {
				b.WriteString("├── ")
			}
		}
		rows = append(rows, row{node: n, depth: depth, prefix: b.String()})

		var next []bool
		if depth > 0 {
			next = append(append([]bool(nil), guides...), !last)
		}
		for i, c := range n.Children {
			visit(c, depth+1, next, i == len(n.Children)-1)
		}
	}
	for i, r := range tree.Roots {
		visit(r, 0, nil, i == len(tree.Roots)-1)
	}
	return rows
}

// marker is the expand/collapse glyph shown before section labels.
func marker(n view.Node) string {
	if !n.IsSection() {
		return ""
	}
	if n.Open {
		return "▾ "
	}
	return "▸ "
}

// suffix describes what a collapsed section hides.
func suffix(n view.Node) string {
	if n.IsSection() && !n.Open && n.Hidden > 0 {
		return fmt.Sprintf(" (+%d)", n.Hidden)
	}
	return ""
}
