package export

import (
	"math"
	"strconv"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// Horizontal tree geometry: depth grows to the right, siblings stack
// downward.
const (
	nodeW        = 160.0
	nodeH        = 60.0
	colGap       = 40.0
	rowUnit      = 80.0
	padding      = 36.0
	headerHeight = 90.0
	minWidth     = 640
	minHeight    = 320
)

type layoutNode struct {
	Node   view.Node
	Depth  int
	X, Y   float64 // top-left corner
	Parent int     // index into layoutResult.Nodes, -1 for roots
}

type layoutResult struct {
	Nodes   []layoutNode
	Width   int
	Height  int
	Title   string
	Summary string
	Message string
}

// siblingSeparation spreads large sibling groups apart, 1 + ln(count).
func siblingSeparation(count int) float64 {
	if count < 1 {
		count = 1
	}
	return 1 + math.Log(float64(count))
}

func buildLayout(tree view.DisplayTree, title string) layoutResult {
	res := layoutResult{Title: title}
	if res.Title == "" {
		res.Title = "Organization Chart"
	}
	if tree.Empty() {
		res.Message = tree.Message()
		res.Width, res.Height = minWidth, minHeight
		return res
	}

	cursor := 0.0
	maxDepth := 0
	var place func(n view.Node, depth, parent, siblings int) float64
	place = func(n view.Node, depth, parent, siblings int) float64 {
		idx := len(res.Nodes)
		res.Nodes = append(res.Nodes, layoutNode{Node: n, Depth: depth, Parent: parent})
		if depth > maxDepth {
			maxDepth = depth
		}

		var centre float64
		if len(n.Children) == 0 {
			centre = cursor
			cursor += rowUnit * siblingSeparation(siblings)
		} else {
			first := place(n.Children[0], depth+1, idx, len(n.Children))
			last := first
			for _, c := range n.Children[1:] {
				last = place(c, depth+1, idx, len(n.Children))
			}
			centre = (first + last) / 2
		}
		res.Nodes[idx].X = padding + float64(depth)*(nodeW+colGap)
		res.Nodes[idx].Y = padding + headerHeight + centre
		return centre
	}
	for _, r := range tree.Roots {
		place(r, 0, -1, len(tree.Roots))
	}

	res.Width = int(padding*2 + float64(maxDepth+1)*(nodeW+colGap))
	if res.Width < minWidth {
		res.Width = minWidth
	}
	res.Height = int(padding*2 + headerHeight + cursor)
	if res.Height < minHeight {
		res.Height = minHeight
	}
	res.Summary = summaryLine(tree)
	return res
}

func summaryLine(tree view.DisplayTree) string {
	s := "nodes: " + strconv.Itoa(tree.Count())
	if tree.Query != "" {
		s += "  query: " + tree.Query + "  matches: " + strconv.Itoa(tree.Matches)
	}
	return s
}

// sectionLabel is the toggle hint drawn on section boxes.
func sectionLabel(n view.Node) string {
	if n.Open {
		return "[Collapse]"
	}
	if n.Hidden > 0 {
		return "[Expand +" + strconv.Itoa(n.Hidden) + "]"
	}
	return "[Expand]"
}

// elbow returns the polyline from the parent's right edge to the child's
// left edge through a vertical segment halfway between them.
func elbow(parent, child layoutNode) (xs, ys []float64) {
	x1 := parent.X + nodeW
	y1 := parent.Y + nodeH/2
	x2 := child.X
	y2 := child.Y + nodeH/2
	mid := x1 + (x2-x1)/2
	return []float64{x1, mid, mid, x2}, []float64{y1, y1, y2, y2}
}
