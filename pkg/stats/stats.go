// Package stats summarizes the shape of an organization: span of control,
// depth, headcount per unit and the managers with the largest reach.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

// Reach is a node with the size of its subtree.
type Reach struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Reports     int    `json:"reports"`     // direct
	Descendants int    `json:"descendants"` // transitive
}

// Count is a labelled headcount.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Report is the organization summary.
type Report struct {
	Nodes    int `json:"nodes"`
	People   int `json:"people"`
	Sections int `json:"sections"`
	Roots    int `json:"roots"`
	Depth    int `json:"depth"`
	Managers int `json:"managers"`

	// Span of control over nodes with at least one report.
	SpanMean   float64 `json:"span_mean"`
	SpanStdDev float64 `json:"span_stddev"`
	SpanMedian float64 `json:"span_median"`
	SpanMax    int     `json:"span_max"`

	// Reach lists the largest subtrees, biggest first.
	Reach          []Reach `json:"reach"`
	CorporateUnits []Count `json:"corporate_units"`
	Teams          []Count `json:"teams"`
}

// Options tune Compute.
type Options struct {
	Sections view.Sections
	TopN     int // size of Reach, default 5
}

// Compute summarizes forest.
func Compute(forest model.Forest, opts Options) (Report, error) {
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	r := Report{
		Nodes: orgtree.CountNodes(forest),
		Roots: len(forest),
		Depth: orgtree.Depth(forest),
	}
	if r.Nodes == 0 {
		return r, nil
	}

	g, ids := reportingGraph(forest)
	// The builder guarantees a forest; a cycle here is a bug upstream.
	if _, err := topo.Sort(g); err != nil {
		return r, fmt.Errorf("reporting lines are not acyclic: %w", err)
	}

	var spans []float64
	var reach []Reach
	corp := make(map[string]int)
	teams := make(map[string]int)

	var visit func(n *model.TreeNode) int
	visit = func(n *model.TreeNode) int {
		desc := 0
		for _, c := range n.Children {
			desc += 1 + visit(c)
		}
		if opts.Sections.IsSection(n.ID) {
			r.Sections++
		} else {
			r.People++
			if n.CorporateUnit != "" {
				corp[n.CorporateUnit]++
			}
			if n.Team != "" {
				teams[n.Team]++
			}
		}
		if reports := g.From(ids[n.ID]).Len(); reports > 0 {
			spans = append(spans, float64(reports))
			if reports > r.SpanMax {
				r.SpanMax = reports
			}
			reach = append(reach, Reach{ID: n.ID, Name: n.Label(), Reports: reports, Descendants: desc})
		}
		return desc
	}
	for _, root := range forest {
		visit(root)
	}

	r.Managers = len(spans)
	if len(spans) > 0 {
		r.SpanMean, r.SpanStdDev = stat.MeanStdDev(spans, nil)
		if len(spans) == 1 {
			r.SpanStdDev = 0
		}
		sorted := append([]float64(nil), spans...)
		sort.Float64s(sorted)
		r.SpanMedian = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}

	sort.SliceStable(reach, func(i, j int) bool {
		return reach[i].Descendants > reach[j].Descendants
	})
	if len(reach) > opts.TopN {
		reach = reach[:opts.TopN]
	}
	r.Reach = reach
	r.CorporateUnits = sortedCounts(corp)
	r.Teams = sortedCounts(teams)
	return r, nil
}

// reportingGraph builds manager -> report edges with dense node ids.
func reportingGraph(forest model.Forest) (*simple.DirectedGraph, map[string]int64) {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64)
	orgtree.Walk(forest, func(n *model.TreeNode, _ int) bool {
		id := int64(len(ids))
		ids[n.ID] = id
		g.AddNode(simple.Node(id))
		return true
	})
	orgtree.Walk(forest, func(n *model.TreeNode, _ int) bool {
		for _, c := range n.Children {
			g.SetEdge(g.NewEdge(simple.Node(ids[n.ID]), simple.Node(ids[c.ID])))
		}
		return true
	})
	return g, ids
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// WriteText prints the report as aligned plain text.
func (r Report) WriteText(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Nodes:     %d (%d people, %d sections)\n", r.Nodes, r.People, r.Sections)
	fmt.Fprintf(&sb, "Roots:     %d\n", r.Roots)
	fmt.Fprintf(&sb, "Depth:     %d\n", r.Depth)
	fmt.Fprintf(&sb, "Managers:  %d\n", r.Managers)
	if r.Managers > 0 {
		fmt.Fprintf(&sb, "Span:      mean %.2f, stddev %.2f, median %.1f, max %d\n",
			r.SpanMean, r.SpanStdDev, r.SpanMedian, r.SpanMax)
	}
	if len(r.Reach) > 0 {
		sb.WriteString("\nLargest reach:\n")
		for _, x := range r.Reach {
			fmt.Fprintf(&sb, "  %-24s %4d reports %5d total\n", x.Name, x.Reports, x.Descendants)
		}
	}
	writeCounts(&sb, "Corporate units", r.CorporateUnits)
	writeCounts(&sb, "Teams", r.Teams)
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCounts(sb *strings.Builder, title string, counts []Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, c := range counts {
		fmt.Fprintf(sb, "  %-24s %4d\n", c.Label, c.Count)
	}
}
