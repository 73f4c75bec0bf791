package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/metrics"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// SyntheticRootID is the id carried by the wrapper node placed above the
// forest during materialization. The wrapper is recognised by identity, so a
// real person with this id is treated like anyone else.
const SyntheticRootID = "root"

// ExpandPolicy decides how sections behave while a query is active.
type ExpandPolicy string

const (
	// ExpandOnMatch shows the matching children of sections on a match path.
	// The open set is not touched. This is the default.
	ExpandOnMatch ExpandPolicy = "expand"
	// CollapseOnMatch keeps sections collapsed during a search unless the
	// user opened them; sections containing matches are still listed.
	CollapseOnMatch ExpandPolicy = "collapse"
	// PersistOnMatch behaves like ExpandOnMatch and reports the sections on
	// match paths so the caller can add them to its open set.
	PersistOnMatch ExpandPolicy = "persist"
)

// ParseExpandPolicy validates a configured policy; empty means default.
func ParseExpandPolicy(s string) (ExpandPolicy, error) {
	switch p := ExpandPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ExpandOnMatch, nil
	case ExpandOnMatch, CollapseOnMatch, PersistOnMatch:
		return p, nil
	default:
		return "", fmt.Errorf("unknown expand policy %q (want expand, collapse or persist)", s)
	}
}

// MatchKind records why a node survived a search.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchName           // display name or title contains the query
	MatchTeam           // team contains the query
	MatchPath           // kept only because a descendant matched
)

func (k MatchKind) String() string {
	switch k {
	case MatchName:
		return "name"
	case MatchTeam:
		return "team"
	case MatchPath:
		return "path"
	default:
		return "none"
	}
}

// MarshalText encodes the kind by name for JSON output.
func (k MatchKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *MatchKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "name":
		*k = MatchName
	case "team":
		*k = MatchTeam
	case "path":
		*k = MatchPath
	case "none", "":
		*k = MatchNone
	default:
		return fmt.Errorf("unknown match kind %q", b)
	}
	return nil
}

// Status distinguishes an empty forest from a search that found nothing.
type Status int

const (
	StatusOK Status = iota
	StatusNoData
	StatusNoResults
)

func (s Status) String() string {
	switch s {
	case StatusNoData:
		return "no_data"
	case StatusNoResults:
		return "no_results"
	default:
		return "ok"
	}
}

// MarshalText encodes the status by name for JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Node is one entry of a DisplayTree. It is a value copy and never shares
// memory with the canonical forest.
type Node struct {
	model.PersonRecord
	Children []Node `json:"children,omitempty"`
	// Section is the roll-up kind, SectionNone for people.
	Section SectionKind `json:"section,omitempty"`
	// Open is true when a section is expanded in this view.
	Open bool `json:"open,omitempty"`
	// Hidden counts direct children suppressed because the section is
	// collapsed.
	Hidden int       `json:"hidden,omitempty"`
	Match  MatchKind `json:"match,omitempty"`
}

// IsSection reports whether the node is a roll-up.
func (n Node) IsSection() bool {
	return n.Section != SectionNone
}

// DisplayTree is the materialized view for one (forest, query, open set).
type DisplayTree struct {
	Roots  []Node `json:"roots"`
	Status Status `json:"status"`
	Query  string `json:"query,omitempty"`
	// Matches counts nodes whose own fields matched the query.
	Matches int `json:"matches,omitempty"`
	// MatchedSections lists sections on match paths. Only filled under
	// PersistOnMatch.
	MatchedSections []string `json:"matched_sections,omitempty"`
}

// Empty reports whether there is nothing to draw.
func (d DisplayTree) Empty() bool {
	return d.Status != StatusOK
}

// Walk visits displayed nodes in pre-order.
func (d DisplayTree) Walk(fn func(n Node, depth int)) {
	var visit func(n Node, depth int)
	visit = func(n Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range d.Roots {
		visit(r, 0)
	}
}

// Count returns the number of displayed nodes.
func (d DisplayTree) Count() int {
	count := 0
	d.Walk(func(Node, int) { count++ })
	return count
}

// Materializer turns the canonical forest into display trees. It holds only
// configuration and is safe for concurrent use.
type Materializer struct {
	sections Sections
	policy   ExpandPolicy
}

// NewMaterializer returns a materializer; an empty policy means
// ExpandOnMatch.
func NewMaterializer(sections Sections, policy ExpandPolicy) *Materializer {
	if policy == "" {
		policy = ExpandOnMatch
	}
	return &Materializer{sections: sections, policy: policy}
}

// Sections returns the section classification in use.
func (m *Materializer) Sections() Sections {
	return m.sections
}

// Policy returns the search expand policy in use.
func (m *Materializer) Policy() ExpandPolicy {
	return m.policy
}

// NormalizeQuery trims and lower-cases a search string.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Materialize derives the display tree. It never mutates forest or open.
func (m *Materializer) Materialize(forest model.Forest, query string, open OpenSet) DisplayTree {
	defer metrics.Timer(metrics.Materialize)()

	term := NormalizeQuery(query)
	out := DisplayTree{Query: term}
	if len(forest) == 0 {
		out.Status = StatusNoData
		return out
	}

	synthetic := &model.TreeNode{
		PersonRecord: model.PersonRecord{ID: SyntheticRootID},
		Children:     forest,
	}
	p := &pass{
		m:         m,
		term:      term,
		open:      open,
		synthetic: synthetic,
	}
	if m.policy == PersistOnMatch && term != "" {
		p.matched = make(map[string]bool)
	}

	root, ok := p.visit(synthetic)
	if !ok || len(root.Children) == 0 {
		out.Status = StatusNoResults
		debug.Log("view: query %q matched nothing", term)
		return out
	}
	out.Roots = root.Children
	out.Matches = p.matches
	if len(p.matched) > 0 {
		out.MatchedSections = make([]string, 0, len(p.matched))
		for id := range p.matched {
			out.MatchedSections = append(out.MatchedSections, id)
		}
		sort.Strings(out.MatchedSections)
	}
	return out
}

// pass carries the state of a single Materialize call.
type pass struct {
	m         *Materializer
	term      string
	open      OpenSet
	synthetic *model.TreeNode
	matches   int
	matched   map[string]bool
}

func (p *pass) newNode(n *model.TreeNode) Node {
	out := Node{PersonRecord: n.PersonRecord}
	if n != p.synthetic {
		out.Section = p.m.sections.Kind(n.ID)
	}
	return out
}

func (p *pass) matchOf(n *model.TreeNode) MatchKind {
	if p.term == "" || n == p.synthetic {
		return MatchNone
	}
	if contains(n.DisplayName, p.term) || contains(n.Title, p.term) {
		return MatchName
	}
	if contains(n.Team, p.term) {
		return MatchTeam
	}
	return MatchNone
}

func contains(field, term string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), term)
}

// visit materializes n, reporting false when the node is dropped.
func (p *pass) visit(n *model.TreeNode) (Node, bool) {
	out := p.newNode(n)

	if p.term == "" {
		children := make([]Node, 0, len(n.Children))
		for _, c := range n.Children {
			if cn, ok := p.visit(c); ok {
				children = append(children, cn)
			}
		}
		p.attach(&out, children)
		return out, true
	}

	if match := p.matchOf(n); match != MatchNone {
		// A direct hit shows everything below it.
		out.Match = match
		p.matches++
		p.attach(&out, p.revealChildren(n))
		return out, true
	}

	children := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		if cn, ok := p.visit(c); ok {
			children = append(children, cn)
		}
	}
	if len(children) == 0 {
		return Node{}, false
	}
	if n != p.synthetic {
		out.Match = MatchPath
	}
	p.attach(&out, children)
	return out, true
}

// revealChildren copies the subtree under a match without filtering.
// Descendants that match on their own are still annotated and counted.
func (p *pass) revealChildren(n *model.TreeNode) []Node {
	children := make([]Node, 0, len(n.Children))
	for _, c := range n.Children {
		cn := p.newNode(c)
		if match := p.matchOf(c); match != MatchNone {
			cn.Match = match
			p.matches++
		}
		p.attach(&cn, p.revealChildren(c))
		children = append(children, cn)
	}
	return children
}

// attach sets children on out, applying section collapse rules.
func (p *pass) attach(out *Node, children []Node) {
	if !out.IsSection() {
		out.Children = children
		return
	}

	show := p.open.Has(out.ID)
	if p.term != "" && p.m.policy != CollapseOnMatch {
		show = true
	}
	if !show {
		out.Hidden = len(children)
		return
	}
	out.Open = true
	out.Children = children
	if p.matched != nil && len(children) > 0 {
		p.matched[out.ID] = true
	}
}

// Message returns the empty-state text for a tree that has nothing to draw.
func (d DisplayTree) Message() string {
	switch d.Status {
	case StatusNoData:
		return "Organization chart data is missing or not loaded."
	case StatusNoResults:
		return fmt.Sprintf("No results for %q.", d.Query)
	default:
		return ""
	}
}
