// Package testutil provides deterministic org fixtures and assertions for
// tests across the module.
package testutil

import (
	"bytes"
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// OrgFixture is an abstract reporting structure. Links are [report, manager]
// index pairs; a node may appear as report at most once.
type OrgFixture struct {
	Description string
	Nodes       []string
	Links       [][2]int
	Properties  Properties
}

// Properties holds metadata about the fixture.
type Properties struct {
	HasCycles     bool
	Roots         int // roots the builder should produce
	ExpectedDepth int
}

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed      int64  // 0 = current time
	IDPrefix  string // prepended to node names, empty keeps names as ids
	Corporate []string
	Teams     []string
	Titles    []string
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		Corporate: []string{"Acme Korea", "Acme Japan"},
		Teams:     []string{"Platform", "Payments", "Growth", "Design"},
		Titles:    []string{"Engineer", "Senior Engineer", "Manager", "Designer"},
	}
}

// Generator creates org fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	def := DefaultConfig()
	if len(cfg.Teams) == 0 {
		cfg.Teams = def.Teams
	}
	if len(cfg.Titles) == 0 {
		cfg.Titles = def.Titles
	}
	if len(cfg.Corporate) == 0 {
		cfg.Corporate = def.Corporate
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Chain creates n0 <- n1 <- ... where each node reports to the previous one.
func (g *Generator) Chain(size int) OrgFixture {
	nodes := make([]string, size)
	links := make([][2]int, 0, size)
	for i := range nodes {
		nodes[i] = fmt.Sprintf("n%d", i)
		if i > 0 {
			links = append(links, [2]int{i, i - 1})
		}
	}
	return OrgFixture{
		Description: fmt.Sprintf("Reporting chain of %d people", size),
		Nodes:       nodes,
		Links:       links,
		Properties:  Properties{Roots: min(size, 1), ExpectedDepth: max(size-1, 0)},
	}
}

// Flat creates one manager with `reports` direct reports.
func (g *Generator) Flat(reports int) OrgFixture {
	nodes := make([]string, reports+1)
	links := make([][2]int, reports)
	nodes[0] = "boss"
	for i := 1; i <= reports; i++ {
		nodes[i] = fmt.Sprintf("r%d", i)
		links[i-1] = [2]int{i, 0}
	}
	depth := 0
	if reports > 0 {
		depth = 1
	}
	return OrgFixture{
		Description: fmt.Sprintf("One manager with %d reports", reports),
		Nodes:       nodes,
		Links:       links,
		Properties:  Properties{Roots: 1, ExpectedDepth: depth},
	}
}

// Tree creates a balanced hierarchy where every non-leaf has `breadth`
// reports.
func (g *Generator) Tree(depth, breadth int) OrgFixture {
	depth, breadth = max(depth, 1), max(breadth, 1)
	nodes := []string{"n0"}
	var links [][2]int
	level := []int{0}
	for d := 0; d < depth; d++ {
		var next []int
		for _, mgr := range level {
			for b := 0; b < breadth; b++ {
				child := len(nodes)
				nodes = append(nodes, fmt.Sprintf("n%d", child))
				links = append(links, [2]int{child, mgr})
				next = append(next, child)
			}
		}
		level = next
	}
	return OrgFixture{
		Description: fmt.Sprintf("Tree with depth=%d, breadth=%d (%d people)", depth, breadth, len(nodes)),
		Nodes:       nodes,
		Links:       links,
		Properties:  Properties{Roots: 1, ExpectedDepth: depth},
	}
}

// Cycle creates n0 -> n1 -> ... -> n0 in manager terms. The builder breaks
// it by promoting the first node whose link would close the loop.
func (g *Generator) Cycle(size int) OrgFixture {
	nodes := make([]string, size)
	links := make([][2]int, size)
	for i := range nodes {
		nodes[i] = fmt.Sprintf("n%d", i)
		links[i] = [2]int{i, (i + 1) % size}
	}
	return OrgFixture{
		Description: fmt.Sprintf("Management cycle of %d people", size),
		Nodes:       nodes,
		Links:       links,
		Properties:  Properties{HasCycles: true, Roots: 1, ExpectedDepth: size - 1},
	}
}

// SelfManaged creates a single person who is their own manager.
func (g *Generator) SelfManaged() OrgFixture {
	return OrgFixture{
		Description: "Single person managing themselves",
		Nodes:       []string{"n0"},
		Links:       [][2]int{{0, 0}},
		Properties:  Properties{HasCycles: true, Roots: 1},
	}
}

// Disconnected creates independent chains, one root each.
func (g *Generator) Disconnected(components, size int) OrgFixture {
	var nodes []string
	var links [][2]int
	for c := 0; c < components; c++ {
		for i := 0; i < size; i++ {
			nodes = append(nodes, fmt.Sprintf("c%d_n%d", c, i))
			if i > 0 {
				links = append(links, [2]int{len(nodes) - 1, len(nodes) - 2})
			}
		}
	}
	return OrgFixture{
		Description: fmt.Sprintf("%d separate chains of %d people", components, size),
		Nodes:       nodes,
		Links:       links,
		Properties:  Properties{Roots: components, ExpectedDepth: max(size-1, 0)},
	}
}

// Random creates a forest where each node reports to a random earlier node
// with probability attach, and is a root otherwise. Node 0 is always a root.
func (g *Generator) Random(size int, attach float64) OrgFixture {
	nodes := make([]string, size)
	var links [][2]int
	roots := 0
	for i := range nodes {
		nodes[i] = fmt.Sprintf("n%d", i)
		if i > 0 && g.rng.Float64() < attach {
			links = append(links, [2]int{i, g.rng.Intn(i)})
			continue
		}
		roots++
	}
	return OrgFixture{
		Description: fmt.Sprintf("Random forest of %d people (attach=%.2f)", size, attach),
		Nodes:       nodes,
		Links:       links,
		Properties:  Properties{Roots: roots, ExpectedDepth: -1},
	}
}

// ToRecords converts a fixture to person records with generated names,
// titles and teams.
func (g *Generator) ToRecords(f OrgFixture) []model.PersonRecord {
	manager := make(map[int]int, len(f.Links))
	for _, l := range f.Links {
		manager[l[0]] = l[1]
	}
	id := func(i int) string { return g.cfg.IDPrefix + f.Nodes[i] }

	records := make([]model.PersonRecord, len(f.Nodes))
	for i := range f.Nodes {
		rec := model.PersonRecord{
			ID:          id(i),
			DisplayName: fmt.Sprintf("Person %s", f.Nodes[i]),
			Title:       g.cfg.Titles[g.rng.Intn(len(g.cfg.Titles))],
			Team:        g.cfg.Teams[g.rng.Intn(len(g.cfg.Teams))],
			Email:       fmt.Sprintf("%s@example.com", f.Nodes[i]),
		}
		if m, ok := manager[i]; ok {
			rec.ManagerID = id(m)
		} else {
			rec.CorporateUnit = g.cfg.Corporate[g.rng.Intn(len(g.cfg.Corporate))]
		}
		records[i] = rec
	}
	return records
}

// ToCSV renders records in the default column layout.
func ToCSV(records []model.PersonRecord) string {
	var buf bytes.Buffer
	if err := loader.WriteCSV(&buf, records, loader.DefaultColumns()); err != nil {
		return ""
	}
	return buf.String()
}

// QuickChain creates a chain fixture with default settings.
func QuickChain(size int) []model.PersonRecord {
	gen := NewDefault()
	return gen.ToRecords(gen.Chain(size))
}

// QuickTree creates a tree fixture with default settings.
func QuickTree(depth, breadth int) []model.PersonRecord {
	gen := NewDefault()
	return gen.ToRecords(gen.Tree(depth, breadth))
}

// QuickRandom creates a random forest with default settings.
func QuickRandom(size int, attach float64) []model.PersonRecord {
	gen := NewDefault()
	return gen.ToRecords(gen.Random(size, attach))
}

// ReferenceOrg returns a small company with corporate and team sections in
// the default id ranges.
func ReferenceOrg() []model.PersonRecord {
	return []model.PersonRecord{
		{ID: "1", DisplayName: "Kim Dae-pyo", Title: "CEO"},
		{ID: "100", DisplayName: "Acme Korea", ManagerID: "1"},
		{ID: "101", DisplayName: "Acme Japan", ManagerID: "1"},
		{ID: "103", DisplayName: "Platform", Team: "Platform", ManagerID: "100"},
		{ID: "104", DisplayName: "Payments", Team: "Payments", ManagerID: "100"},
		{ID: "2", DisplayName: "Park Min-jun", Title: "Lead", Team: "Platform", ManagerID: "103", Email: "park@example.com"},
		{ID: "3", DisplayName: "Lee Ji-eun", Title: "Engineer", Team: "Platform", ManagerID: "2"},
		{ID: "4", DisplayName: "Choi Su-bin", Title: "Engineer", Team: "Payments", ManagerID: "104"},
		{ID: "5", DisplayName: "Sato Yuki", Title: "Country Manager", CorporateUnit: "Acme Japan", ManagerID: "101"},
		{ID: "6", DisplayName: "Jung Ha-neul", Title: "CFO", ManagerID: "1"},
	}
}
