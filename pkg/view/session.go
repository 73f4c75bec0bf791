package view

import (
	"fmt"
	"slices"

	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
)

// Copier receives contact details when a person is clicked. The TUI wires
// the system clipboard; tests record calls.
type Copier interface {
	Copy(text string) error
}

// CopierFunc adapts a function to Copier.
type CopierFunc func(text string) error

// Copy calls f.
func (f CopierFunc) Copy(text string) error {
	return f(text)
}

// ClickResult reports what a click did.
type ClickResult int

const (
	ClickIgnored ClickResult = iota
	ClickToggled
	ClickCopied
)

// SessionOptions tune interactive behaviour.
type SessionOptions struct {
	// Exclusive keeps at most one section open: opening a section closes
	// the others.
	Exclusive bool
}

// Session holds the interactive state for one viewer: the current forest,
// query and open set, and the last materialized view. It is not safe for
// concurrent use; each sink owns its own session.
type Session struct {
	m      *Materializer
	copier Copier
	opts   SessionOptions

	forest model.Forest
	index  map[string]*model.TreeNode
	query  string
	open   OpenSet
	view   DisplayTree
}

// NewSession returns a session over an empty forest.
func NewSession(m *Materializer, copier Copier, opts SessionOptions) *Session {
	s := &Session{m: m, copier: copier, opts: opts}
	s.refresh()
	return s
}

// SetForest swaps in a rebuilt forest. The query and open set carry over.
func (s *Session) SetForest(forest model.Forest) DisplayTree {
	s.forest = forest
	s.index = orgtree.Index(forest)
	return s.refresh()
}

// Forest returns the canonical forest the session renders.
func (s *Session) Forest() model.Forest {
	return s.forest
}

// SetQuery updates the search string.
func (s *Session) SetQuery(q string) DisplayTree {
	s.query = q
	return s.refresh()
}

// Query returns the raw search string.
func (s *Session) Query() string {
	return s.query
}

// Open returns the current open set.
func (s *Session) Open() OpenSet {
	return s.open
}

// View returns the last materialized tree.
func (s *Session) View() DisplayTree {
	return s.view
}

// Toggle flips a section. Ids that are not sections are ignored.
func (s *Session) Toggle(id string) bool {
	if !s.m.sections.IsSection(id) {
		return false
	}
	if s.opts.Exclusive {
		s.open = s.open.ToggleExclusive(id)
	} else {
		s.open = s.open.Toggle(id)
	}
	s.refresh()
	return true
}

// Click toggles a section or copies a person's email.
func (s *Session) Click(id string) (ClickResult, error) {
	n, ok := s.index[id]
	if !ok {
		return ClickIgnored, nil
	}
	if s.Toggle(id) {
		return ClickToggled, nil
	}
	if n.Email == "" || s.copier == nil {
		return ClickIgnored, nil
	}
	if err := s.copier.Copy(n.Email); err != nil {
		return ClickIgnored, fmt.Errorf("copying email for %s: %w", id, err)
	}
	return ClickCopied, nil
}

func (s *Session) refresh() DisplayTree {
	s.view = s.m.Materialize(s.forest, s.query, s.open)
	if matched := s.view.MatchedSections; len(matched) > 0 {
		if s.opts.Exclusive {
			s.open = s.keepOneMatched(matched)
		} else {
			s.open = s.open.With(matched...)
		}
	}
	debug.Assert(!s.opts.Exclusive || s.open.Len() <= 1, "exclusive session holds more than one open section")
	return s.view
}

// keepOneMatched picks the section that stays open after a persisted search
// in exclusive mode: the open one if it matched, else the first match in
// display order.
func (s *Session) keepOneMatched(matched []string) OpenSet {
	for _, id := range matched {
		if s.open.Has(id) {
			return NewOpenSet(id)
		}
	}
	first := ""
	s.view.Walk(func(n Node, _ int) {
		if first == "" && n.Open && slices.Contains(matched, n.ID) {
			first = n.ID
		}
	})
	if first == "" {
		return s.open
	}
	return NewOpenSet(first)
}
