// Package view derives the display tree from the canonical org forest, a
// search query and the set of opened sections.
package view

import (
	"fmt"
	"strconv"
	"strings"
)

// SectionKind names the kind of roll-up a section node represents.
type SectionKind string

const (
	SectionNone      SectionKind = ""
	SectionCorporate SectionKind = "corporate"
	SectionTeam      SectionKind = "team"
)

// ParseSectionKind validates a configured kind.
func ParseSectionKind(s string) (SectionKind, error) {
	switch k := SectionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case SectionCorporate, SectionTeam:
		return k, nil
	default:
		return SectionNone, fmt.Errorf("unknown section kind %q (want corporate or team)", s)
	}
}

// SectionRule marks node ids as sections, either explicitly or through an
// inclusive numeric id range. A rule with From > To has no range.
type SectionRule struct {
	Kind SectionKind
	IDs  []string
	From int
	To   int
}

// Sections classifies node ids. The zero value has no sections.
type Sections struct {
	explicit map[string]SectionKind
	ranges   []SectionRule
}

// NewSections compiles rules. Explicit ids take precedence over ranges;
// among ranges the first match wins.
func NewSections(rules ...SectionRule) Sections {
	s := Sections{explicit: make(map[string]SectionKind)}
	for _, r := range rules {
		for _, id := range r.IDs {
			id = strings.TrimSpace(id)
			if _, seen := s.explicit[id]; id != "" && !seen {
				s.explicit[id] = r.Kind
			}
		}
		if r.From <= r.To && (r.From != 0 || r.To != 0) {
			s.ranges = append(s.ranges, SectionRule{Kind: r.Kind, From: r.From, To: r.To})
		}
	}
	return s
}

// DefaultSections groups ids 100-102 as corporate units and 103-199 as
// teams.
func DefaultSections() Sections {
	return NewSections(
		SectionRule{Kind: SectionCorporate, From: 100, To: 102},
		SectionRule{Kind: SectionTeam, From: 103, To: 199},
	)
}

// Kind returns the section kind for id, SectionNone for people.
func (s Sections) Kind(id string) SectionKind {
	if k, ok := s.explicit[id]; ok {
		return k
	}
	if len(s.ranges) == 0 {
		return SectionNone
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return SectionNone
	}
	for _, r := range s.ranges {
		if n >= r.From && n <= r.To {
			return r.Kind
		}
	}
	return SectionNone
}

// IsSection reports whether id is a roll-up node.
func (s Sections) IsSection(id string) bool {
	return s.Kind(id) != SectionNone
}
