package view

import "sort"

// OpenSet is the immutable set of sections the user has expanded. Every
// mutating method returns a new set; the zero value is empty.
type OpenSet struct {
	ids map[string]struct{}
}

// NewOpenSet returns a set holding ids.
func NewOpenSet(ids ...string) OpenSet {
	s := OpenSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s OpenSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of open sections.
func (s OpenSet) Len() int {
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s OpenSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s OpenSet) clone(extra int) OpenSet {
	c := OpenSet{ids: make(map[string]struct{}, len(s.ids)+extra)}
	for id := range s.ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// Toggle flips membership of id.
func (s OpenSet) Toggle(id string) OpenSet {
	c := s.clone(1)
	if _, ok := c.ids[id]; ok {
		delete(c.ids, id)
	} else {
		c.ids[id] = struct{}{}
	}
	return c
}

// ToggleExclusive flips id and closes every other section, so at most one
// section is open afterwards.
func (s OpenSet) ToggleExclusive(id string) OpenSet {
	if s.Has(id) {
		return OpenSet{}
	}
	return NewOpenSet(id)
}

// With returns the union of s and ids.
func (s OpenSet) With(ids ...string) OpenSet {
	c := s.clone(len(ids))
	for _, id := range ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// Equal reports whether both sets hold the same ids.
func (s OpenSet) Equal(o OpenSet) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for id := range s.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}
