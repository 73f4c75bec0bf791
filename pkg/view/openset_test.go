package view

import "testing"

func TestOpenSet_Toggle(t *testing.T) {
	var s OpenSet
	if s.Has("100") || s.Len() != 0 {
		t.Fatal("zero value should be empty")
	}

	opened := s.Toggle("100")
	if !opened.Has("100") {
		t.Error("toggle should add")
	}
	if s.Has("100") {
		t.Error("toggle must not modify the receiver")
	}
	closed := opened.Toggle("100")
	if closed.Has("100") || !opened.Has("100") {
		t.Error("second toggle should remove without touching the previous set")
	}
}

func TestOpenSet_ToggleExclusive(t *testing.T) {
	s := NewOpenSet("100", "101")
	s = s.ToggleExclusive("102")
	if got := s.IDs(); !sameIDs(got, []string{"102"}) {
		t.Errorf("IDs = %v, want [102]", got)
	}
	s = s.ToggleExclusive("102")
	if s.Len() != 0 {
		t.Errorf("closing the open section should leave nothing open, got %v", s.IDs())
	}
}

func TestOpenSet_WithAndEqual(t *testing.T) {
	a := NewOpenSet("b", "a")
	b := NewOpenSet().With("a", "b", "a")
	if !a.Equal(b) {
		t.Errorf("%v != %v", a.IDs(), b.IDs())
	}
	if got := a.IDs(); !sameIDs(got, []string{"a", "b"}) {
		t.Errorf("IDs not sorted: %v", got)
	}
	if a.Equal(NewOpenSet("a")) {
		t.Error("sets of different size compare equal")
	}
}
