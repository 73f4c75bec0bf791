package orgtree

import (
	"testing"

	"github.com/vanderheijden86/orgchart/pkg/model"
)

func rec(id, mgr string) model.PersonRecord {
	return model.PersonRecord{ID: id, ManagerID: mgr, DisplayName: "person " + id}
}

func rootIDs(f model.Forest) []string {
	ids := make([]string, 0, len(f))
	for _, r := range f {
		ids = append(ids, r.ID)
	}
	return ids
}

func childIDs(n *model.TreeNode) []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuild_Empty(t *testing.T) {
	if f := Build(nil, DefaultOptions()); len(f) != 0 {
		t.Fatalf("expected empty forest, got %d roots", len(f))
	}
	only := []model.PersonRecord{{ID: "  "}, {ID: ""}}
	if f := Build(only, DefaultOptions()); len(f) != 0 {
		t.Fatalf("expected blank ids to be dropped, got %d roots", len(f))
	}
}

func TestBuild_SimpleHierarchy(t *testing.T) {
	f := Build([]model.PersonRecord{
		rec("1", ""),
		rec("2", "1"),
		rec("3", "1"),
		rec("4", "2"),
	}, DefaultOptions())

	if got := rootIDs(f); !equalStrings(got, []string{"1"}) {
		t.Fatalf("roots = %v, want [1]", got)
	}
	if got := childIDs(f[0]); !equalStrings(got, []string{"2", "3"}) {
		t.Errorf("children of 1 = %v, want [2 3]", got)
	}
	if got := childIDs(f[0].Children[0]); !equalStrings(got, []string{"4"}) {
		t.Errorf("children of 2 = %v, want [4]", got)
	}
}

func TestBuild_SelfReferenceIsRoot(t *testing.T) {
	f := Build([]model.PersonRecord{rec("1", "1"), rec("2", "1")}, DefaultOptions())
	if got := rootIDs(f); !equalStrings(got, []string{"1"}) {
		t.Fatalf("roots = %v, want [1]", got)
	}
	if got := childIDs(f[0]); !equalStrings(got, []string{"2"}) {
		t.Errorf("children = %v, want [2]", got)
	}
}

func TestBuild_ForwardReference(t *testing.T) {
	f := Build([]model.PersonRecord{rec("2", "1"), rec("1", "")}, DefaultOptions())
	if got := rootIDs(f); !equalStrings(got, []string{"1"}) {
		t.Fatalf("roots = %v, want [1]", got)
	}
	if got := childIDs(f[0]); !equalStrings(got, []string{"2"}) {
		t.Errorf("children of 1 = %v, want [2]", got)
	}
}

func TestBuild_TwoCycle(t *testing.T) {
	f := Build([]model.PersonRecord{rec("A", "B"), rec("B", "A")}, DefaultOptions())
	if len(f) != 1 {
		t.Fatalf("expected exactly one root, got %v", rootIDs(f))
	}
	if CountNodes(f) != 2 {
		t.Fatalf("expected 2 nodes, got %d", CountNodes(f))
	}
	// A is linked first, so B cannot also be linked under A.
	if f[0].ID != "B" || !equalStrings(childIDs(f[0]), []string{"A"}) {
		t.Errorf("expected B -> A, got root %s with %v", f[0].ID, childIDs(f[0]))
	}
}

func TestBuild_LongCycle(t *testing.T) {
	f := Build([]model.PersonRecord{
		rec("a", "c"),
		rec("b", "a"),
		rec("c", "b"),
		rec("d", "c"),
	}, DefaultOptions())
	if CountNodes(f) != 4 {
		t.Fatalf("expected 4 nodes, got %d", CountNodes(f))
	}
	if got := rootIDs(f); !equalStrings(got, []string{"c"}) {
		t.Fatalf("roots = %v, want [c]", got)
	}
	assertAcyclic(t, f)
}

func TestBuild_UnknownManagerIsRoot(t *testing.T) {
	f := Build([]model.PersonRecord{rec("1", ""), rec("2", "404")}, DefaultOptions())
	if got := rootIDs(f); !equalStrings(got, []string{"1", "2"}) {
		t.Errorf("roots = %v, want [1 2]", got)
	}
}

func TestBuild_DuplicateKeepsFirst(t *testing.T) {
	f := Build([]model.PersonRecord{
		{ID: "1", DisplayName: "first"},
		{ID: "1", DisplayName: "second"},
	}, DefaultOptions())
	if CountNodes(f) != 1 {
		t.Fatalf("expected 1 node, got %d", CountNodes(f))
	}
	if f[0].DisplayName != "first" {
		t.Errorf("expected first record to win, got %q", f[0].DisplayName)
	}
}

func TestBuild_TrimsIDs(t *testing.T) {
	f := Build([]model.PersonRecord{rec(" 1 ", ""), rec("2", " 1")}, DefaultOptions())
	if got := rootIDs(f); !equalStrings(got, []string{"1"}) {
		t.Fatalf("roots = %v, want [1]", got)
	}
	if len(f[0].Children) != 1 {
		t.Errorf("expected trimmed manager id to link")
	}
}

func TestBuild_CorporateRollup(t *testing.T) {
	records := []model.PersonRecord{
		{ID: "top"},
		{ID: "mid", ManagerID: "top"},
		{ID: "leaf", ManagerID: "mid", CorporateUnit: "Acme"},
	}

	tests := []struct {
		name    string
		opts    Options
		wantMid string
		wantTop string
	}{
		{"enabled fills one level", Options{CorporateRollup: true}, "Acme", ""},
		{"disabled leaves blanks", Options{CorporateRollup: false}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := Index(Build(records, tt.opts))
			if got := idx["mid"].CorporateUnit; got != tt.wantMid {
				t.Errorf("mid corporate = %q, want %q", got, tt.wantMid)
			}
			if got := idx["top"].CorporateUnit; got != tt.wantTop {
				t.Errorf("top corporate = %q, want %q", got, tt.wantTop)
			}
		})
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	records := []model.PersonRecord{{ID: " 1 "}, {ID: "2", ManagerID: "1"}}
	Build(records, DefaultOptions())
	if records[0].ID != " 1 " {
		t.Errorf("input record modified: %q", records[0].ID)
	}
}

func assertAcyclic(t *testing.T, f model.Forest) {
	t.Helper()
	seen := make(map[*model.TreeNode]bool)
	Walk(f, func(n *model.TreeNode, _ int) bool {
		if seen[n] {
			t.Fatalf("node %q reached twice", n.ID)
		}
		seen[n] = true
		return true
	})
}
