package orgtree

import (
	"testing"

	"github.com/vanderheijden86/orgchart/pkg/model"
)

func sampleForest() model.Forest {
	return Build([]model.PersonRecord{
		rec("1", ""),
		rec("2", "1"),
		rec("3", "2"),
		rec("4", "1"),
		rec("9", ""),
	}, DefaultOptions())
}

func TestCountAndDepth(t *testing.T) {
	f := sampleForest()
	if got := CountNodes(f); got != 5 {
		t.Errorf("CountNodes = %d, want 5", got)
	}
	if got := Depth(f); got != 3 {
		t.Errorf("Depth = %d, want 3", got)
	}
	if got := Depth(nil); got != 0 {
		t.Errorf("Depth(nil) = %d, want 0", got)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	var visited []string
	Walk(sampleForest(), func(n *model.TreeNode, _ int) bool {
		visited = append(visited, n.ID)
		return n.ID != "2"
	})
	if want := []string{"1", "2", "4", "9"}; !equalStrings(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestPathTo(t *testing.T) {
	f := sampleForest()
	path := PathTo(f, "3")
	var ids []string
	for _, n := range path {
		ids = append(ids, n.ID)
	}
	if want := []string{"1", "2", "3"}; !equalStrings(ids, want) {
		t.Errorf("PathTo(3) = %v, want %v", ids, want)
	}
	if PathTo(f, "missing") != nil {
		t.Error("expected nil path for unknown id")
	}
}

func TestRecordsPreOrder(t *testing.T) {
	var ids []string
	for _, r := range Records(sampleForest()) {
		ids = append(ids, r.ID)
	}
	if want := []string{"1", "2", "3", "4", "9"}; !equalStrings(ids, want) {
		t.Errorf("Records = %v, want %v", ids, want)
	}
}
