package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/orgchart/pkg/model"
)

// AssertRecordCount verifies the expected number of records.
func AssertRecordCount(t *testing.T, records []model.PersonRecord, expected int) {
	t.Helper()
	if len(records) != expected {
		t.Errorf("expected %d records, got %d", expected, len(records))
	}
}

// AssertNoDuplicateIDs verifies all record ids are unique.
func AssertNoDuplicateIDs(t *testing.T, records []model.PersonRecord) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.ID] {
			t.Errorf("duplicate record id: %s", r.ID)
		}
		seen[r.ID] = true
	}
}

// AssertEachIDOnce verifies every non-blank input id appears exactly once in
// the forest and nothing else does.
func AssertEachIDOnce(t *testing.T, forest model.Forest, records []model.PersonRecord) {
	t.Helper()
	want := make(map[string]bool)
	for _, r := range records {
		if id := strings.TrimSpace(r.ID); id != "" {
			want[id] = true
		}
	}
	seen := make(map[string]int)
	var visit func(n *model.TreeNode)
	visit = func(n *model.TreeNode) {
		seen[n.ID]++
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range forest {
		visit(r)
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("id %s appears %d times", id, count)
		}
		if !want[id] {
			t.Errorf("unexpected id %s in forest", id)
		}
	}
	for id := range want {
		if seen[id] == 0 {
			t.Errorf("id %s missing from forest", id)
		}
	}
}

// AssertReportsTo verifies that child sits directly under manager.
func AssertReportsTo(t *testing.T, forest model.Forest, child, manager string) {
	t.Helper()
	n := FindNode(forest, manager)
	if n == nil {
		t.Errorf("manager %s not found", manager)
		return
	}
	for _, c := range n.Children {
		if c.ID == child {
			return
		}
	}
	t.Errorf("expected %s to report to %s", child, manager)
}

// AssertRoots verifies the forest's root ids in order.
func AssertRoots(t *testing.T, forest model.Forest, ids ...string) {
	t.Helper()
	got := make([]string, len(forest))
	for i, r := range forest {
		got[i] = r.ID
	}
	if strings.Join(got, ",") != strings.Join(ids, ",") {
		t.Errorf("roots = %v, want %v", got, ids)
	}
}

// FindNode returns the node with id, or nil.
func FindNode(forest model.Forest, id string) *model.TreeNode {
	for _, r := range forest {
		if r.ID == id {
			return r
		}
		if n := FindNode(r.Children, id); n != nil {
			return n
		}
	}
	return nil
}

// AssertJSONEqual compares two values by their JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file mismatch (length differs)")
}

// WriteCSVFile writes records as a seed table under dir and returns its path.
func WriteCSVFile(t *testing.T, dir string, records []model.PersonRecord) string {
	t.Helper()
	path := filepath.Join(dir, "users.csv")
	if err := os.WriteFile(path, []byte(ToCSV(records)), 0o644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}

// IDs returns record ids in order.
func IDs(records []model.PersonRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
