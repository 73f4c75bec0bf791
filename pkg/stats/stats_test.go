package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

func fixture() model.Forest {
	return orgtree.Build([]model.PersonRecord{
		{ID: "1", DisplayName: "김대표", Title: "CEO"},
		{ID: "100", DisplayName: "Acme Korea", ManagerID: "1"},
		{ID: "2", DisplayName: "Park Min-jun", Team: "Platform", CorporateUnit: "Acme Korea", ManagerID: "100"},
		{ID: "3", DisplayName: "Lee Ji-eun", Team: "Platform", ManagerID: "2"},
		{ID: "103", DisplayName: "디자인팀", Team: "Design Studio", ManagerID: "1"},
		{ID: "4", DisplayName: "Sato Yuki", Team: "Design Studio", ManagerID: "103"},
		{ID: "5", DisplayName: "Choi Su-bin", ManagerID: "1"},
	}, orgtree.DefaultOptions())
}

func TestCompute(t *testing.T) {
	r, err := Compute(fixture(), Options{Sections: view.DefaultSections(), TopN: 2})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if r.Nodes != 7 || r.People != 5 || r.Sections != 2 || r.Roots != 1 || r.Depth != 4 {
		t.Errorf("unexpected shape %+v", r)
	}
	if r.Managers != 4 || r.SpanMax != 3 {
		t.Errorf("managers=%d spanMax=%d", r.Managers, r.SpanMax)
	}
	if math.Abs(r.SpanMean-1.5) > 1e-9 {
		t.Errorf("span mean = %f", r.SpanMean)
	}
	if r.SpanMedian != 1 {
		t.Errorf("span median = %f", r.SpanMedian)
	}
	if r.SpanStdDev <= 0 {
		t.Errorf("span stddev = %f", r.SpanStdDev)
	}

	if len(r.Reach) != 2 || r.Reach[0].ID != "1" || r.Reach[0].Descendants != 6 || r.Reach[1].ID != "100" {
		t.Errorf("unexpected reach %+v", r.Reach)
	}
	if len(r.Teams) != 2 || r.Teams[0] != (Count{Label: "Platform", Count: 2}) {
		t.Errorf("unexpected teams %+v", r.Teams)
	}
	if len(r.CorporateUnits) != 1 || r.CorporateUnits[0].Label != "Acme Korea" {
		t.Errorf("unexpected corporate units %+v", r.CorporateUnits)
	}
}

func TestCompute_Empty(t *testing.T) {
	r, err := Compute(nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Nodes != 0 || r.Managers != 0 || len(r.Reach) != 0 {
		t.Errorf("expected empty report, got %+v", r)
	}
}

func TestCompute_SingleManagerHasZeroStdDev(t *testing.T) {
	forest := orgtree.Build([]model.PersonRecord{
		{ID: "a"}, {ID: "b", ManagerID: "a"}, {ID: "c", ManagerID: "a"},
	}, orgtree.DefaultOptions())
	r, err := Compute(forest, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Managers != 1 || r.SpanStdDev != 0 || r.SpanMean != 2 {
		t.Errorf("unexpected span stats %+v", r)
	}
}

func TestReportWriteText(t *testing.T) {
	r, err := Compute(fixture(), Options{Sections: view.DefaultSections()})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Nodes:     7 (5 people, 2 sections)", "Largest reach:", "Teams:", "Platform"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}
