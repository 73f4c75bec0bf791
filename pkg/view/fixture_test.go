package view

import (
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
)

// fixtureRecords is a small org with two corporate sections, one team
// section and a few people.
//
//	1 김대표 (CEO)
//	├── 100 Acme Korea [corporate]
//	│   └── 2 Park Min-jun (Engineering Lead, Platform)
//	│       └── 3 Lee Ji-eun (Engineer, Platform)
//	├── 101 Acme Japan [corporate]
//	│   └── 103 디자인팀 [team, Design Studio]
//	│       └── 4 Sato Yuki (Designer)
//	└── 5 Choi Su-bin (CFO)
func fixtureRecords() []model.PersonRecord {
	return []model.PersonRecord{
		{ID: "1", DisplayName: "김대표", Title: "CEO"},
		{ID: "100", ManagerID: "1", DisplayName: "Acme Korea", CorporateUnit: "Acme Korea"},
		{ID: "2", ManagerID: "100", DisplayName: "Park Min-jun", Title: "Engineering Lead", Team: "Platform", Email: "park@example.com"},
		{ID: "3", ManagerID: "2", DisplayName: "Lee Ji-eun", Title: "Engineer", Team: "Platform"},
		{ID: "101", ManagerID: "1", DisplayName: "Acme Japan", CorporateUnit: "Acme Japan"},
		{ID: "103", ManagerID: "101", DisplayName: "디자인팀", Team: "Design Studio"},
		{ID: "4", ManagerID: "103", DisplayName: "Sato Yuki", Title: "Designer", Email: "sato@example.com"},
		{ID: "5", ManagerID: "1", DisplayName: "Choi Su-bin", Title: "CFO", Email: "choi@example.com"},
	}
}

func fixtureForest() model.Forest {
	return orgtree.Build(fixtureRecords(), orgtree.DefaultOptions())
}

func displayedIDs(d DisplayTree) map[string]Node {
	out := make(map[string]Node)
	d.Walk(func(n Node, _ int) {
		out[n.ID] = n
	})
	return out
}

func childIDsOf(n Node) []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func sameIDs(a, b []string) bool {
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
