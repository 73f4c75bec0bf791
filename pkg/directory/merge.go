package directory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// MergeKey selects how dumped users are matched to previous rows.
type MergeKey string

const (
	// MergeByName matches on display name. Two people sharing a name will
	// swap curated ids; use MergeByEmail when that matters.
	MergeByName  MergeKey = "name"
	MergeByEmail MergeKey = "email"
)

// ParseMergeKey validates a configured key; empty means MergeByName.
func ParseMergeKey(s string) (MergeKey, error) {
	switch k := MergeKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return MergeByName, nil
	case MergeByName, MergeByEmail:
		return k, nil
	default:
		return "", fmt.Errorf("unknown merge key %q (want name or email)", s)
	}
}

func (k MergeKey) of(r model.PersonRecord) string {
	if k == MergeByEmail {
		return strings.ToLower(strings.TrimSpace(r.Email))
	}
	return strings.TrimSpace(r.DisplayName)
}

var parenGroup = regexp.MustCompile(`\(([^()]*)\)`)

// SplitDepartment derives the corporate unit from the last parenthesised
// group of a department string and the team from what remains.
//
//	"플랫폼팀 (Acme Korea)" -> "Acme Korea", "플랫폼팀"
func SplitDepartment(dept string) (corporateUnit, team string) {
	locs := parenGroup.FindAllStringSubmatchIndex(dept, -1)
	if len(locs) == 0 {
		return "", strings.TrimSpace(dept)
	}
	last := locs[len(locs)-1]
	corporateUnit = strings.TrimSpace(dept[last[2]:last[3]])
	rest := dept[:last[0]] + " " + dept[last[1]:]
	return corporateUnit, strings.Join(strings.Fields(rest), " ")
}

// Record converts a directory user into a table row without id or manager.
func (u User) Record() model.PersonRecord {
	corp, team := SplitDepartment(u.Department)
	return model.PersonRecord{
		DisplayName:   strings.TrimSpace(u.DisplayName),
		Title:         strings.TrimSpace(u.JobTitle),
		CorporateUnit: corp,
		Team:          team,
		Email:         strings.TrimSpace(u.Mail),
	}
}

// Merge builds the new table in directory order. People found in previous
// by key keep their id and manager id; everyone else gets blanks to be
// filled in by hand.
func Merge(previous []model.PersonRecord, users []User, key MergeKey) []model.PersonRecord {
	if key == "" {
		key = MergeByName
	}
	byKey := make(map[string]model.PersonRecord, len(previous))
	for _, p := range previous {
		k := key.of(p)
		if k == "" {
			continue
		}
		if _, dup := byKey[k]; dup {
			debug.Log("directory: duplicate %s %q in previous table, keeping first", key, k)
			continue
		}
		byKey[k] = p
	}

	out := make([]model.PersonRecord, 0, len(users))
	kept := 0
	for _, u := range users {
		rec := u.Record()
		if old, ok := byKey[key.of(rec)]; ok && key.of(rec) != "" {
			rec.ID = old.ID
			rec.ManagerID = old.ManagerID
			kept++
		}
		out = append(out, rec)
	}
	debug.Log("directory: merged %d users, %d matched previous rows", len(out), kept)
	return out
}
