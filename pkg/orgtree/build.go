// Package orgtree turns flat person records into the canonical org forest.
//
// Build is total: every record with a non-blank id ends up exactly once in
// the result, either under its manager or as a root when the manager is
// missing, unknown, the record itself, or would close a cycle.
package orgtree

import (
	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/metrics"
	"github.com/vanderheijden86/orgchart/pkg/model"
)

// Options controls optional build passes.
type Options struct {
	// CorporateRollup fills an empty corporate unit on a manager from its
	// first direct report. Only one level is filled.
	CorporateRollup bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{CorporateRollup: true}
}

// Build constructs the forest from records. Roots and children keep input
// order. Later records reusing an id already seen are dropped.
func Build(records []model.PersonRecord, opts Options) model.Forest {
	defer metrics.Timer(metrics.TreeBuild)()

	// Pass 1: index every usable record.
	nodes := make(map[string]*model.TreeNode, len(records))
	order := make([]*model.TreeNode, 0, len(records))
	for _, rec := range records {
		rec = rec.Normalized()
		if rec.ID == "" {
			debug.Log("orgtree: dropping record without id (name=%q)", rec.DisplayName)
			continue
		}
		if _, dup := nodes[rec.ID]; dup {
			debug.Log("orgtree: duplicate id %q, keeping first record", rec.ID)
			continue
		}
		n := &model.TreeNode{PersonRecord: rec}
		nodes[rec.ID] = n
		order = append(order, n)
	}
	if len(order) == 0 {
		return nil
	}

	// Pass 2: link in input order. parentOf only ever holds acyclic links,
	// so the ancestor walk below terminates.
	parentOf := make(map[string]string, len(order))
	var roots model.Forest
	for _, n := range order {
		mgrID := n.ManagerID
		mgr, ok := nodes[mgrID]
		switch {
		case mgrID == "" || mgrID == n.ID:
			roots = append(roots, n)
		case !ok:
			debug.Log("orgtree: %q reports to unknown manager %q, promoting to root", n.ID, mgrID)
			roots = append(roots, n)
		case reaches(parentOf, mgrID, n.ID):
			debug.Log("orgtree: %q -> %q would close a cycle, promoting to root", n.ID, mgrID)
			roots = append(roots, n)
		default:
			parentOf[n.ID] = mgrID
			mgr.Children = append(mgr.Children, n)
		}
	}

	if opts.CorporateRollup {
		rollupCorporateUnit(order)
	}

	debug.Log("orgtree: built %d nodes under %d roots", len(order), len(roots))
	return roots
}

// reaches reports whether walking resolved parent links up from start hits
// target.
func reaches(parentOf map[string]string, start, target string) bool {
	for cur := start; cur != ""; cur = parentOf[cur] {
		if cur == target {
			return true
		}
	}
	return false
}

func rollupCorporateUnit(order []*model.TreeNode) {
	original := make(map[*model.TreeNode]string, len(order))
	for _, n := range order {
		original[n] = n.CorporateUnit
	}
	for _, n := range order {
		if len(n.Children) > 0 && n.CorporateUnit == "" {
			n.CorporateUnit = original[n.Children[0]]
		}
	}
}
