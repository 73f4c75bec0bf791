package orgtree

import "github.com/vanderheijden86/orgchart/pkg/model"

// WalkFunc is called for every node in pre-order. Returning false skips the
// node's children.
type WalkFunc func(n *model.TreeNode, depth int) bool

// Walk visits the forest depth-first in pre-order.
func Walk(forest model.Forest, fn WalkFunc) {
	for _, root := range forest {
		walk(root, 0, fn)
	}
}

func walk(n *model.TreeNode, depth int, fn WalkFunc) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// CountNodes returns the number of nodes reachable from the roots.
func CountNodes(forest model.Forest) int {
	count := 0
	Walk(forest, func(*model.TreeNode, int) bool {
		count++
		return true
	})
	return count
}

// Depth returns the number of levels in the deepest tree, 0 for an empty
// forest.
func Depth(forest model.Forest) int {
	max := 0
	Walk(forest, func(_ *model.TreeNode, depth int) bool {
		if depth+1 > max {
			max = depth + 1
		}
		return true
	})
	return max
}

// Index maps every reachable id to its node.
func Index(forest model.Forest) map[string]*model.TreeNode {
	idx := make(map[string]*model.TreeNode)
	Walk(forest, func(n *model.TreeNode, _ int) bool {
		idx[n.ID] = n
		return true
	})
	return idx
}

// PathTo returns the chain of nodes from a root down to id, or nil when id
// is not in the forest.
func PathTo(forest model.Forest, id string) []*model.TreeNode {
	for _, root := range forest {
		if path := pathTo(root, id, nil); path != nil {
			return path
		}
	}
	return nil
}

func pathTo(n *model.TreeNode, id string, prefix []*model.TreeNode) []*model.TreeNode {
	prefix = append(prefix, n)
	if n.ID == id {
		out := make([]*model.TreeNode, len(prefix))
		copy(out, prefix)
		return out
	}
	for _, c := range n.Children {
		if path := pathTo(c, id, prefix); path != nil {
			return path
		}
	}
	return nil
}

// Records flattens the forest back into records in pre-order.
func Records(forest model.Forest) []model.PersonRecord {
	var out []model.PersonRecord
	Walk(forest, func(n *model.TreeNode, _ int) bool {
		out = append(out, n.PersonRecord)
		return true
	})
	return out
}
