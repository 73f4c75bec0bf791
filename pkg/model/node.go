package model

// TreeNode is a person in the canonical org tree. Children are owned by the
// node; there are no parent back-references. Nodes are never mutated after
// the builder returns them.
type TreeNode struct {
	PersonRecord
	Children []*TreeNode `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no direct reports.
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Forest is an ordered list of independent trees.
type Forest []*TreeNode

// Len returns the number of roots.
func (f Forest) Len() int {
	return len(f)
}
