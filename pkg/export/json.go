package export

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// TreeDocument is the JSON shape shared by `orgchart tree --json` and the
// HTTP API.
type TreeDocument struct {
	view.DisplayTree
	Message string `json:"message,omitempty"`
}

// NewTreeDocument wraps tree with its empty-state message.
func NewTreeDocument(tree view.DisplayTree) TreeDocument {
	return TreeDocument{DisplayTree: tree, Message: tree.Message()}
}

// WriteJSON encodes the display tree as indented JSON.
func WriteJSON(w io.Writer, tree view.DisplayTree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewTreeDocument(tree))
}
