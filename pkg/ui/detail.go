package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// detailMarkdown describes the selected node for the side pane.
func detailMarkdown(n view.Node) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", n.Label()))
	if n.Title != "" {
		sb.WriteString(fmt.Sprintf("*%s*\n\n", n.Title))
	}

	field := func(name, value string) {
		if value != "" {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", name, value))
		}
	}
	field("ID", n.ID)
	field("Manager", n.ManagerID)
	field("Corporate unit", n.CorporateUnit)
	field("Team", n.Team)
	field("Email", n.Email)
	if n.IsSection() {
		state := "collapsed"
		if n.Open {
			state = "open"
		}
		field("Section", fmt.Sprintf("%s, %s", n.Section, state))
		if n.Hidden > 0 {
			field("Hidden", fmt.Sprintf("%d direct reports", n.Hidden))
		}
	} else {
		field("Direct reports", fmt.Sprintf("%d", len(n.Children)))
	}
	if n.Match != view.MatchNone {
		field("Match", n.Match.String())
	}
	return sb.String()
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderDetail renders markdown with glamour, falling back to the raw text.
func renderDetail(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}
