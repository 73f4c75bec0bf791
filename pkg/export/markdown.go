package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// GenerateMarkdown renders the display tree as a nested outline with a
// summary table and a Mermaid diagram.
func GenerateMarkdown(tree view.DisplayTree, title string, palette Palette) string {
	if title == "" {
		title = "Organization Chart"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(time.RFC1123)))

	if tree.Empty() {
		sb.WriteString(fmt.Sprintf("> %s\n", tree.Message()))
		return sb.String()
	}

	people, corporate, teams, collapsed := 0, 0, 0, 0
	tree.Walk(func(n view.Node, _ int) {
		switch n.Section {
		case view.SectionCorporate:
			corporate++
		case view.SectionTeam:
			teams++
		default:
			people++
		}
		if n.IsSection() && !n.Open {
			collapsed++
		}
	})

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Shown** | %d |\n", tree.Count()))
	sb.WriteString(fmt.Sprintf("| People | %d |\n", people))
	sb.WriteString(fmt.Sprintf("| Corporate units | %d |\n", corporate))
	sb.WriteString(fmt.Sprintf("| Teams | %d |\n", teams))
	sb.WriteString(fmt.Sprintf("| Collapsed | %d |\n", collapsed))
	if tree.Query != "" {
		sb.WriteString(fmt.Sprintf("| Matches for `%s` | %d |\n", tree.Query, tree.Matches))
	}
	sb.WriteString("\n")

	sb.WriteString("## Outline\n\n")
	tree.Walk(func(n view.Node, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString("- ")
		sb.WriteString(outlineLine(n))
		sb.WriteString("\n")
	})
	sb.WriteString("\n")

	sb.WriteString("## Diagram\n\n```mermaid\n")
	sb.WriteString(GenerateMermaid(tree, palette))
	sb.WriteString("```\n")
	return sb.String()
}

func outlineLine(n view.Node) string {
	label := escapeMarkdown(n.Label())
	if n.Match == view.MatchName || n.Match == view.MatchTeam {
		label = "**" + label + "**"
	}
	var parts []string
	parts = append(parts, label)
	if n.Title != "" {
		parts = append(parts, escapeMarkdown(n.Title))
	}
	if n.IsSection() {
		state := "collapsed"
		if n.Open {
			state = "open"
		}
		if n.Hidden > 0 {
			state += fmt.Sprintf(", %d hidden", n.Hidden)
		}
		parts = append(parts, fmt.Sprintf("_(%s %s, %s)_", n.Section, n.ID, state))
	} else if n.Email != "" {
		parts = append(parts, fmt.Sprintf("<%s>", n.Email))
	}
	return strings.Join(parts, " · ")
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[", "]", "\\]").Replace(s)
}

// SaveMarkdownToFile writes the Markdown outline to filename.
func SaveMarkdownToFile(tree view.DisplayTree, title string, palette Palette, filename string) error {
	return os.WriteFile(filename, []byte(GenerateMarkdown(tree, title, palette)), 0o644)
}
