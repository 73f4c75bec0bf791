package export

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// GenerateMermaid renders the display tree as a left-to-right Mermaid
// flowchart. Node ids are sanitized and deduplicated deterministically.
func GenerateMermaid(tree view.DisplayTree, palette Palette) string {
	if palette.Person == "" {
		palette = DefaultPalette()
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString(fmt.Sprintf("    classDef corporate fill:%s,stroke:#333,color:#000\n", palette.Corporate))
	sb.WriteString(fmt.Sprintf("    classDef team fill:%s,stroke:#333,color:#000\n", palette.Team))
	sb.WriteString(fmt.Sprintf("    classDef person fill:%s,stroke:#333,color:#000\n", palette.Person))
	sb.WriteString("    classDef match stroke:#d9481f,stroke-width:3px\n")

	if tree.Empty() {
		sb.WriteString(fmt.Sprintf("    empty[\"%s\"]\n", sanitizeMermaidText(tree.Message())))
		return sb.String()
	}
	sb.WriteString("\n")

	// Ids repeat only when records share one after sanitizing, so the first
	// occurrence keeps the plain form.
	used := make(map[string]bool)
	safeID := func(orig string, seq int) string {
		base := sanitizeMermaidID(orig)
		if !used[base] {
			used[base] = true
			return base
		}
		h := fnv.New32a()
		_, _ = fmt.Fprintf(h, "%s#%d", orig, seq)
		safe := fmt.Sprintf("%s_%x", base, h.Sum32())
		used[safe] = true
		return safe
	}

	var edges []string
	seq := 0
	var visit func(n view.Node, parent string)
	visit = func(n view.Node, parent string) {
		seq++
		id := safeID(n.ID, seq)
		label := sanitizeMermaidText(n.Label())
		if n.Title != "" {
			label += "<br/>" + sanitizeMermaidText(n.Title)
		}
		if n.IsSection() && !n.Open && n.Hidden > 0 {
			label += fmt.Sprintf("<br/>+%d", n.Hidden)
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))

		class := "person"
		switch n.Section {
		case view.SectionCorporate:
			class = "corporate"
		case view.SectionTeam:
			class = "team"
		}
		sb.WriteString(fmt.Sprintf("    class %s %s\n", id, class))
		if c, ok := palette.Sections[n.ID]; ok && n.IsSection() {
			sb.WriteString(fmt.Sprintf("    style %s fill:%s\n", id, c))
		}
		if n.Match == view.MatchName || n.Match == view.MatchTeam {
			sb.WriteString(fmt.Sprintf("    class %s match\n", id))
		}

		if parent != "" {
			edges = append(edges, fmt.Sprintf("    %s --> %s\n", parent, id))
		}
		for _, c := range n.Children {
			visit(c, id)
		}
	}
	for _, r := range tree.Roots {
		visit(r, "")
	}

	if len(edges) > 0 {
		sb.WriteString("\n")
		for _, e := range edges {
			sb.WriteString(e)
		}
	}
	return sb.String()
}

// sanitizeMermaidID keeps letters, digits, '-' and '_'.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	result := sb.String()
	if result == "" {
		return "node"
	}
	if unicode.IsDigit([]rune(result)[0]) {
		return "n" + result
	}
	return result
}

// sanitizeMermaidText prepares text for use in Mermaid node labels.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)
	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)
	return truncate(strings.TrimSpace(result), 40)
}
