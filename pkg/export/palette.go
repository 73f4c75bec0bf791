// Package export writes a materialized org chart to static formats: SVG and
// PNG snapshots, JSON, a Markdown outline and Mermaid.
package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// Palette holds node fill colours as #rrggbb strings.
type Palette struct {
	// Sections overrides the fill of individual section ids.
	Sections  map[string]string
	Corporate string
	Team      string
	Person    string
}

// DefaultPalette matches the reference chart: the first two corporate units
// blue and green, other corporate units pink, teams orange, people grey.
func DefaultPalette() Palette {
	return Palette{
		Sections: map[string]string{
			"100": "#007bff",
			"101": "#28a745",
		},
		Corporate: "#ff9999",
		Team:      "#ffa500",
		Person:    "#e0e0e0",
	}
}

// Fill returns the fill colour for n.
func (p Palette) Fill(n view.Node) string {
	if c, ok := p.Sections[n.ID]; ok && n.IsSection() {
		return c
	}
	switch n.Section {
	case view.SectionCorporate:
		return p.Corporate
	case view.SectionTeam:
		return p.Team
	default:
		return p.Person
	}
}

var (
	colorStroke   = color.RGBA{0x44, 0x44, 0x44, 0xff}
	colorLink     = color.RGBA{0x55, 0x55, 0x55, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x55, 0x55, 0x55, 0xff}
	colorBackdrop = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorMatch    = color.RGBA{0xd9, 0x48, 0x1f, 0xff}
)

// parseHex converts #rgb or #rrggbb to a colour, falling back to grey.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	var r, g, b uint8
	if len(s) != 6 {
		return color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	}
	return color.RGBA{r, g, b, 0xff}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
