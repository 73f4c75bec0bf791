package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/orgchart/pkg/view"
)

// Theme holds the colours and pre-computed styles of the chart view.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Corporate lipgloss.AdaptiveColor
	Team      lipgloss.AdaptiveColor
	Person    lipgloss.AdaptiveColor
	Match     lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	Guide     lipgloss.Style // tree connectors
	MutedText lipgloss.Style
	MatchText lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Pane      lipgloss.Style
	Empty     lipgloss.Style
}

// DefaultTheme returns the adaptive light/dark theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#0056B3", Dark: "#6CB4FF"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},

		Corporate: lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF9999"},
		Team:      lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFA500"},
		Person:    lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"},
		Match:     lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(t.Person)
	t.Selected = r.NewStyle().Background(t.Highlight).Bold(true)
	t.Header = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Guide = r.NewStyle().Foreground(t.Border)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.MatchText = r.NewStyle().Foreground(t.Match).Bold(true)
	t.Status = r.NewStyle().Foreground(t.Subtext)
	t.Error = r.NewStyle().Foreground(t.Danger)
	t.Pane = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.Empty = r.NewStyle().Foreground(t.Subtext).Italic(true).Padding(1, 2)
	return t
}

// NodeStyle picks the label style for a display node.
func (t Theme) NodeStyle(n view.Node) lipgloss.Style {
	s := t.Renderer.NewStyle()
	switch n.Section {
	case view.SectionCorporate:
		s = s.Foreground(t.Corporate).Bold(true)
	case view.SectionTeam:
		s = s.Foreground(t.Team).Bold(true)
	default:
		s = s.Foreground(t.Person)
	}
	if n.Match == view.MatchName || n.Match == view.MatchTeam {
		s = s.Underline(true)
	}
	return s
}
