package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/orgchart/pkg/metrics"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

// SnapshotOptions controls static chart export.
type SnapshotOptions struct {
	Path    string // Output path; format inferred from extension when Format empty
	Format  string // "svg" or "png" (case-insensitive)
	Title   string // Rendered in the header block
	Palette Palette
	Tree    view.DisplayTree
}

// SaveSnapshot renders the display tree as an SVG or PNG file. Empty trees
// are rendered with their empty-state message rather than rejected.
func SaveSnapshot(opts SnapshotOptions) error {
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if opts.Palette.Person == "" {
		opts.Palette = DefaultPalette()
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if format == "png" {
		err = WritePNG(f, opts)
	} else {
		err = WriteSVG(f, opts)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteSVG renders the chart as SVG to w.
func WriteSVG(w io.Writer, opts SnapshotOptions) error {
	defer metrics.Timer(metrics.SnapshotRender)()
	if opts.Palette.Person == "" {
		opts.Palette = DefaultPalette()
	}
	layout := buildLayout(opts.Tree, opts.Title)

	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(headerHeight-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(32, 44, layout.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:sans-serif;font-weight:bold", css(colorText)))
	canvas.Text(32, 66, layout.Summary, fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	if layout.Message != "" {
		canvas.Text(layout.Width/2, layout.Height/2, layout.Message,
			fmt.Sprintf("fill:%s;font-size:15px;font-family:sans-serif;text-anchor:middle", css(colorSubtle)))
		canvas.End()
		return nil
	}

	for _, n := range layout.Nodes {
		if n.Parent < 0 {
			continue
		}
		xs, ys := elbow(layout.Nodes[n.Parent], n)
		canvas.Polyline(toInts(xs), toInts(ys), fmt.Sprintf("fill:none;stroke:%s;stroke-width:1.5", css(colorLink)))
	}

	for _, n := range layout.Nodes {
		x, y := int(n.X), int(n.Y)
		stroke := colorStroke
		width := 1.2
		if n.Node.Match == view.MatchName || n.Node.Match == view.MatchTeam {
			stroke, width = colorMatch, 2.5
		}
		fill := parseHex(opts.Palette.Fill(n.Node))
		canvas.Roundrect(x, y, int(nodeW), int(nodeH), 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%.1f", css(fill), css(stroke), width))
		canvas.Text(x+10, y+22, truncate(n.Node.Label(), 22),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:sans-serif;font-weight:bold", css(colorText)))
		canvas.Text(x+10, y+40, truncate(subtitle(n.Node), 24),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:sans-serif", css(colorSubtle)))
		if n.Node.IsSection() {
			canvas.Text(x+10, y+54, sectionLabel(n.Node),
				fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace", css(colorSubtle)))
		}
	}

	canvas.End()
	return nil
}

// WritePNG renders the chart as PNG to w.
func WritePNG(w io.Writer, opts SnapshotOptions) error {
	defer metrics.Timer(metrics.SnapshotRender)()
	if opts.Palette.Person == "" {
		opts.Palette = DefaultPalette()
	}
	layout := buildLayout(opts.Tree, opts.Title)

	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, headerHeight-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Title, 32, 44, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(layout.Summary, 32, 64, 0, 0.5)

	if layout.Message != "" {
		dc.DrawStringAnchored(layout.Message, float64(layout.Width)/2, float64(layout.Height)/2, 0.5, 0.5)
		return dc.EncodePNG(w)
	}

	dc.SetColor(colorLink)
	dc.SetLineWidth(1.5)
	for _, n := range layout.Nodes {
		if n.Parent < 0 {
			continue
		}
		xs, ys := elbow(layout.Nodes[n.Parent], n)
		dc.MoveTo(xs[0], ys[0])
		for i := 1; i < len(xs); i++ {
			dc.LineTo(xs[i], ys[i])
		}
		dc.Stroke()
	}

	for _, n := range layout.Nodes {
		drawNode(dc, n, parseHex(opts.Palette.Fill(n.Node)))
	}
	return dc.EncodePNG(w)
}

func drawNode(dc *gg.Context, n layoutNode, fill color.RGBA) {
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(n.X, n.Y, nodeW, nodeH, 8)
	dc.Fill()
	stroke, width := colorStroke, 1.2
	if n.Node.Match == view.MatchName || n.Node.Match == view.MatchTeam {
		stroke, width = colorMatch, 2.5
	}
	dc.SetColor(stroke)
	dc.SetLineWidth(width)
	dc.DrawRoundedRectangle(n.X, n.Y, nodeW, nodeH, 8)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(truncate(n.Node.Label(), 20), n.X+10, n.Y+16, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(truncate(subtitle(n.Node), 20), n.X+10, n.Y+32, 0, 0.5)
	if n.Node.IsSection() {
		dc.DrawStringAnchored(sectionLabel(n.Node), n.X+10, n.Y+48, 0, 0.5)
	}
}

// subtitle is the second line of a node box: title for people, team or
// corporate unit for sections.
func subtitle(n view.Node) string {
	if n.IsSection() {
		return model.FirstNonEmpty(n.Team, n.CorporateUnit, n.Title)
	}
	return n.Title
}

func toInts(fs []float64) []int {
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = int(f)
	}
	return out
}
