package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/export"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

func newExportCmd(a *app) *cobra.Command {
	var vf viewFlags
	var output, format, title string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart as SVG, PNG, JSON, Markdown or Mermaid",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return withCode(exitUsage, fmt.Errorf("--output is required"))
			}
			f := strings.ToLower(format)
			if f == "" {
				f = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}
			return a.withForest(cmd.Context(), func(_ *datasource.Source, forest model.Forest) error {
				tree := vf.materialize(a, forest)
				if err := writeExport(output, f, title, a, tree); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
				return nil
			})
		},
	}
	vf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg, png, json, md or mermaid (default from extension)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title")
	return cmd
}

func writeExport(path, format, title string, a *app, tree view.DisplayTree) error {
	palette := a.cfg.Palette()
	switch format {
	case "svg", "png", "":
		return export.SaveSnapshot(export.SnapshotOptions{
			Path:    path,
			Format:  format,
			Title:   title,
			Palette: palette,
			Tree:    tree,
		})
	case "md", "markdown":
		return export.SaveMarkdownToFile(tree, title, palette, path)
	case "mmd", "mermaid":
		return writeFile(path, []byte(export.GenerateMermaid(tree, palette)))
	case "json":
		f, err := createFile(path)
		if err != nil {
			return err
		}
		if err := export.WriteJSON(f, tree); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return withCode(exitUsage, fmt.Errorf("unknown export format %q", format))
	}
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return os.Create(path)
}

func writeFile(path string, data []byte) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
