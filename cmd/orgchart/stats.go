package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/metrics"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/stats"
	"github.com/vanderheijden86/orgchart/pkg/view"
)

func newStatsCmd(a *app) *cobra.Command {
	var top int
	var asJSON, timings bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForest(cmd.Context(), func(_ *datasource.Source, forest model.Forest) error {
				report, err := stats.Compute(forest, stats.Options{
					Sections: a.cfg.SectionSet(),
					TopN:     top,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(report); err != nil {
						return err
					}
				} else if err := report.WriteText(out); err != nil {
					return err
				}
				if timings {
					// One default render so the report covers the view path.
					tree := a.cfg.Materializer().Materialize(forest, "", view.OpenSet{})
					fmt.Fprintf(out, "\nvisible nodes: %d\n\n", tree.Count())
					return metrics.WriteReport(out)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 5, "Managers to list by reach")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&timings, "timings", false, "Append timing metrics for this run")
	return cmd
}
