package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
)

// confirmFunc asks the user to approve a destructive action.
type confirmFunc func(title, description string) (bool, error)

func huhConfirm(title, description string) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Value(&ok).
				Affirmative("Replace").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

func newImportCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the persisted records with a CSV or XLSX table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			records, err := loader.LoadFile(path, a.parseOptions())
			if err != nil {
				return withCode(exitUsage, err)
			}
			if len(records) == 0 {
				return withCode(exitNoData, fmt.Errorf("%s has no records", path))
			}
			forest := orgtree.Build(records, a.cfg.BuildOptions())

			if !yes {
				ok, err := a.confirm(
					fmt.Sprintf("Replace the chart with %s?", path),
					fmt.Sprintf("%d rows, %d people in the chart, %d roots.", len(records), orgtree.CountNodes(forest), len(forest)),
				)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "import cancelled")
					return nil
				}
			}

			src, closeFn, err := a.openSource()
			if err != nil {
				return err
			}
			defer closeFn()
			if err := src.Replace(cmd.Context(), records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d records (%d in chart)\n", len(records), orgtree.CountNodes(forest))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
