package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
)

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop persisted records and reload the seed table",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, closeFn, err := a.openSource()
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := src.Reset(cmd.Context())
			if errors.Is(err, datasource.ErrNoData) {
				fmt.Fprintln(cmd.OutOrStdout(), "records cleared; no seed table available")
				return nil
			}
			if err != nil {
				return err
			}
			forest := orgtree.Build(records, a.cfg.BuildOptions())
			fmt.Fprintf(cmd.OutOrStdout(), "reset to %d records (%d in chart)\n", len(records), orgtree.CountNodes(forest))
			return nil
		},
	}
}
