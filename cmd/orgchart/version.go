package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/pkg/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "orgchart %s\n", version.Version)
			return err
		},
	}
}
