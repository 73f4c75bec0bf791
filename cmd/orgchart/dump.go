package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/pkg/directory"
)

func newDumpCmd(a *app) *cobra.Command {
	var output, previous, key string
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Fetch users from the directory API and write a merged CSV",
		Long: `Fetch users from Microsoft Graph and merge them with the previous table.

Curated id and manager_id values are kept for people matched by the merge
key; new people get blank ids to fill in by hand. Credentials come from
TENANT_ID, CLIENT_ID and CLIENT_SECRET, read from the environment after
loading .env files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = a.cfg.Directory.Output
			}
			if previous == "" {
				previous = output
			}
			if key == "" {
				key = a.cfg.Directory.MergeKey
			}
			mk, err := directory.ParseMergeKey(key)
			if err != nil {
				return withCode(exitUsage, err)
			}
			creds, err := directory.LoadCredentials(envFiles...)
			if err != nil {
				return withCode(exitUsage, err)
			}

			client := directory.NewClient(cmd.Context(), creds)
			res, err := directory.Dump(cmd.Context(), client, directory.DumpOptions{
				Previous: previous,
				Output:   output,
				Key:      mk,
				Columns:  a.cfg.LoaderColumns(),
			})
			if err != nil {
				return withCode(exitRemote, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d users to %s (%d with ids)\n", res.Users, res.Path, res.Matched)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV (default from config)")
	cmd.Flags().StringVar(&previous, "previous", "", "Table to merge with (default: the output file)")
	cmd.Flags().StringVar(&key, "merge-key", "", "Match people by name or email")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load (default .env, .env.local)")
	return cmd
}
