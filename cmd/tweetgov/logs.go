// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/tweetgov/tweetgov/internal/access"
)

func newLogsCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Query the audit trail (super-admin)",
		Long: `Prints audit entries as {type, message, asctime}. --type limits the
output to one of access, action or audit.`,
		Args: exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, viewer, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			if err := viewer.Require(access.RoleSuperAdmin, "view audit logs"); err != nil {
				return err
			}
			views, err := svc.logs.GetLogs(ctx, category)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), views)
		},
	}
	cmd.Flags().StringVar(&category, "type", "", "only entries of this type (access, action or audit)")
	cmd.PersistentFlags().String("as", "", "id of the acting super-admin")

	cmd.AddCommand(&cobra.Command{
		Use:   "replay-wal",
		Short: "Re-send audit entries spooled while the log store was unavailable",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			n, err := svc.sink.ReplayWAL(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Replayed %d audit entries from %s\n", n, svc.sink.WALPath())
			return nil
		},
	})
	return cmd
}
