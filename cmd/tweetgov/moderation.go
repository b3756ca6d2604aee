// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/tweetgov/tweetgov/internal/moderation"
)

func newModerationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "moderation",
		Aliases: []string{"mod"},
		Short:   "File and decide moderation requests",
		Long: `Admins file requests to update or delete any user's post. A
super-admin approves or rejects each request exactly once.`,
	}
	cmd.PersistentFlags().String("as", "", "id of the acting admin or super-admin")

	cmd.AddCommand(&cobra.Command{
		Use:   "request-update <post-id> <text>",
		Short: "Ask to replace a post's text (admin)",
		Args:  exactArgs("post-id", "text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			ctx, admin, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			r, err := svc.engine.RequestUpdate(ctx, admin, id, args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewRequest(r))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "request-delete <post-id>",
		Short: "Ask to delete a post (admin)",
		Args:  exactArgs("post-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			ctx, admin, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			r, err := svc.engine.RequestDelete(ctx, admin, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewRequest(r))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decide <request-id> approve|reject",
		Short: "Approve or reject a pending request (super-admin)",
		Args:  exactArgs("request-id", "decision"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("request-id", args[0])
			if err != nil {
				return err
			}
			decision, err := moderation.ParseDecision(args[1])
			if err != nil {
				return err
			}
			ctx, superAdmin, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			r, err := svc.processor.Decide(ctx, superAdmin, id, decision)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewRequest(r))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <request-id>",
		Short: "Show one request (admin or super-admin)",
		Args:  exactArgs("request-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("request-id", args[0])
			if err != nil {
				return err
			}
			ctx, viewer, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			r, err := svc.engine.Get(ctx, viewer, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewRequest(r))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List pending requests, oldest first (super-admin)",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, superAdmin, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			rs, err := svc.engine.ListPending(ctx, superAdmin)
			if err != nil {
				return err
			}
			views := make([]requestView, 0, len(rs))
			for _, r := range rs {
				views = append(views, viewRequest(r))
			}
			return printJSON(cmd.OutOrStdout(), views)
		},
	})
	return cmd
}
