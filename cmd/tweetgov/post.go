// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"github.com/spf13/cobra"
)

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Create, read and change your own posts",
		Long: `Post commands act for the user given by --as and only ever see that
user's posts. A post owned by someone else is reported as not found.`,
	}
	cmd.PersistentFlags().String("as", "", "id of the acting user")

	cmd.AddCommand(&cobra.Command{
		Use:   "create <text>",
		Short: "Create a post",
		Args:  exactArgs("text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, owner, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			p, err := svc.posts.Create(ctx, owner, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewPost(p))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <post-id>",
		Short: "Show one of your posts",
		Args:  exactArgs("post-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			ctx, owner, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			p, err := svc.posts.Get(ctx, owner, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewPost(p))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your active posts, newest first",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, owner, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			posts, err := svc.posts.List(ctx, owner)
			if err != nil {
				return err
			}
			views := make([]postView, 0, len(posts))
			for _, p := range posts {
				views = append(views, viewPost(p))
			}
			return printJSON(cmd.OutOrStdout(), views)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update <post-id> <text>",
		Short: "Replace the text of one of your posts",
		Args:  exactArgs("post-id", "text"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			ctx, owner, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			if err := svc.posts.UpdateData(ctx, owner, id, args[1]); err != nil {
				return err
			}
			cmd.Printf("Post %s updated\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <post-id>",
		Short: "Soft-delete one of your posts",
		Args:  exactArgs("post-id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("post-id", args[0])
			if err != nil {
				return err
			}
			ctx, owner, svc, err := a.actor(cmd)
			if err != nil {
				return err
			}
			if err := svc.posts.SoftDelete(ctx, owner, id); err != nil {
				return err
			}
			cmd.Printf("Post %s deleted\n", id)
			return nil
		},
	})
	return cmd
}
