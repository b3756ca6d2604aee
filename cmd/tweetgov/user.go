// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"errors"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and their roles",
	}
	cmd.AddCommand(newUserAddCmd(a), newUserSeedCmd(a), newUserShowCmd(a))
	return cmd
}

func newUserAddCmd(a *app) *cobra.Command {
	var username, role string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Args:  exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := access.ParseRole(role)
			if err != nil {
				return err
			}
			u, err := access.NewUser(username, r, time.Now())
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.registry.Register(cmd.Context(), u); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewUser(u))
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username (3-30 characters, letter first)")
	cmd.Flags().StringVar(&role, "role", access.RoleRegular.String(), "role: regular, admin or super-admin")
	return cmd
}

func newUserShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user by name",
		Args:  exactArgs("username"),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			u, err := svc.users.GetByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), viewUser(u))
		},
	}
}

// seedFile is the layout of a user seed file.
type seedFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
}

func newUserSeedCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the users listed in a YAML file",
		Long: `Creates every user listed in the seed file. Users whose name is
already taken are skipped, so the command can be run repeatedly.

  users:
    - username: alice
      role: regular
    - username: mod
      role: admin`,
		Args: exactArgs(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				return errutil.InvalidArgument("file", "seed file is required")
			}
			users, err := readSeed(path)
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			created := make([]userView, 0, len(users))
			for _, u := range users {
				existing, err := svc.users.GetByUsername(cmd.Context(), u.Username)
				if err == nil {
					if existing.Role != u.Role {
						a.logger.Warn("seed user exists with a different role",
							"username", u.Username, "expected", u.Role.String(), "actual", existing.Role.String())
					}
					cmd.PrintErrf("User %s already exists, skipping\n", u.Username)
					continue
				}
				if !errors.Is(err, errutil.ErrNotFound) {
					return err
				}
				if err := svc.registry.Register(cmd.Context(), u); err != nil {
					return err
				}
				created = append(created, viewUser(u))
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "seed file path")
	return cmd
}

// readSeed parses and validates every entry before anything is written.
func readSeed(path string) ([]*access.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errutil.InvalidArgument("file", "malformed seed file: "+err.Error())
	}

	now := time.Now()
	users := make([]*access.User, 0, len(f.Users))
	for _, entry := range f.Users {
		r, err := access.ParseRole(entry.Role)
		if err != nil {
			return nil, err
		}
		u, err := access.NewUser(entry.Username, r, now)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
