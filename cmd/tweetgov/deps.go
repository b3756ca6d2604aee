// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/tweetgov/tweetgov/internal/config"
	"github.com/tweetgov/tweetgov/internal/store"
)

// Deps contains injectable dependencies for the CLI.
// All fields with nil values will use their default implementations.
type Deps struct {
	// Open builds the services for one command.
	// Default: openPostgres
	Open func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services, error)

	// NewMigrator creates a schema migrator.
	// Default: store.NewMigrator
	NewMigrator func(databaseURL string) (migrator, error)

	// Getenv reads the environment.
	// Default: os.Getenv
	Getenv func(string) string
}

func (d Deps) withDefaults() Deps {
	if d.Open == nil {
		d.Open = openPostgres
	}
	if d.NewMigrator == nil {
		d.NewMigrator = func(databaseURL string) (migrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	return d
}

// migrator is the subset of *store.Migrator the migrate command uses.
type migrator interface {
	Up() error
	Down() error
	Version() (version uint, dirty bool, err error)
	Force(version int) error
	Pending() ([]uint, error)
	Close() error
}
