// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/tweetgov/tweetgov/internal/access"
	accesspg "github.com/tweetgov/tweetgov/internal/access/postgres"
	"github.com/tweetgov/tweetgov/internal/audit"
	"github.com/tweetgov/tweetgov/internal/config"
	"github.com/tweetgov/tweetgov/internal/moderation"
	moderationpg "github.com/tweetgov/tweetgov/internal/moderation/postgres"
	"github.com/tweetgov/tweetgov/internal/post"
	postpg "github.com/tweetgov/tweetgov/internal/post/postgres"
	"github.com/tweetgov/tweetgov/internal/store"
)

// services is the object graph one command works with.
type services struct {
	users     access.UserRepository
	registry  *access.Registry
	resolver  *access.Resolver
	posts     *post.Store
	engine    *moderation.Engine
	processor *moderation.Processor
	logs      *audit.QueryService
	sink      *audit.Sink
	close     func()
}

// sinkOptions turns the audit settings into sink options.
func sinkOptions(cfg *config.Config, logger *slog.Logger) []audit.Option {
	opts := []audit.Option{
		audit.WithWriteTimeout(cfg.Audit.WriteTimeout),
		audit.WithDiagnosticLogger(logger),
	}
	if level, err := audit.ParseLevel(cfg.Audit.MinLevel); err == nil {
		opts = append(opts, audit.WithMinLevel(level))
	}
	if cfg.Audit.WALPath != "" {
		opts = append(opts, audit.WithWALPath(cfg.Audit.WALPath))
	}
	return opts
}

// wire builds services over the given repositories.
func wire(
	users access.UserRepository,
	posts post.Repository,
	requests moderation.Repository,
	transactor moderation.Transactor,
	logs interface {
		audit.Writer
		audit.Reader
	},
	cfg *config.Config,
	logger *slog.Logger,
) *services {
	sink := audit.NewSink(logs, sinkOptions(cfg, logger)...)
	postStore := post.NewStore(post.StoreConfig{Repo: posts, Sink: sink, Logger: logger})
	modCfg := moderation.Config{
		Requests:   requests,
		Posts:      postStore,
		Transactor: transactor,
		Sink:       sink,
		Logger:     logger,
	}
	return &services{
		users:     users,
		registry:  access.NewRegistry(users, sink, logger),
		resolver:  access.NewResolver(users),
		posts:     postStore,
		engine:    moderation.NewEngine(modCfg),
		processor: moderation.NewProcessor(modCfg),
		logs:      audit.NewQueryService(logs, logger),
		sink:      sink,
		close:     func() {},
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services, error) {
	pool, err := store.Open(ctx, cfg.DatabaseURL, store.OpenOptions{})
	if err != nil {
		return nil, err
	}
	svc := wire(
		accesspg.NewUserRepository(pool),
		postpg.NewPostRepository(pool),
		moderationpg.NewRequestRepository(pool),
		store.NewTransactor(pool),
		audit.NewPostgresStore(pool),
		cfg,
		logger,
	)
	svc.close = func() {
		if err := svc.sink.Close(); err != nil {
			logger.Warn("failed to close audit sink", "error", err)
		}
		pool.Close()
	}
	return svc, nil
}
