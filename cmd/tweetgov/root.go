// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TweetGov Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tweetgov/tweetgov/internal/access"
	"github.com/tweetgov/tweetgov/internal/config"
	"github.com/tweetgov/tweetgov/internal/logging"
	"github.com/tweetgov/tweetgov/pkg/errutil"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	deps       Deps
	stderr     io.Writer
	configFile string

	cfg    *config.Config
	logger *slog.Logger
	cancel context.CancelFunc
	svc    *services
}

// run executes args and returns the process exit code.
func run(args []string, deps Deps, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	a := &app{deps: deps.withDefaults(), stderr: stderr}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	a.shutdown()
	if err == nil {
		return 0
	}

	if !errutil.IsExpected(err) {
		logger := a.logger
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(stderr, nil))
		}
		errutil.LogError(logger, "command failed", err)
	}
	fmt.Fprintf(stderr, "Error: %s\n", errutil.PublicMessage(err))
	return exitCode(err)
}

// exitCode maps an error kind to the process exit status.
func exitCode(err error) int {
	switch errutil.Kind(err) {
	case "":
		return 0
	case errutil.CodeInvalidArgument:
		return 2
	case errutil.CodeNotFound:
		return 3
	case errutil.CodeInvalidState:
		return 4
	case errutil.CodePermissionDenied:
		return 5
	default:
		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tweetgov",
		Short: "TweetGov - governed moderation of short posts",
		Long: `TweetGov stores short posts and routes every admin change to a post
through a moderation request that a super-admin approves or rejects.
Every read, change and decision is recorded in a queryable audit trail.`,
		Version:           versionString(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return errutil.InvalidArgument("command", fmt.Sprintf("unknown command %q", args[0]))
			}
			return cmd.Help()
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errutil.InvalidArgument("flags", err.Error())
	})

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newUserCmd(a))
	cmd.AddCommand(newPostCmd(a))
	cmd.AddCommand(newModerationCmd(a))
	cmd.AddCommand(newLogsCmd(a))
	return cmd
}

// setup loads configuration, installs logging and bounds the command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if !cmd.HasParent() {
		return nil
	}
	cfg, err := config.Load(a.configFile, cmd.Flags(), a.deps.Getenv)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.Setup(cfg.Logging(version), a.stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	a.cancel = cancel
	cmd.SetContext(logging.WithAttrs(ctx, slog.String("command", cmd.CommandPath())))
	return nil
}

// services opens the backends on first use.
func (a *app) services(ctx context.Context) (*services, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	svc, err := a.deps.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// actor resolves --as into a subject and tags ctx with it.
func (a *app) actor(cmd *cobra.Command) (context.Context, access.Subject, *services, error) {
	ctx := cmd.Context()
	raw, err := cmd.Flags().GetString("as")
	if err != nil || strings.TrimSpace(raw) == "" {
		return nil, access.Subject{}, nil, errutil.InvalidArgument("as", "acting user id is required")
	}
	id, err := parseID("as", raw)
	if err != nil {
		return nil, access.Subject{}, nil, err
	}
	svc, err := a.services(ctx)
	if err != nil {
		return nil, access.Subject{}, nil, err
	}
	subject, err := svc.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, access.Subject{}, nil, err
	}
	ctx = logging.WithAttrs(ctx, slog.String("actor_id", id.String()), slog.String("role", subject.Role.String()))
	return access.WithSubject(ctx, subject), subject, svc, nil
}

// shutdown flushes metrics and releases the backends.
func (a *app) shutdown() {
	if a.cfg != nil && a.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, prometheus.DefaultGatherer); err != nil {
			a.logger.Warn("failed to write metrics file", "path", a.cfg.MetricsFile, "error", err)
		}
	}
	if a.svc != nil {
		a.svc.close()
		a.svc = nil
	}
	if a.cancel != nil {
		a.cancel()
	}
}

func parseID(field, s string) (ulid.ULID, error) {
	id, err := ulid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ulid.ULID{}, errutil.InvalidArgument(field, fmt.Sprintf("%q is not a valid id", s))
	}
	return id, nil
}

// exactArgs is cobra.ExactArgs reporting InvalidArgument with the argument names.
func exactArgs(names ...string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return errutil.InvalidArgument("args", fmt.Sprintf("expected %d argument(s): %s", len(names), strings.Join(names, " ")))
		}
		return nil
	}
}
