// docsnav - navigate documentation sources and conversations from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/docsnav/internal/api"
	"github.com/jeranaias/docsnav/internal/app"
	"github.com/jeranaias/docsnav/internal/cli"
	"github.com/jeranaias/docsnav/internal/config"
	"github.com/jeranaias/docsnav/internal/logging"
	"github.com/jeranaias/docsnav/internal/metrics"
	"github.com/jeranaias/docsnav/internal/security"
	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/storage"
	"github.com/jeranaias/docsnav/internal/ui/shell"
	"github.com/jeranaias/docsnav/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// prefsDebounce coalesces the bursts of events an atomic rename produces.
const prefsDebounce = 250 * time.Millisecond

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	tui := len(args) == 0

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := setup(ctx, tui)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer env.Close()

	switch {
	case tui:
		err = runTUI(ctx, env)
	case args[0] == "shell":
		err = runShell(env)
	default:
		err = cli.Run(env.session(), args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprint(os.Stderr, cli.Usage())
			return 2
		}
		return 1
	}
	return 0
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// environment is everything the three front ends share.
type environment struct {
	cfg     *config.Config
	dir     string
	log     zerolog.Logger
	closers []io.Closer

	store   *storage.Store
	prefs   storage.Preferences
	app     *app.App
	persist *app.Persister
	state   state.AppState
}

func setup(ctx context.Context, tui bool) (*environment, error) {
	cfg, cfgErr := config.Load()
	if cfg == nil {
		return nil, cfgErr
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, dir: dir}

	// The TUI owns the terminal, so its diagnostics go to a file.
	if tui {
		path := cfg.Log.Path
		if path == "" {
			path = filepath.Join(dir, "docsnav.log")
		}
		log, closer, err := logging.OpenFile(path, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		env.log = log
		env.closers = append(env.closers, closer)
	} else {
		env.log = logging.NewConsole(os.Stderr, cfg.Log.Level)
	}
	if cfgErr != nil {
		env.log.Warn().Err(cfgErr).Msg("config file ignored, using defaults")
	}

	m := metrics.Global()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				env.log.Error().Err(err).Str("addr", cfg.Metrics.Addr).Msg("metrics endpoint stopped")
			}
		}()
	}

	client := api.NewClient(cfg.API.Host).
		WithRateLimit(cfg.API.RequestsPerSecond).
		WithLogger(env.log).
		WithMetrics(m).
		WithUser(cfg.API.User)
	if cfg.API.TimeoutSecs > 0 {
		client = client.WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second)
	}

	sealer, err := security.DefaultSealer(dir)
	if err != nil {
		return nil, fmt.Errorf("preferences key: %w", err)
	}
	env.store = storage.NewStoreInDir(dir, sealer)
	env.prefs, err = env.store.Load()
	if err != nil {
		env.log.Warn().Err(err).Str("path", env.store.Path()).Msg("preferences unreadable")
	}

	env.app = app.New(ctx, client, env.log, m)
	env.persist = app.NewPersister(env.store, env.prefs, env.log)
	env.state = state.New(state.Init{
		Selection:      env.prefs.SelectionKey(),
		APIKey:         env.prefs.APIKey,
		EmbeddingsName: cfg.API.EmbeddingsName,
		Class:          cli.ViewportClass(cfg.UI.MobileBreakpoint),
	})
	return env, nil
}

func (e *environment) session() *cli.Session {
	s := &cli.Session{
		Config:  e.cfg,
		App:     e.app,
		Persist: e.persist,
		State:   e.state,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Color:   cli.ColorsEnabled(),
	}
	if cli.IsTTY() {
		s.ReadSecret = cli.ReadSecret
	}
	return s
}

// Close cancels outstanding requests and flushes the log file.
func (e *environment) Close() {
	e.app.Close()
	for _, c := range e.closers {
		_ = c.Close()
	}
}

// =============================================================================
// FRONT ENDS
// =============================================================================

func runTUI(ctx context.Context, env *environment) error {
	opts := shell.Options{
		Config:  env.cfg,
		App:     env.app,
		Persist: env.persist,
		Theme:   styles.NewTheme(env.cfg.UI.Theme),
		Log:     env.log,
	}

	watcher, err := storage.NewWatcher(env.store, prefsDebounce, env.log)
	if err != nil {
		env.log.Warn().Err(err).Msg("preferences watcher disabled")
	} else {
		go watcher.Run(ctx)
		opts.PrefChanges = watcher.Changes()
	}

	env.log.Info().Str("version", Version).Str("host", env.cfg.API.Host).Msg("starting tui")

	p := tea.NewProgram(
		shell.New(env.state, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running docsnav: %w", err)
	}
	return nil
}

func runShell(env *environment) error {
	editor := cli.NewEditor(filepath.Join(env.dir, cli.HistoryFileName))
	defer editor.Close()

	s := env.session()
	s.ReadSecret = editor.ReadPassword
	return cli.RunShell(s, editor)
}
