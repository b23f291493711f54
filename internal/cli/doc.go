// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the scriptable side of docsnav: one-shot commands
// and an interactive shell that drive the same state machine as the TUI.
//
// # Key Types
//
//   - Session: configuration, effects and state shared by a command sequence
//   - ArgParser: flag and positional parsing for every subcommand
//   - Editor: liner-backed line editing with persistent history
//   - JSONResponse: --json envelope, highlighted with chroma on a TTY
//
// # Usage
//
//	s := &cli.Session{Config: cfg, App: effects, State: st, Out: os.Stdout, Err: os.Stderr}
//	if err := cli.Run(s, os.Args[1:]); err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	    os.Exit(1)
//	}
package cli
