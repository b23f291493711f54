// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command routing for one-shot commands and the shell.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/docsnav/internal/app"
	"github.com/jeranaias/docsnav/internal/config"
	"github.com/jeranaias/docsnav/internal/state"
)

// Version information (overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the state a sequence of commands works on. One-shot commands
// use a fresh Session; the shell keeps one for its whole lifetime so the
// catalog and conversation list are fetched once.
type Session struct {
	Config  *config.Config
	App     *app.App
	Persist *app.Persister
	State   state.AppState

	Out io.Writer
	Err io.Writer
	// Color enables styled and highlighted output.
	Color bool
	// ReadSecret reads a value without echo. Nil disables prompting.
	ReadSecret func(prompt string) (string, error)
}

// dispatch reduces actions into the session state, persists preferences and
// returns the first reported failure.
func (s *Session) dispatch(actions ...state.Action) error {
	var failure error
	for _, a := range actions {
		if f, ok := a.(state.RequestFailed); ok && failure == nil {
			failure = fmt.Errorf("%s: %w", f.Op, f.Err)
		}
	}
	s.State = app.Dispatch(s.State, actions...)
	if _, err := s.Persist.Sync(s.State); err != nil && failure == nil {
		failure = err
	}
	return failure
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

func (s *Session) style(render func(...string) string, text string) string {
	if !s.Color {
		return text
	}
	return render(text)
}

// =============================================================================
// ROUTING
// =============================================================================

// Run executes one command line against s.
func Run(s *Session, args []string) error {
	if len(args) == 0 {
		return usageError("no command given")
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "docs", "doc":
		return runDocs(s, rest)
	case "convs", "conv", "conversations":
		return runConvs(s, rest)
	case "key":
		return runKey(s, rest)
	case "upload":
		return runUpload(s, rest)
	case "links":
		return runLinks(s, rest)
	case "config":
		return runConfig(s, rest)
	case "new":
		s.State = app.Dispatch(s.State, state.NewChat{})
		s.printf("Started a new chat.\n")
		return nil
	case "version":
		s.printf("docsnav %s (%s)\n", Version, GitCommit)
		return nil
	case "help", "-h", "--help":
		s.printf("%s", Usage())
		return nil
	default:
		return usageError("unknown command %q", cmd)
	}
}

// Usage returns the command summary.
func Usage() string {
	return `docsnav - browse documentation sources and conversations

Usage:
  docsnav                              start the terminal UI
  docsnav docs list [--all] [--json]   list source documents
  docsnav docs select <name> [version] select the active source
  docsnav docs delete <name> [version] delete a local source
  docsnav convs list [--json]          list conversations
  docsnav convs show <id>              print a conversation
  docsnav convs rename <id> <name...>  rename a conversation
  docsnav convs delete <id>            delete a conversation
  docsnav key set [key]                store the API key
  docsnav upload <file> --name <job>   upload and train a document
  docsnav links                        list external links
  docsnav config show [key] | path     inspect configuration
  docsnav config init [--force]        write a default config file
  docsnav shell                        interactive shell
  docsnav version
`
}
