// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// shell.go - Interactive REPL over the one-shot commands.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"
)

// HistoryFileName is the shell history file inside the config directory.
const HistoryFileName = "shell_history"

var shellCommands = []string{
	"docs list", "docs select", "docs delete",
	"convs list", "convs show", "convs rename", "convs delete",
	"key set", "key status", "upload", "links", "config show", "config path", "config init",
	"new", "help", "exit",
}

// =============================================================================
// LINE EDITOR
// =============================================================================

// LineReader is the prompt the shell reads from.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
}

// Editor wraps liner with persistent history.
// USABILITY: Supports arrow keys for history navigation and line editing.
type Editor struct {
	line        *liner.State
	historyFile string
}

// NewEditor creates a line editor whose history lives in historyFile.
func NewEditor(historyFile string) *Editor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetCompleter(complete)

	e := &Editor{line: line, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return e
}

// Prompt reads one line.
func (e *Editor) Prompt(prompt string) (string, error) {
	return e.line.Prompt(prompt)
}

// AppendHistory records line.
func (e *Editor) AppendHistory(line string) {
	e.line.AppendHistory(line)
}

// ReadPassword reads a line without echo.
func (e *Editor) ReadPassword(prompt string) (string, error) {
	return e.line.PasswordPrompt(prompt)
}

// Close saves history with 0600 permissions and restores the terminal.
func (e *Editor) Close() error {
	if f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		_, _ = e.line.WriteHistory(f)
		f.Close()
	}
	return e.line.Close()
}

func complete(line string) []string {
	prefix := strings.ToLower(strings.TrimLeft(line, " "))
	var out []string
	for _, c := range shellCommands {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c+" ")
		}
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// REPL
// =============================================================================

// RunShell reads commands from r until exit, EOF or Ctrl+C. Command errors
// are printed and the loop continues.
func RunShell(s *Session, r LineReader) error {
	prompt := s.style(PromptStyle.Render, "docsnav> ")
	fmt.Fprintf(s.Out, "docsnav %s shell. Type 'help' for commands, 'exit' to quit.\n", Version)

	for {
		input, err := r.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.Out)
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.AppendHistory(input)

		args := SplitLine(input)
		switch strings.ToLower(args[0]) {
		case "exit", "quit", "q":
			return nil
		case "shell":
			fmt.Fprintln(s.Err, "already in the shell")
			continue
		}

		if err := Run(s, args); err != nil {
			fmt.Fprintf(s.Err, "%s %v\n", s.style(ErrorStyle.Render, "error:"), err)
		}
	}
}
