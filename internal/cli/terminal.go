// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - What the CLI needs to know about the attached terminal.

package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jeranaias/docsnav/internal/nav"
)

// DefaultTerminalWidth is assumed when stdout has no size.
const DefaultTerminalWidth = 80

// IsTTY reports whether stdin is a terminal, i.e. whether prompting works.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadSecret prompts on stderr and reads one line from stdin without echo.
func ReadSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return string(b), err
}

// stdoutSize returns the stdout dimensions, ok=false when stdout is
// redirected.
func stdoutSize() (width int, ok bool) {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

// GetTerminalWidth returns the stdout width or DefaultTerminalWidth.
func GetTerminalWidth() int {
	if w, ok := stdoutSize(); ok {
		return w
	}
	return DefaultTerminalWidth
}

// ViewportClass classifies the terminal for the navigation shell. Redirected
// output counts as desktop so the sidebar starts open.
func ViewportClass(breakpoint int) nav.Class {
	w, ok := stdoutSize()
	if !ok {
		return nav.Desktop
	}
	return nav.ClassFor(w, breakpoint)
}

// colorsFromEnv decides colour output. NO_COLOR wins over FORCE_COLOR; with
// neither set, colour follows whether stdout is a terminal.
func colorsFromEnv(getenv func(string) string, tty bool) bool {
	switch {
	case getenv("NO_COLOR") != "":
		return false
	case getenv("FORCE_COLOR") != "":
		return true
	}
	return tty
}

var colorsEnabled = sync.OnceValue(func() bool {
	return colorsFromEnv(os.Getenv, term.IsTerminal(int(os.Stdout.Fd())))
})

// ColorsEnabled reports whether styled output should be written.
func ColorsEnabled() bool {
	return colorsEnabled()
}

// GetColorProfile is the lipgloss profile for CLI output: Ascii when colour
// is off, the detected profile otherwise.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
