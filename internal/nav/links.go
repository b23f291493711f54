// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/jeranaias/docsnav/internal/config"
)

// Link is an external destination listed at the bottom of the sidebar.
type Link struct {
	Label string
	URL   string
}

// Links converts configured links, skipping entries without a label or with
// a URL that is not absolute http(s).
func Links(cfg []config.LinkConfig) []Link {
	out := make([]Link, 0, len(cfg))
	for _, l := range cfg {
		if l.Label == "" || !isWebURL(l.URL) {
			continue
		}
		out = append(out, Link{Label: l.Label, URL: l.URL})
	}
	return out
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Opener launches a URL outside the terminal.
type Opener func(rawURL string) error

// OpenBrowser opens rawURL with the platform's default handler.
// SECURITY: only http(s) URLs are passed to the OS opener.
func OpenBrowser(rawURL string) error {
	if !isWebURL(rawURL) {
		return fmt.Errorf("refusing to open %q", rawURL)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", rawURL, err)
	}
	// Reap the child without blocking the caller.
	go func() { _ = cmd.Wait() }()
	return nil
}
