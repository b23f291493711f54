// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// =============================================================================
// SPINNERS
// =============================================================================

// LineSpinner - Simple ASCII rotation shown while requests are in flight
var LineSpinner = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// DotsSpinner - Three-dot animation for uploads
var DotsSpinner = spinner.Spinner{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    time.Second / 6,
}

// =============================================================================
// GLYPHS
// =============================================================================

const (
	// HamburgerGlyph toggles the sidebar.
	HamburgerGlyph = "[=]"
	// CloseGlyph closes the sidebar.
	CloseGlyph = "[x]"
	// ExpandGlyph marks a collapsed dropdown.
	ExpandGlyph = "v"
	// CollapseGlyph marks an open dropdown.
	CollapseGlyph = "^"
	// Ellipsis ends truncated labels.
	Ellipsis = "..."
)
