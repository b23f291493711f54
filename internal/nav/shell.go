// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav holds the navigation shell rules: viewport classes, the open
// flag of the sidebar, outside-click dismissal and external links.
package nav

// Class is the viewport class derived from the terminal width.
type Class int

const (
	Desktop Class = iota
	Mobile
)

// String returns "desktop" or "mobile".
func (c Class) String() string {
	if c == Mobile {
		return "mobile"
	}
	return "desktop"
}

// ClassFor classifies a terminal width. Widths below breakpoint are mobile.
// A non-positive width means the size is not known yet and counts as desktop.
func ClassFor(width, breakpoint int) Class {
	if width > 0 && width < breakpoint {
		return Mobile
	}
	return Desktop
}

// =============================================================================
// SHELL
// =============================================================================

// Shell is the sidebar's open/closed state for one viewport class.
type Shell struct {
	Class Class
	Open  bool
}

// Mount returns the shell for the first known viewport: open on desktop,
// closed on mobile.
func Mount(c Class) Shell {
	return Shell{Class: c, Open: c == Desktop}
}

// Resize applies a viewport class change. Entering desktop forces the shell
// open and entering mobile closes it. Resizes within a class change nothing.
func (s Shell) Resize(c Class) Shell {
	if c == s.Class {
		return s
	}
	return Mount(c)
}

// Toggle flips the open flag (the hamburger / collapse button).
func (s Shell) Toggle() Shell {
	s.Open = !s.Open
	return s
}

// SetOpen forces the open flag.
func (s Shell) SetOpen(open bool) Shell {
	s.Open = open
	return s
}

// ShouldDismiss reports whether a pointer press outside the shell closes it:
// only on mobile, only while open, and never while a dialog is shown.
func (s Shell) ShouldDismiss(modalActive bool) bool {
	return s.Class == Mobile && s.Open && !modalActive
}

// =============================================================================
// HIT TESTING
// =============================================================================

// Rect is a cell rectangle on screen.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
