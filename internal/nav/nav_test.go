// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/docsnav/internal/config"
)

func TestClassFor(t *testing.T) {
	assert.Equal(t, Mobile, ClassFor(60, 100))
	assert.Equal(t, Desktop, ClassFor(100, 100))
	assert.Equal(t, Desktop, ClassFor(0, 100))
}

func TestMount(t *testing.T) {
	assert.True(t, Mount(Desktop).Open)
	assert.False(t, Mount(Mobile).Open)
}

func TestResize_DesktopForcesOpen(t *testing.T) {
	s := Mount(Mobile)
	assert.False(t, s.Open)

	s = s.Resize(Desktop)
	assert.Equal(t, Desktop, s.Class)
	assert.True(t, s.Open)
}

func TestResize_DesktopAfterClose(t *testing.T) {
	s := Mount(Desktop).Toggle()
	assert.False(t, s.Open)

	// Still desktop: nothing changes.
	s = s.Resize(Desktop)
	assert.False(t, s.Open)

	s = s.Resize(Mobile).Toggle().Resize(Desktop)
	assert.True(t, s.Open)
}

func TestResize_MobileCloses(t *testing.T) {
	s := Mount(Desktop).Resize(Mobile)
	assert.False(t, s.Open)
}

func TestShouldDismiss(t *testing.T) {
	mobileOpen := Mount(Mobile).SetOpen(true)
	assert.True(t, mobileOpen.ShouldDismiss(false))
	assert.False(t, mobileOpen.ShouldDismiss(true))
	assert.False(t, Mount(Mobile).ShouldDismiss(false))
	assert.False(t, Mount(Desktop).ShouldDismiss(false))
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 5}
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(9, 4))
	assert.False(t, r.Contains(10, 4))
	assert.False(t, r.Contains(3, 5))
	assert.False(t, r.Contains(-1, 0))
}

func TestLinks(t *testing.T) {
	got := Links([]config.LinkConfig{
		{Label: "Docs", URL: "https://docs.example.com"},
		{Label: "", URL: "https://nolabel.example.com"},
		{Label: "Bad", URL: "javascript:alert(1)"},
		{Label: "Rel", URL: "/relative"},
	})
	assert.Equal(t, []Link{{Label: "Docs", URL: "https://docs.example.com"}}, got)
}

func TestOpenBrowser_RejectsNonWeb(t *testing.T) {
	assert.Error(t, OpenBrowser("file:///etc/passwd"))
}
