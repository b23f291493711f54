// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across docsnav packages.
//
// # Key Functions
//
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - TruncateRunes / TruncateWidth / PadWidth: Display-safe string fitting
//   - SingleLine: Collapse multi-line names for one-row tiles
package util
