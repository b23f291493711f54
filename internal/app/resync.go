// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/docsnav/internal/api"
	"github.com/jeranaias/docsnav/internal/lifetime"
	"github.com/jeranaias/docsnav/internal/logging"
	"github.com/jeranaias/docsnav/internal/state"
)

// =============================================================================
// WRITE-THEN-RESYNC
// =============================================================================

// Write is a mutating backend call. It reports whether the write took effect.
type Write func(ctx context.Context) (bool, error)

// Resync describes a write followed by a refetch of the data it touched.
// The refetch runs once, and only when the write succeeded.
type Resync struct {
	// Op names the write in logs.
	Op string
	// Kind is the lifetime kind of the write itself.
	Kind lifetime.Kind
	// Write performs the mutation.
	Write Write
	// Applied is reduced after a successful write and before the refetch.
	Applied []state.Action
	// Refetch reloads the affected data.
	Refetch func() []state.Action
}

// Run executes r and returns the resulting actions in order.
func (a *App) Run(r Resync) []state.Action {
	tok := a.scope.Begin(r.Kind)
	if !a.scope.Valid(tok) {
		// Closed scope: nobody is left to see the write.
		a.discard(r.Op, tok)
		return nil
	}
	ok, err := r.Write(a.scope.Context())
	if !a.scope.Finish(tok) {
		a.discard(r.Op, tok)
		return nil
	}
	if err != nil {
		logging.Diag(a.log, r.Op, err)
		return []state.Action{state.RequestFailed{Op: r.Op, Err: err}}
	}
	if !ok {
		a.log.Debug().Str("op", r.Op).Msg("write reported no change")
		return nil
	}

	actions := append([]state.Action(nil), r.Applied...)
	if r.Refetch != nil {
		actions = append(actions, r.Refetch()...)
	}
	return actions
}

// NormalizeName cleans a user-typed conversation name: NFC normalisation,
// trimmed, inner whitespace runs collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// RenameConversation renames id. A truthy response resets the navigation
// context and triggers exactly one conversation list refetch.
func (a *App) RenameConversation(id, name string) []state.Action {
	name = NormalizeName(name)
	if name == "" {
		return nil
	}
	return a.Run(Resync{
		Op:   "rename conversation",
		Kind: lifetime.Kind("rename:" + id),
		Write: func(ctx context.Context) (bool, error) {
			return a.backend.RenameConversation(ctx, id, name)
		},
		Applied: []state.Action{state.ConversationRenamed{OK: true}},
		Refetch: a.FetchConversations,
	})
}

// DeleteConversation deletes id and then refetches the list. The list is
// not edited locally.
func (a *App) DeleteConversation(id string) []state.Action {
	return a.Run(Resync{
		Op:   "delete conversation",
		Kind: lifetime.Kind("delete-conv:" + id),
		Write: func(ctx context.Context) (bool, error) {
			if err := a.backend.DeleteConversation(ctx, id); err != nil {
				return false, err
			}
			return true, nil
		},
		Refetch: a.FetchConversations,
	})
}

// Upload sends the file at path for ingestion under job name, waits for the
// task to finish and then refetches the catalog.
func (a *App) Upload(path, name string) []state.Action {
	return a.Run(Resync{
		Op:   "upload",
		Kind: KindUpload,
		Write: func(ctx context.Context) (bool, error) {
			return a.upload(ctx, path, name)
		},
		Applied: []state.Action{state.UploadProgress{Status: "uploaded " + strings.TrimSpace(name)}},
		Refetch: a.FetchCatalog,
	})
}

func (a *App) upload(ctx context.Context, path, name string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	taskID, err := a.backend.Upload(ctx, api.UploadRequest{
		Name:     strings.TrimSpace(name),
		FileName: filepath.Base(path),
		Content:  f,
	})
	if err != nil {
		return false, err
	}
	a.log.Info().Str("task_id", taskID).Str("name", name).Msg("upload accepted")

	if _, err := a.backend.WaitForTask(ctx, taskID, a.PollInterval); err != nil {
		return false, err
	}
	return true, nil
}
