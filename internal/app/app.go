// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app runs the effects of the navigation state machine: backend
// requests whose completions come back as state actions.
//
// Every request takes a lifetime token before it starts. A completion whose
// token was superseded, or whose scope closed, is dropped and counted.
// Failures go to the diagnostic log and become a RequestFailed action; they
// never stop the program.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/docsnav/internal/api"
	"github.com/jeranaias/docsnav/internal/catalog"
	"github.com/jeranaias/docsnav/internal/lifetime"
	"github.com/jeranaias/docsnav/internal/logging"
	"github.com/jeranaias/docsnav/internal/metrics"
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/state"
)

// Request kinds. Requests of the same kind supersede each other.
const (
	KindCatalog       lifetime.Kind = "catalog"
	KindConversations lifetime.Kind = "conversations"
	KindConversation  lifetime.Kind = "conversation"
	KindUpload        lifetime.Kind = "upload"
)

// Backend is everything the effects call on the docs backend.
type Backend interface {
	catalog.Backend
	ListConversations(ctx context.Context) ([]model.Conversation, error)
	GetConversation(ctx context.Context, id string) (*model.ConversationDetail, error)
	DeleteConversation(ctx context.Context, id string) error
	RenameConversation(ctx context.Context, id, name string) (bool, error)
	Upload(ctx context.Context, up api.UploadRequest) (string, error)
	WaitForTask(ctx context.Context, taskID string, interval time.Duration) (api.TaskStatus, error)
}

// App owns the lifetime scope and the collaborators effects need.
type App struct {
	backend Backend
	scope   *lifetime.Scope
	log     zerolog.Logger
	metrics *metrics.Metrics

	// PollInterval is the task status polling period for uploads.
	PollInterval time.Duration
}

// New creates an App whose requests live until Close.
func New(parent context.Context, backend Backend, log zerolog.Logger, m *metrics.Metrics) *App {
	return &App{
		backend:      backend,
		scope:        lifetime.NewScope(parent),
		log:          log.With().Str("component", "app").Logger(),
		metrics:      m,
		PollInterval: time.Second,
	}
}

// Close invalidates every in-flight request. Their completions are dropped.
func (a *App) Close() {
	a.scope.Close()
}

// Scope exposes the lifetime scope (for tests and the UI).
func (a *App) Scope() *lifetime.Scope {
	return a.scope
}

// complete turns the outcome of the request holding tok into actions. A stale
// token yields nothing.
func (a *App) complete(tok lifetime.Token, op string, err error, onSuccess ...state.Action) []state.Action {
	if !a.scope.Finish(tok) {
		a.discard(op, tok)
		return nil
	}
	if err != nil {
		logging.Diag(a.log, op, err)
		return []state.Action{state.RequestFailed{Op: op, Err: err}}
	}
	return onSuccess
}

func (a *App) discard(op string, tok lifetime.Token) {
	if a.metrics != nil {
		a.metrics.StaleCompletions.Inc()
	}
	a.log.Debug().Str("op", op).Str("kind", string(tok.Kind)).Msg("discarding stale completion")
}

// =============================================================================
// DOCUMENT CATALOG
// =============================================================================

// FetchCatalog replaces the catalog with the backend listing.
func (a *App) FetchCatalog() []state.Action {
	tok := a.scope.Begin(KindCatalog)
	docs, err := catalog.Fetch(a.scope.Context(), a.backend)
	return a.complete(tok, "fetch catalog", err, state.CatalogLoaded{Docs: docs})
}

// DeleteDocument removes a document index. On success the entry is dropped
// from the cached catalog without a refetch.
func (a *App) DeleteDocument(doc model.Document) []state.Action {
	tok := a.scope.Begin(lifetime.Kind("delete-doc:" + doc.Key().String()))
	err := catalog.Delete(a.scope.Context(), a.backend, doc)
	return a.complete(tok, "delete document", err, state.DocumentDeleted{Key: doc.Key()})
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// NeedsConversations reports whether the list is absent and no fetch is
// running, i.e. whether FetchConversations should be issued now. Never true
// after Close.
func (a *App) NeedsConversations(s state.AppState) bool {
	if a.scope.Closed() {
		return false
	}
	return s.Conversations == nil && !a.scope.Pending(KindConversations)
}

// FetchConversations reloads the conversation list.
func (a *App) FetchConversations() []state.Action {
	tok := a.scope.Begin(KindConversations)
	convs, err := a.backend.ListConversations(a.scope.Context())
	return a.complete(tok, "fetch conversations", err, state.ConversationsLoaded{Conversations: convs})
}

// LoadConversation fetches one conversation and makes it active. A newer
// LoadConversation supersedes an older one still in flight.
func (a *App) LoadConversation(id string) []state.Action {
	tok := a.scope.Begin(KindConversation)
	detail, err := a.backend.GetConversation(a.scope.Context(), id)
	return a.complete(tok, "load conversation", err, state.ConversationLoaded{ID: id, Detail: detail})
}
