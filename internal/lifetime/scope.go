// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lifetime issues request tokens tied to a component's lifetime.
//
// Every asynchronous request takes a token from a Scope before it starts and
// presents it when it completes. A token is valid only while it is the newest
// one of its kind and the scope is still open, so a late fetch can never
// overwrite fresher state or touch a torn-down view.
package lifetime

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Kind groups requests that supersede each other, e.g. "catalog" or
// "conversations".
type Kind string

// Token identifies one in-flight request.
type Token struct {
	Kind Kind
	ID   uuid.UUID
}

// IsZero reports whether t was never issued.
func (t Token) IsZero() bool {
	return t.ID == uuid.Nil
}

// Scope hands out tokens and remembers the newest one per kind.
type Scope struct {
	mu     sync.Mutex
	latest map[Kind]uuid.UUID
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScope opens a scope derived from parent. Closing the scope cancels the
// context handed to requests.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{
		latest: make(map[Kind]uuid.UUID),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context is cancelled when the scope closes.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Begin issues a token for kind and supersedes any earlier one of the same
// kind. After Close it returns the zero token, which is never valid.
func (s *Scope) Begin(kind Kind) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Token{Kind: kind}
	}
	id := uuid.New()
	s.latest[kind] = id
	return Token{Kind: kind, ID: id}
}

// Valid reports whether a completion carrying t may be applied.
func (s *Scope) Valid(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t.IsZero() {
		return false
	}
	return s.latest[t.Kind] == t.ID
}

// Finish validates t and retires it, so the same completion cannot be applied
// twice.
func (s *Scope) Finish(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t.IsZero() || s.latest[t.Kind] != t.ID {
		return false
	}
	delete(s.latest, t.Kind)
	return true
}

// Pending reports whether a request of kind is in flight.
func (s *Scope) Pending(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.latest[kind]
	return ok && !s.closed
}

// Close invalidates every outstanding token and cancels the scope context.
// It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.latest = make(map[Kind]uuid.UUID)
	s.mu.Unlock()
	s.cancel()
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
