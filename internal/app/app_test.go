// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docsnav/internal/api"
	"github.com/jeranaias/docsnav/internal/metrics"
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/nav"
	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/storage"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeBackend struct {
	mu sync.Mutex

	docs  []model.Document
	convs []model.Conversation

	listConvCalls atomic.Int32
	deletePaths   []string
	renamed       []string
	deletedConvs  []string
	uploads       []string

	renameResult bool
	err          error

	// getGate, when set, blocks GetConversation for the given id.
	getGate    map[string]chan struct{}
	getStarted chan string
}

func (f *fakeBackend) ListDocuments(ctx context.Context) ([]model.Document, error) {
	return f.docs, f.err
}

func (f *fakeBackend) DeleteIndex(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletePaths = append(f.deletePaths, path)
	return f.err
}

func (f *fakeBackend) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	f.listConvCalls.Add(1)
	return f.convs, f.err
}

func (f *fakeBackend) GetConversation(ctx context.Context, id string) (*model.ConversationDetail, error) {
	if f.getStarted != nil {
		f.getStarted <- id
	}
	if gate, ok := f.getGate[id]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &model.ConversationDetail{ID: id}, f.err
}

func (f *fakeBackend) DeleteConversation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedConvs = append(f.deletedConvs, id)
	return f.err
}

func (f *fakeBackend) RenameConversation(ctx context.Context, id, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renamed = append(f.renamed, id+"="+name)
	return f.renameResult, f.err
}

func (f *fakeBackend) Upload(ctx context.Context, up api.UploadRequest) (string, error) {
	data, _ := io.ReadAll(up.Content)
	f.mu.Lock()
	f.uploads = append(f.uploads, up.Name+":"+up.FileName+":"+string(data))
	f.mu.Unlock()
	return "task-1", f.err
}

func (f *fakeBackend) WaitForTask(ctx context.Context, taskID string, interval time.Duration) (api.TaskStatus, error) {
	return api.TaskStatus{Status: api.TaskSuccess}, f.err
}

var (
	docA = model.Document{Name: "A", Version: "1", Model: "m1", Location: model.LocationLocal}
	docB = model.Document{Name: "B", Version: "1", Model: "m2", Location: model.LocationRemote}
)

func newTestApp(t *testing.T, b *fakeBackend) (*App, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	a := New(context.Background(), b, zerolog.Nop(), m)
	t.Cleanup(a.Close)
	return a, m
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

func TestRename_RefetchesOnceAndClearsContext(t *testing.T) {
	b := &fakeBackend{renameResult: true, convs: []model.Conversation{{ID: "c1", Name: "renamed"}}}
	a, _ := newTestApp(t, b)

	s := state.New(state.Init{Selection: docA.Key()})
	s = Dispatch(s, state.ConversationLoaded{ID: "c1", Detail: &model.ConversationDetail{ID: "c1"}})

	s = Dispatch(s, a.RenameConversation("c1", "  renamed  ")...)

	assert.Equal(t, int32(1), b.listConvCalls.Load())
	assert.Empty(t, s.ConversationID)
	assert.Nil(t, s.Active)
	assert.Equal(t, []model.Conversation{{ID: "c1", Name: "renamed"}}, s.Conversations)
	assert.Equal(t, []string{"c1=renamed"}, b.renamed)
}

func TestRename_FalsyDoesNothing(t *testing.T) {
	b := &fakeBackend{renameResult: false}
	a, _ := newTestApp(t, b)

	actions := a.RenameConversation("c1", "x")
	assert.Empty(t, actions)
	assert.Equal(t, int32(0), b.listConvCalls.Load())
}

func TestRename_EmptyNameSkipsRequest(t *testing.T) {
	b := &fakeBackend{renameResult: true}
	a, _ := newTestApp(t, b)

	assert.Empty(t, a.RenameConversation("c1", "   "))
	assert.Empty(t, b.renamed)
}

func TestRename_ErrorNoRefetch(t *testing.T) {
	b := &fakeBackend{err: errors.New("down")}
	a, _ := newTestApp(t, b)

	actions := a.RenameConversation("c1", "x")
	require.Len(t, actions, 1)
	assert.IsType(t, state.RequestFailed{}, actions[0])
	assert.Equal(t, int32(0), b.listConvCalls.Load())
}

func TestDeleteConversation_Resyncs(t *testing.T) {
	b := &fakeBackend{convs: []model.Conversation{{ID: "c2"}}}
	a, _ := newTestApp(t, b)

	s := state.New(state.Init{Selection: docA.Key()})
	s = Dispatch(s, state.ConversationsLoaded{Conversations: []model.Conversation{{ID: "c1"}, {ID: "c2"}}})
	s = Dispatch(s, a.DeleteConversation("c1")...)

	assert.Equal(t, []string{"c1"}, b.deletedConvs)
	assert.Equal(t, int32(1), b.listConvCalls.Load())
	assert.Equal(t, []model.Conversation{{ID: "c2"}}, s.Conversations)
}

func TestNeedsConversations(t *testing.T) {
	b := &fakeBackend{}
	a, _ := newTestApp(t, b)

	s := state.New(state.Init{})
	assert.True(t, a.NeedsConversations(s))

	s = Dispatch(s, a.FetchConversations()...)
	assert.False(t, a.NeedsConversations(s))
}

func TestLoadConversation_SupersededIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{
		getGate:    map[string]chan struct{}{"c1": gate},
		getStarted: make(chan string, 2),
	}
	a, m := newTestApp(t, b)

	first := make(chan []state.Action, 1)
	go func() { first <- a.LoadConversation("c1") }()
	require.Equal(t, "c1", <-b.getStarted)

	second := a.LoadConversation("c2")
	<-b.getStarted
	close(gate)

	assert.Empty(t, <-first)
	require.Len(t, second, 1)
	assert.Equal(t, "c2", second[0].(state.ConversationLoaded).ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleCompletions))
}

func TestClose_DropsInFlight(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{
		getGate:    map[string]chan struct{}{"c1": gate},
		getStarted: make(chan string, 1),
	}
	m := metrics.New()
	a := New(context.Background(), b, zerolog.Nop(), m)

	done := make(chan []state.Action, 1)
	go func() { done <- a.LoadConversation("c1") }()
	<-b.getStarted

	a.Close()
	assert.Empty(t, <-done)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleCompletions))
}

func TestClose_NoWritesOrFetchesAfterwards(t *testing.T) {
	b := &fakeBackend{renameResult: true}
	m := metrics.New()
	a := New(context.Background(), b, zerolog.Nop(), m)
	a.Close()

	assert.False(t, a.NeedsConversations(state.New(state.Init{})))
	assert.Empty(t, a.RenameConversation("c1", "x"))
	assert.Empty(t, a.DeleteConversation("c1"))
	assert.Empty(t, b.renamed)
	assert.Empty(t, b.deletedConvs)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StaleCompletions))
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func TestFetchCatalog_ScenarioFilter(t *testing.T) {
	b := &fakeBackend{docs: []model.Document{docA, docB}}
	a, _ := newTestApp(t, b)

	s := Dispatch(state.New(state.Init{EmbeddingsName: "m1"}), a.FetchCatalog()...)
	assert.Equal(t, []model.Document{docA, docB}, s.Catalog)
}

func TestFetchCatalog_FailureKeepsPrevious(t *testing.T) {
	b := &fakeBackend{docs: []model.Document{docA}}
	a, _ := newTestApp(t, b)

	s := Dispatch(state.New(state.Init{}), a.FetchCatalog()...)
	b.err = errors.New("unreachable")
	s = Dispatch(s, a.FetchCatalog()...)

	assert.Equal(t, []model.Document{docA}, s.Catalog)
	assert.Contains(t, s.LastError, "unreachable")
}

func TestDeleteDocument_UsesLocalPathAndRemoves(t *testing.T) {
	b := &fakeBackend{docs: []model.Document{docA, docB}}
	a, _ := newTestApp(t, b)

	s := Dispatch(state.New(state.Init{Selection: docA.Key()}), a.FetchCatalog()...)
	s = Dispatch(s, a.DeleteDocument(docA)...)

	assert.Equal(t, []string{"indexes/local/A"}, b.deletePaths)
	assert.Equal(t, []model.Document{docB}, s.Catalog)
	assert.False(t, s.SelectionSet())
	assert.True(t, s.Modals.SelectDocs.IsActive())
}

func TestUpload_RefetchesCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.md")
	require.NoError(t, os.WriteFile(path, []byte("# guide"), 0600))

	b := &fakeBackend{docs: []model.Document{docA}}
	a, _ := newTestApp(t, b)

	s := Dispatch(state.New(state.Init{Class: nav.Desktop}), a.Upload(path, " guide ")...)
	assert.Equal(t, []string{"guide:guide.md:# guide"}, b.uploads)
	assert.Equal(t, []model.Document{docA}, s.Catalog)
	assert.Equal(t, "uploaded guide", s.UploadStatus)
}

func TestUpload_MissingFile(t *testing.T) {
	a, _ := newTestApp(t, &fakeBackend{})
	actions := a.Upload(filepath.Join(t.TempDir(), "nope.md"), "x")
	require.Len(t, actions, 1)
	assert.IsType(t, state.RequestFailed{}, actions[0])
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "café notes", NormalizeName("  café   notes "))
	assert.Empty(t, NormalizeName(" \t "))
}

// =============================================================================
// PREFERENCES
// =============================================================================

func TestPersister_SavesOnChange(t *testing.T) {
	store := storage.NewStoreInDir(t.TempDir(), nil)
	p := NewPersister(store, storage.Preferences{}, zerolog.Nop())

	s := state.New(state.Init{})
	wrote, err := p.Sync(s)
	require.NoError(t, err)
	assert.False(t, wrote)

	s = Dispatch(s, state.SelectDocument{Key: docA.Key()})
	wrote, err = p.Sync(s)
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, _ = p.Sync(s)
	assert.False(t, wrote)

	prefs, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, docA.Key(), prefs.SelectionKey())
}

func TestPersister_ObserveSuppressesEcho(t *testing.T) {
	store := storage.NewStoreInDir(t.TempDir(), nil)
	p := NewPersister(store, storage.Preferences{}, zerolog.Nop())

	incoming := storage.Preferences{APIKey: "k"}.WithSelection(docB.Key())
	p.Observe(incoming)

	s := Dispatch(state.New(state.Init{}), state.PreferencesReloaded{Selection: docB.Key(), APIKey: "k"})
	wrote, err := p.Sync(s)
	require.NoError(t, err)
	assert.False(t, wrote)
}
