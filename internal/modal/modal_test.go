// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package modal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitial(t *testing.T) {
	s := Initial(false)
	assert.Equal(t, Active, s.SelectDocs.State)
	assert.Equal(t, Inactive, s.APIKey.State)
	assert.Equal(t, Inactive, s.Upload.State)

	s = Initial(true)
	assert.False(t, s.AnyActive())
}

func TestSubmit_InvalidStaysActive(t *testing.T) {
	m := New(SelectDocs, Active)

	m = m.Submit(false)
	assert.Equal(t, Active, m.State)
	assert.True(t, m.Err)

	m = m.Submit(true)
	assert.Equal(t, Inactive, m.State)
	assert.False(t, m.Err)
}

func TestCancel_NonCancellableIsNoop(t *testing.T) {
	m := New(SelectDocs, Active).Submit(false)

	got := m.Cancel(false)
	assert.Equal(t, m, got)

	got = m.Cancel(true)
	assert.Equal(t, Inactive, got.State)
	assert.False(t, got.Err)
}

func TestOpen_ClearsError(t *testing.T) {
	m := New(APIKey, Active).Submit(false).Close()
	assert.False(t, m.Err)

	m = New(APIKey, Inactive)
	m.Err = true
	m = m.Open()
	assert.True(t, m.IsActive())
	assert.False(t, m.Err)
}

func TestCancellable(t *testing.T) {
	tests := []struct {
		kind Kind
		ctx  Context
		want bool
	}{
		{APIKey, Context{}, false},
		{APIKey, Context{KeySet: true}, true},
		{SelectDocs, Context{KeySet: true}, false},
		{SelectDocs, Context{SelectionSet: true}, true},
		{Upload, Context{}, true},
		{Kind(99), Context{KeySet: true, SelectionSet: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Cancellable(tt.kind, tt.ctx))
		})
	}
}

func TestValidators(t *testing.T) {
	assert.False(t, ValidAPIKey("   "))
	assert.True(t, ValidAPIKey("sk-123"))
	assert.False(t, ValidUpload("/tmp/a.md", ""))
	assert.False(t, ValidUpload("", "job"))
	assert.True(t, ValidUpload("/tmp/a.md", "job"))
}

func TestSet_WithAndTop(t *testing.T) {
	s := Initial(true)
	_, ok := s.Top()
	assert.False(t, ok)

	s = s.With(Upload, s.Upload.Open())
	s = s.With(APIKey, s.APIKey.Open())
	top, ok := s.Top()
	assert.True(t, ok)
	assert.Equal(t, APIKey, top.Kind)
	assert.True(t, s.AnyActive())

	s = s.With(SelectDocs, s.SelectDocs.Open())
	top, _ = s.Top()
	assert.Equal(t, SelectDocs, top.Kind)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "ACTIVE", Active.String())
	assert.Equal(t, "INACTIVE", Inactive.String())
	assert.Equal(t, "upload", Upload.String())
}

func TestAnyActive_EachKind(t *testing.T) {
	for _, k := range Kinds {
		t.Run(k.String(), func(t *testing.T) {
			s := Initial(true)
			require.False(t, s.AnyActive())
			s = s.With(k, s.Get(k).Open())
			assert.True(t, s.AnyActive())
		})
	}
}
