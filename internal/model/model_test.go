// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationUnmarshal(t *testing.T) {
	tests := []struct {
		raw     string
		want    Location
		wantErr bool
	}{
		{`"local"`, LocationLocal, false},
		{`"Remote"`, LocationRemote, false},
		{`""`, LocationRemote, false},
		{`"s3"`, "", true},
	}

	for _, tc := range tests {
		var got Location
		err := json.Unmarshal([]byte(tc.raw), &got)
		if tc.wantErr {
			assert.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestDocumentDecode(t *testing.T) {
	raw := `[{"name":"react","version":"18","model":"openai_text-embedding-ada-002","location":"remote","language":"js"}]`

	var docs []Document
	require.NoError(t, json.Unmarshal([]byte(raw), &docs))
	require.Len(t, docs, 1)

	assert.Equal(t, "react 18", docs[0].Label())
	assert.Equal(t, DocumentKey{Name: "react", Version: "18", Location: LocationRemote}, docs[0].Key())
	assert.False(t, docs[0].IsLocal())
}

func TestDocumentDecode_MissingLocation(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"name":"react","version":"18","model":"m1"}`), &doc))
	assert.Equal(t, LocationRemote, doc.Location)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"mine","location":"LOCAL"}`), &doc))
	assert.Equal(t, LocationLocal, doc.Location)
	assert.True(t, doc.IsLocal())

	assert.Error(t, json.Unmarshal([]byte(`{"name":"x","location":"custom"}`), &doc))
}

func TestFindDocument(t *testing.T) {
	docs := []Document{
		{Name: "A", Version: "1", Location: LocationLocal},
		{Name: "A", Version: "1", Location: LocationRemote},
	}

	d, ok := FindDocument(docs, DocumentKey{Name: "A", Version: "1", Location: LocationRemote})
	require.True(t, ok)
	assert.Equal(t, LocationRemote, d.Location)

	_, ok = FindDocument(docs, DocumentKey{Name: "A", Version: "2", Location: LocationRemote})
	assert.False(t, ok)
}

func TestConversationDetailMarkdown(t *testing.T) {
	var nilDetail *ConversationDetail
	assert.Contains(t, nilDetail.Markdown(), "empty")

	c := &ConversationDetail{ID: "1", Queries: []Query{
		{Prompt: "what is a hook?", Response: "A function.", Sources: []Source{{Title: "hooks.md"}}},
		{Prompt: "thanks", Response: "You're welcome."},
	}}
	md := c.Markdown()
	assert.Contains(t, md, "**You:** what is a hook?")
	assert.Contains(t, md, "- hooks.md")
	assert.Contains(t, md, "---")
}

func TestFindConversation(t *testing.T) {
	convs := []Conversation{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, FindConversation(convs, "b"))
	assert.Equal(t, -1, FindConversation(convs, "z"))
}
