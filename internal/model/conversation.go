// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
)

// =============================================================================
// CONVERSATION LIST ENTRY
// =============================================================================

// Conversation is one tile of the sidebar's conversation list.
type Conversation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FindConversation returns the index of id in convs, or -1.
func FindConversation(convs []Conversation, id string) int {
	for i, c := range convs {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// LOADED CONVERSATION
// =============================================================================

// Source is a retrieval citation attached to a response.
type Source struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Query is a single prompt and the backend's answer to it.
type Query struct {
	Prompt   string   `json:"prompt"`
	Response string   `json:"response"`
	Sources  []Source `json:"sources,omitempty"`
}

// ConversationDetail is the full content fetched for the active conversation.
type ConversationDetail struct {
	ID      string  `json:"id"`
	Queries []Query `json:"queries"`
}

// Markdown renders the conversation as a markdown transcript.
func (c *ConversationDetail) Markdown() string {
	if c == nil || len(c.Queries) == 0 {
		return "_This conversation is empty._\n"
	}

	var sb strings.Builder
	for i, q := range c.Queries {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString("**You:** ")
		sb.WriteString(strings.TrimSpace(q.Prompt))
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(q.Response))
		sb.WriteString("\n")
		if len(q.Sources) > 0 {
			sb.WriteString("\n*Sources:*\n")
			for _, s := range q.Sources {
				title := s.Title
				if title == "" {
					title = "untitled"
				}
				sb.WriteString("- ")
				sb.WriteString(title)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
