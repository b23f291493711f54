// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for source documents and
// conversations as the docs backend returns them.
//
// # Key Types
//
//   - Document: A source-document index (name, version, embedding model, location)
//   - DocumentKey: The (name, version, location) identity of a Document
//   - Location: Where an index lives, local or remote
//   - Conversation: A conversation list entry (id, name)
//   - Query: One prompt/response pair of a loaded conversation
//
// # Usage
//
// Resolve a persisted key against a freshly fetched catalog:
//
//	key := doc.Key()
//	if d, ok := model.FindDocument(catalog, key); ok {
//	    fmt.Println(d.Label())
//	}
package model
