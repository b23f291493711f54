// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog implements the source-document catalog operations: fetching
// the listing, filtering it by embeddings model and deleting local indexes.
//
// The catalog itself lives in application state; this package only provides
// the operations over a []model.Document.
package catalog

import (
	"context"
	"fmt"

	"github.com/jeranaias/docsnav/internal/model"
)

// IndexRoot is the storage prefix the backend keeps indexes under.
const IndexRoot = "indexes"

// Backend is the part of the API client the catalog needs.
type Backend interface {
	ListDocuments(ctx context.Context) ([]model.Document, error)
	DeleteIndex(ctx context.Context, path string) error
}

// Fetch loads the complete catalog. The result is meant to replace the cached
// list wholesale; there is no merging and no retry.
func Fetch(ctx context.Context, b Backend) ([]model.Document, error) {
	docs, err := b.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	return docs, nil
}

// FilterByModel keeps the documents built with embeddings model m, in their
// original order. The input slice is not modified.
func FilterByModel(docs []model.Document, m string) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if d.Model == m {
			out = append(out, d)
		}
	}
	return out
}

// Selectable returns the documents offered by the selection modal: every
// document that reports a model at all.
func Selectable(docs []model.Document) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if d.Model != "" {
			out = append(out, d)
		}
	}
	return out
}

// IndexPath is the storage path sent to the delete endpoint.
//
// The "local" segment is fixed: the backend only stores uploaded indexes
// under it, and remote documents are never offered for deletion by the UI.
// Calling this on a remote document still yields a local path.
func IndexPath(doc model.Document) string {
	return IndexRoot + "/" + string(model.LocationLocal) + "/" + doc.Name
}

// Delete removes the index of doc on the backend.
func Delete(ctx context.Context, b Backend, doc model.Document) error {
	if err := b.DeleteIndex(ctx, IndexPath(doc)); err != nil {
		return fmt.Errorf("delete %s: %w", doc.Key(), err)
	}
	return nil
}

// Remove returns docs without the entry identified by key. Order is kept.
func Remove(docs []model.Document, key model.DocumentKey) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if d.Key() != key {
			out = append(out, d)
		}
	}
	return out
}
