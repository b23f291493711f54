// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// LOCATION
// =============================================================================

// Location tells where a document index is stored.
type Location string

const (
	// LocationLocal is an index uploaded to this backend.
	LocationLocal Location = "local"
	// LocationRemote is an index shipped by the backend's default library.
	LocationRemote Location = "remote"
)

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	return l == LocationLocal || l == LocationRemote
}

// UnmarshalJSON accepts any case and treats an empty value as remote,
// which is how the backend reports its bundled libraries.
func (l *Location) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		*l = LocationRemote
		return nil
	}
	loc := Location(s)
	if !loc.Valid() {
		return fmt.Errorf("unknown document location %q", s)
	}
	*l = loc
	return nil
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is one entry of the source-document catalog.
type Document struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Model    string   `json:"model"`
	Location Location `json:"location"`

	// Optional descriptive fields the listing endpoint may include.
	Language    string `json:"language,omitempty"`
	Description string `json:"description,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	Date        string `json:"date,omitempty"`
	DocLink     string `json:"docLink,omitempty"`
}

// UnmarshalJSON fills a missing location with LocationRemote.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	v := plain{Location: LocationRemote}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Document(v)
	return nil
}

// DocumentKey is the implicit identity of a Document. The backend has no
// explicit id, so selection refers to documents through this tuple.
type DocumentKey struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Location Location `json:"location"`
}

// Key returns the identity tuple of d.
func (d Document) Key() DocumentKey {
	return DocumentKey{Name: d.Name, Version: d.Version, Location: d.Location}
}

// Label is the "name version" string the sidebar shows.
func (d Document) Label() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + " " + d.Version
}

// IsLocal reports whether the index was uploaded to this backend.
func (d Document) IsLocal() bool {
	return d.Location == LocationLocal
}

// IsZero reports whether k is the empty key.
func (k DocumentKey) IsZero() bool {
	return k == DocumentKey{}
}

// String renders k for logs and CLI output.
func (k DocumentKey) String() string {
	return fmt.Sprintf("%s@%s (%s)", k.Name, k.Version, k.Location)
}

// FindDocument looks up key in docs.
func FindDocument(docs []Document, key DocumentKey) (Document, bool) {
	for _, d := range docs {
		if d.Key() == key {
			return d, true
		}
	}
	return Document{}, false
}
