// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - docs, convs, key, upload, links and config commands.

package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docsnav/internal/api"
	"github.com/jeranaias/docsnav/internal/app"
	"github.com/jeranaias/docsnav/internal/catalog"
	"github.com/jeranaias/docsnav/internal/config"
	"github.com/jeranaias/docsnav/internal/modal"
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/nav"
	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/util"
)

var (
	// ErrNotFound is returned when a named document or conversation is absent.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a name matches several documents.
	ErrAmbiguous = errors.New("ambiguous document name")
	// ErrRemoteDocument is returned when deleting a document not stored locally.
	ErrRemoteDocument = errors.New("only local documents can be deleted")
	// ErrEmptyKey is returned when the API key dialog rejects its input.
	ErrEmptyKey = errors.New("API key must not be empty")
	// ErrIncompleteUpload is returned when the upload form is missing fields.
	ErrIncompleteUpload = errors.New("upload needs a file and a --name")
	// ErrConfigExists is returned by config init when a config file is present.
	ErrConfigExists = errors.New("config file already exists (use --force)")
)

// =============================================================================
// DOCS
// =============================================================================

func runDocs(s *Session, args []string) error {
	p := NewArgParser(args, "all", "json")
	switch p.Subcommand() {
	case "", "list", "ls":
		return docsList(s, p)
	case "select", "use":
		return docsSelect(s, p)
	case "delete", "rm":
		return docsDelete(s, p)
	default:
		return usageError("unknown docs subcommand %q", p.Subcommand())
	}
}

func (s *Session) ensureCatalog() error {
	if s.State.CatalogLoaded() {
		return nil
	}
	return s.dispatch(s.App.FetchCatalog()...)
}

func docsList(s *Session, p *ArgParser) error {
	if err := s.ensureCatalog(); err != nil {
		return err
	}

	docs := catalog.FilterByModel(s.State.Catalog, s.State.EmbeddingsName)
	if p.BoolFlag("all") {
		docs = s.State.Catalog
	}

	if p.BoolFlag("json") {
		return NewJSONResponse("docs list", docs).Write(s.Out, s.Color)
	}

	if len(docs) == 0 {
		s.printf("%s\n", s.style(DimStyle.Render, "No documents for model "+s.State.EmbeddingsName))
		return nil
	}
	for _, d := range docs {
		marker := "  "
		if d.Key() == s.State.Selection {
			marker = s.style(HighlightStyle.Render, "* ")
		}
		s.printf("%s%s %-8s %s\n", marker, util.PadWidth(d.Label(), 32), d.Location, s.style(DimStyle.Render, d.Model))
	}
	return nil
}

// findDocument resolves a name and optional version against the catalog.
func findDocument(docs []model.Document, name, version string) (model.Document, error) {
	var matches []model.Document
	for _, d := range docs {
		if d.Name == name && (version == "" || d.Version == version) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return model.Document{}, fmt.Errorf("document %q: %w", name, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		labels := make([]string, len(matches))
		for i, m := range matches {
			labels[i] = m.Key().String()
		}
		return model.Document{}, fmt.Errorf("%w: %s", ErrAmbiguous, strings.Join(labels, ", "))
	}
}

func docsSelect(s *Session, p *ArgParser) error {
	name := p.Positional(1)
	if name == "" {
		return usageError("docs select <name> [version]")
	}
	if err := s.ensureCatalog(); err != nil {
		return err
	}
	doc, err := findDocument(catalog.Selectable(s.State.Catalog), name, p.Positional(2))
	if err != nil {
		return err
	}

	// Same path as the selection dialog: open, pick, submit.
	if err := s.dispatch(
		state.OpenModal{Kind: modal.SelectDocs},
		state.PickPending{Key: doc.Key()},
		state.SubmitSelection{},
	); err != nil {
		return err
	}
	s.printf("%s %s\n", s.style(SuccessStyle.Render, "Selected"), doc.Label())
	if doc.Model != s.State.EmbeddingsName {
		s.printf("%s\n", s.style(DimStyle.Render, "note: built with "+doc.Model+", not "+s.State.EmbeddingsName))
	}
	return nil
}

func docsDelete(s *Session, p *ArgParser) error {
	name := p.Positional(1)
	if name == "" {
		return usageError("docs delete <name> [version]")
	}
	if err := s.ensureCatalog(); err != nil {
		return err
	}
	doc, err := findDocument(s.State.Catalog, name, p.Positional(2))
	if err != nil {
		return err
	}
	if !doc.IsLocal() {
		return fmt.Errorf("%s: %w", doc.Label(), ErrRemoteDocument)
	}

	wasSelected := doc.Key() == s.State.Selection
	err = s.dispatch(s.App.DeleteDocument(doc)...)
	if api.IsStatus(err, http.StatusNotFound) {
		// The index is already gone; reload so the listing matches the backend.
		if ferr := s.dispatch(s.App.FetchCatalog()...); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%s: index %w on the backend", doc.Label(), ErrNotFound)
	}
	if err != nil {
		return err
	}
	s.printf("%s %s\n", s.style(SuccessStyle.Render, "Deleted"), doc.Label())
	if wasSelected {
		s.printf("%s\n", s.style(DimStyle.Render, "The deleted document was selected; run 'docs select' to pick another."))
	}
	return nil
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

func runConvs(s *Session, args []string) error {
	p := NewArgParser(args, "json")
	switch p.Subcommand() {
	case "", "list", "ls":
		return convsList(s, p)
	case "show", "open":
		return convsShow(s, p)
	case "rename", "mv":
		return convsRename(s, p)
	case "delete", "rm":
		return convsDelete(s, p)
	default:
		return usageError("unknown convs subcommand %q", p.Subcommand())
	}
}

func (s *Session) ensureConversations() error {
	if !s.App.NeedsConversations(s.State) {
		return nil
	}
	return s.dispatch(s.App.FetchConversations()...)
}

// knownConversation rejects ids missing from an already loaded list. With no
// list loaded the backend decides.
func (s *Session) knownConversation(id string) error {
	if s.State.Conversations == nil || model.FindConversation(s.State.Conversations, id) >= 0 {
		return nil
	}
	return fmt.Errorf("conversation %q: %w", id, ErrNotFound)
}

func convsList(s *Session, p *ArgParser) error {
	if err := s.ensureConversations(); err != nil {
		return err
	}
	if p.BoolFlag("json") {
		return NewJSONResponse("convs list", s.State.Conversations).Write(s.Out, s.Color)
	}
	if len(s.State.Conversations) == 0 {
		s.printf("%s\n", s.style(DimStyle.Render, "No conversations"))
		return nil
	}
	for _, c := range s.State.Conversations {
		marker := "  "
		if c.ID == s.State.ConversationID {
			marker = s.style(HighlightStyle.Render, "* ")
		}
		s.printf("%s%s  %s\n", marker, s.style(DimStyle.Render, c.ID), util.SingleLine(c.Name))
	}
	return nil
}

func convsShow(s *Session, p *ArgParser) error {
	id := p.Positional(1)
	if id == "" {
		return usageError("convs show <id>")
	}
	if err := s.dispatch(s.App.LoadConversation(id)...); err != nil {
		return err
	}

	md := s.State.Active.Markdown()
	if !s.Color {
		s.printf("%s", md)
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		s.printf("%s", md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		s.printf("%s", md)
		return nil
	}
	s.printf("%s", out)
	return nil
}

func convsRename(s *Session, p *ArgParser) error {
	id := p.Positional(1)
	name := app.NormalizeName(strings.Join(p.PositionalFrom(2), " "))
	if id == "" || name == "" {
		return usageError("convs rename <id> <name...>")
	}

	if err := s.knownConversation(id); err != nil {
		return err
	}

	actions := s.App.RenameConversation(id, name)
	if err := s.dispatch(actions...); err != nil {
		return err
	}
	if len(actions) == 0 {
		s.printf("%s\n", s.style(DimStyle.Render, "Backend reported no change."))
		return nil
	}
	s.printf("%s %s -> %s\n", s.style(SuccessStyle.Render, "Renamed"), id, name)
	return nil
}

func convsDelete(s *Session, p *ArgParser) error {
	id := p.Positional(1)
	if id == "" {
		return usageError("convs delete <id>")
	}
	if err := s.knownConversation(id); err != nil {
		return err
	}
	if err := s.dispatch(s.App.DeleteConversation(id)...); err != nil {
		return err
	}
	s.printf("%s %s\n", s.style(SuccessStyle.Render, "Deleted"), id)
	return nil
}

// =============================================================================
// API KEY
// =============================================================================

func runKey(s *Session, args []string) error {
	p := NewArgParser(args)
	switch p.Subcommand() {
	case "set":
		key := p.Positional(1)
		if key == "" && s.ReadSecret != nil {
			var err error
			if key, err = s.ReadSecret("API key: "); err != nil {
				return err
			}
		}
		s.State = app.Dispatch(s.State, state.OpenModal{Kind: modal.APIKey}, state.EditAPIKey{Value: key})
		if err := s.dispatch(state.SubmitAPIKey{}); err != nil {
			return err
		}
		if s.State.Modals.APIKey.Err {
			s.State = app.Dispatch(s.State, state.CancelModal{Kind: modal.APIKey})
			return ErrEmptyKey
		}
		s.printf("%s\n", s.style(SuccessStyle.Render, "API key saved."))
		return nil
	case "status", "":
		if s.State.KeySet() {
			s.printf("API key is set.\n")
		} else {
			s.printf("API key is not set.\n")
		}
		return nil
	default:
		return usageError("key set [key] | key status")
	}
}

// =============================================================================
// UPLOAD
// =============================================================================

func runUpload(s *Session, args []string) error {
	p := NewArgParser(args)
	path, name := p.Positional(0), p.Flag("name")

	s.State = app.Dispatch(s.State,
		state.OpenModal{Kind: modal.Upload},
		state.EditUpload{Path: path, Name: name},
		state.SubmitUpload{},
	)
	if s.State.Modals.Upload.Err {
		s.State = app.Dispatch(s.State, state.CancelModal{Kind: modal.Upload})
		return ErrIncompleteUpload
	}

	s.printf("Uploading %s as %q...\n", path, name)
	if err := s.dispatch(s.App.Upload(path, name)...); err != nil {
		return err
	}
	s.printf("%s %s\n", s.style(SuccessStyle.Render, "Trained"), name)
	return nil
}

// =============================================================================
// LINKS AND CONFIG
// =============================================================================

func runLinks(s *Session, _ []string) error {
	s.printf("%s %s\n", RenderLabel("About"), "docsnav "+Version)
	for _, l := range nav.Links(s.Config.UI.Links) {
		s.printf("%s %s\n", RenderLabel(l.Label), l.URL)
	}
	return nil
}

func runConfig(s *Session, args []string) error {
	p := NewArgParser(args, "force")
	switch p.Subcommand() {
	case "", "show":
		if key := p.Positional(1); key != "" {
			v, err := s.Config.GetString(key)
			if err != nil {
				return err
			}
			s.printf("%s\n", v)
			return nil
		}
		return toml.NewEncoder(s.Out).Encode(s.Config)
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		s.printf("%s\n", path)
		return nil
	case "init":
		return configInit(s, p.BoolFlag("force"))
	default:
		return usageError("config show [key] | config path | config init [--force]")
	}
}

// configInit writes the default configuration to the TOML config path.
func configInit(s *Session, force bool) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	if err := config.Save(config.Default()); err != nil {
		return err
	}
	s.printf("%s %s\n", s.style(SuccessStyle.Render, "Wrote"), path)
	return nil
}
