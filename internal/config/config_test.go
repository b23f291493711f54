// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// DEFAULTS AND ENV
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://docsapi.arc53.com", cfg.API.Host)
	assert.Equal(t, "openai_text-embedding-ada-002", cfg.API.EmbeddingsName)
	assert.Equal(t, 0, cfg.API.TimeoutSecs, "no timeout is enforced by default")
	assert.Len(t, cfg.UI.Links, 3)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("DOCSNAV_API_HOST", "http://localhost:7091")
	t.Setenv("VITE_API_HOST", "http://ignored:1")
	t.Setenv("VITE_EMBEDDINGS_NAME", "huggingface_sentence-transformers/all-mpnet-base-v2")
	t.Setenv("DOCSNAV_LOG_LEVEL", "debug")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://localhost:7091", cfg.API.Host, "DOCSNAV_* wins over VITE_*")
	assert.Equal(t, "huggingface_sentence-transformers/all-mpnet-base-v2", cfg.API.EmbeddingsName)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSetDefaults_TrimsHost(t *testing.T) {
	cfg := &Config{API: APIConfig{Host: " http://example.com/ "}}
	cfg.SetDefaults()
	assert.Equal(t, "http://example.com", cfg.API.Host)
	assert.Equal(t, DefaultEmbeddingsName, cfg.API.EmbeddingsName)
	assert.Equal(t, DefaultMobileBreakpoint, cfg.UI.MobileBreakpoint)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_Errors(t *testing.T) {
	cfg := Default()
	cfg.API.Host = "docsapi.arc53.com"
	cfg.UI.MobileBreakpoint = -1
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"api.host", "ui.mobile_breakpoint", "log.level"}, fields)
}

// =============================================================================
// FILE LOADING
// =============================================================================

func TestLoadFromPath_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
host = "http://127.0.0.1:5000/"
embeddings_name = "m1"

[ui]
mobile_breakpoint = 90

[[ui.links]]
label = "Wiki"
url = "https://wiki.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.API.Host)
	assert.Equal(t, "m1", cfg.API.EmbeddingsName)
	assert.Equal(t, 90, cfg.UI.MobileBreakpoint)
	assert.Equal(t, DefaultSidebarWidth, cfg.UI.SidebarWidth)
	require.Len(t, cfg.UI.Links, 1)
	assert.Equal(t, "Wiki", cfg.UI.Links[0].Label)
}

func TestLoadFromPath_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"embeddings_name":"m2"}}`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "m2", cfg.API.EmbeddingsName)
	assert.Equal(t, DefaultAPIHost, cfg.API.Host)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nhost = \"ftp://nope\"\n"), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.API.EmbeddingsName = "m3"

	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "m3", loaded.API.EmbeddingsName)
}

// =============================================================================
// DOT NOTATION
// =============================================================================

func TestGet(t *testing.T) {
	cfg := Default()

	v, err := cfg.GetString("api.embeddings_name")
	require.NoError(t, err)
	assert.Equal(t, DefaultEmbeddingsName, v)

	v, err = cfg.GetString("ui.mobile_breakpoint")
	require.NoError(t, err)
	assert.Equal(t, "100", v)

	_, err = cfg.Get("api.nope")
	assert.Error(t, err)

	_, err = cfg.Get("api.host.deeper")
	assert.Error(t, err)
}
