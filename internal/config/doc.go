// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for docsnav.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - APIConfig: Backend host, embedding model, request limits
//   - UIConfig: Mobile breakpoint, sidebar width, theme, external links
//   - LogConfig / MetricsConfig: Diagnostic channel and Prometheus endpoint
//
// # Configuration Precedence
//
// Configuration is resolved once at startup from (in order of precedence):
//   - Environment variables (DOCSNAV_*, plus VITE_API_HOST and VITE_EMBEDDINGS_NAME)
//   - ~/.docsnav/config.toml
//   - ~/.docsnav/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(cfg.API.Host)
package config
