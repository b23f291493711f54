// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the docs backend.
//
// One request per call, no retries, no backoff. Callers decide what a failure
// means (usually: log it and keep the previous state).
//
// # Key Types
//
//   - Client: one method per backend endpoint
//   - Error: non-2xx response with status and truncated body
//   - UploadRequest, TaskStatus: document ingest workflow
//
// # Usage
//
//	client := api.NewClient(cfg.API.Host).
//	    WithLogger(log).
//	    WithMetrics(metrics.Global()).
//	    WithRateLimit(cfg.API.RequestsPerSecond)
//
//	docs, err := client.ListDocuments(ctx)
//	if err != nil {
//	    logging.Diag(log, "fetch catalog", err)
//	}
package api
