// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/docsnav/internal/metrics"
	"github.com/jeranaias/docsnav/internal/model"
)

// Endpoint paths consumed by docsnav.
const (
	PathListDocuments      = "/api/combine"
	PathDeleteIndex        = "/api/delete_old"
	PathListConversations  = "/api/get_conversations"
	PathGetConversation    = "/api/get_single_conversation"
	PathDeleteConversation = "/api/delete_conversation"
	PathRenameConversation = "/api/update_conversation_name"
	PathUpload             = "/api/upload"
	PathTaskStatus         = "/api/task_status"
)

const (
	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "docsnav/1.0"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMalformedResponse indicates a body that could not be decoded into the
	// expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrEmptyID indicates a conversation call without an id.
	ErrEmptyID = errors.New("conversation id is required")
)

// Error is a non-2xx answer from the backend.
type Error struct {
	Endpoint string
	Status   int
	Body     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.Status)
}

// IsStatus reports whether err is an *Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the docs backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
	metrics    *metrics.Metrics
	user       string
}

// NewClient creates a client for the backend at baseURL.
// The http.Client has no timeout: callers bound requests with their context.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
		user:       "local",
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func (c *Client) WithRateLimit(perSecond float64) *Client {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// WithLogger sets the diagnostic logger.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log.With().Str("component", "api").Logger()
	return c
}

// WithMetrics records request counters into m.
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.metrics = m
	return c
}

// WithUser sets the owner reported for uploads.
func (c *Client) WithUser(user string) *Client {
	if user != "" {
		c.user = user
	}
	return c
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) endpointURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			// Do never ran, so the body is still ours to close.
			if req.Body != nil {
				_ = req.Body.Close()
			}
			return nil, fmt.Errorf("%s: %w", endpoint, err)
		}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	// Don't log query strings or bodies, only method and path.
	c.log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("api request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, duration, err)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		c.metrics.ObserveRequest(endpoint, duration, err)
		return nil, fmt.Errorf("%s: reading body: %w", endpoint, err)
	}

	c.log.Debug().Str("path", req.URL.Path).Int("status", resp.StatusCode).Dur("duration", duration).Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Endpoint: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(truncateBody(body))}
		c.metrics.ObserveRequest(endpoint, duration, apiErr)
		return nil, apiErr
	}

	c.metrics.ObserveRequest(endpoint, duration, nil)
	return body, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(path, query), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	return c.do(req, endpoint)
}

func (c *Client) post(ctx context.Context, endpoint, path string, query url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, endpoint)
}

func decode(endpoint string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: %w: %v", endpoint, ErrMalformedResponse, err)
	}
	return nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// ListDocuments fetches the full source-document catalog.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	const endpoint = "combine"
	body, err := c.get(ctx, endpoint, PathListDocuments, nil)
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := decode(endpoint, body, &raw); err != nil {
		return nil, err
	}

	// One entry the client cannot read must not hide the rest of the catalog.
	docs := make([]model.Document, 0, len(raw))
	for i, entry := range raw {
		var doc model.Document
		if err := json.Unmarshal(entry, &doc); err != nil {
			c.log.Warn().Err(err).Int("index", i).Msg("skipping unreadable document entry")
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DeleteIndex removes the document index stored at path.
func (c *Client) DeleteIndex(ctx context.Context, path string) error {
	_, err := c.get(ctx, "delete_old", PathDeleteIndex, url.Values{"path": {path}})
	return err
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// ListConversations fetches the conversation list in backend order.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	const endpoint = "get_conversations"
	body, err := c.get(ctx, endpoint, PathListConversations, nil)
	if err != nil {
		return nil, err
	}

	var convs []model.Conversation
	if err := decode(endpoint, body, &convs); err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []model.Conversation{}
	}
	return convs, nil
}

// GetConversation fetches the full content of one conversation. The backend
// answers with either the bare query list or an object holding it.
func (c *Client) GetConversation(ctx context.Context, id string) (*model.ConversationDetail, error) {
	const endpoint = "get_single_conversation"
	if id == "" {
		return nil, ErrEmptyID
	}

	body, err := c.get(ctx, endpoint, PathGetConversation, url.Values{"id": {id}})
	if err != nil {
		return nil, err
	}

	detail := &model.ConversationDetail{ID: id}
	trimmed := bytes.TrimSpace(body)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		if err := decode(endpoint, trimmed, &detail.Queries); err != nil {
			return nil, err
		}
	case bytes.HasPrefix(trimmed, []byte("{")):
		if err := decode(endpoint, trimmed, detail); err != nil {
			return nil, err
		}
		detail.ID = id
	default:
		return nil, fmt.Errorf("%s: %w: unexpected body", endpoint, ErrMalformedResponse)
	}
	return detail, nil
}

// DeleteConversation removes a conversation. Any 2xx counts as success.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	_, err := c.post(ctx, "delete_conversation", PathDeleteConversation, url.Values{"id": {id}}, nil)
	return err
}

type renameRequest struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// RenameConversation renames a conversation and reports whether the backend
// answered with a truthy JSON value.
func (c *Client) RenameConversation(ctx context.Context, id, name string) (bool, error) {
	const endpoint = "update_conversation_name"
	if id == "" {
		return false, ErrEmptyID
	}

	body, err := c.post(ctx, endpoint, PathRenameConversation, nil, renameRequest{Name: name, ID: id})
	if err != nil {
		return false, err
	}

	var result any
	if err := decode(endpoint, body, &result); err != nil {
		return false, err
	}
	return Truthy(result), nil
}

// Truthy applies JavaScript truthiness to a decoded JSON value: false, 0, ""
// and null are falsy, everything else (including empty objects) is truthy.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
