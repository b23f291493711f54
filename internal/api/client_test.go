// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docsnav/internal/metrics"
	"github.com/jeranaias/docsnav/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func TestListDocuments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, PathListDocuments, r.URL.Path)
		w.Write([]byte(`[
			{"name":"A","version":"1","model":"m1","location":"local"},
			{"name":"B","version":"2","model":"m2","location":"remote","fullName":"Bee"}
		]`))
	})

	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, model.LocationLocal, docs[0].Location)
	assert.Equal(t, "Bee", docs[1].FullName)
}

func TestListDocuments_MissingLocationIsRemote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"react","version":"18","model":"m1"}]`))
	})

	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.LocationRemote, docs[0].Location)
}

func TestListDocuments_SkipsUnknownLocation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"name":"A","version":"1","model":"m1","location":"local"},
			{"name":"X","version":"1","model":"m1","location":"custom"},
			{"name":"B","version":"2","model":"m1","location":"remote"}
		]`))
	})

	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "A", docs[0].Name)
	assert.Equal(t, "B", docs[1].Name)
}

func TestListDocuments_NullBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestListDocuments_Malformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := client.ListDocuments(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestListDocuments_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListDocuments(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "combine", apiErr.Endpoint)
	assert.Equal(t, "boom", apiErr.Body)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
}

func TestDeleteIndex_SendsPath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, PathDeleteIndex, r.URL.Path)
		gotPath = r.URL.Query().Get("path")
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteIndex(context.Background(), "indexes/local/A"))
	assert.Equal(t, "indexes/local/A", gotPath)
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

func TestListConversations_PreservesOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathListConversations, r.URL.Path)
		w.Write([]byte(`[{"id":"c3","name":"third"},{"id":"c1","name":"first"}]`))
	})

	convs, err := client.ListConversations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Conversation{{ID: "c3", Name: "third"}, {ID: "c1", Name: "first"}}, convs)
}

func TestGetConversation_BareList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "c1", r.URL.Query().Get("id"))
		w.Write([]byte(`[{"prompt":"hi","response":"hello"}]`))
	})

	detail, err := client.GetConversation(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", detail.ID)
	require.Len(t, detail.Queries, 1)
	assert.Equal(t, "hello", detail.Queries[0].Response)
}

func TestGetConversation_Object(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"queries":[{"prompt":"a","response":"b"},{"prompt":"c","response":"d"}]}`))
	})

	detail, err := client.GetConversation(context.Background(), "c9")
	require.NoError(t, err)
	assert.Equal(t, "c9", detail.ID)
	assert.Len(t, detail.Queries, 2)
}

func TestGetConversation_EmptyID(t *testing.T) {
	client := NewClient("http://unused.invalid")
	_, err := client.GetConversation(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestDeleteConversation(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathDeleteConversation, r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("id"))
	})

	require.NoError(t, client.DeleteConversation(context.Background(), "c1"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRenameConversation_Body(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "New name", "id": "c1"}, body)
		w.Write([]byte(`true`))
	})

	ok, err := client.RenameConversation(context.Background(), "c1", "New name")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenameConversation_Truthiness(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`0`, false},
		{`1`, true},
		{`""`, false},
		{`"ok"`, true},
		{`{}`, true},
		{`[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			ok, err := client.RenameConversation(context.Background(), "c1", "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

// =============================================================================
// UPLOAD
// =============================================================================

func TestUpload_Multipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathUpload, r.URL.Path)
		// Streamed, so the length is not known up front.
		assert.Equal(t, int64(-1), r.ContentLength)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "guide", r.FormValue("name"))
		assert.Equal(t, "local", r.FormValue("user"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "readme.md", hdr.Filename)
		assert.Equal(t, "# hello", string(data))

		w.Write([]byte(`{"status":"ok","task_id":"t-1"}`))
	})

	id, err := client.Upload(context.Background(), UploadRequest{
		Name:     "guide",
		FileName: "/tmp/docs/readme.md",
		Content:  strings.NewReader("# hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", id)
}

func TestUpload_LargeFileStreams(t *testing.T) {
	const size = 4 << 20
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		require.NoError(t, err)
		part, err := mr.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "file", part.FormName())
		n, err := io.Copy(io.Discard, part)
		require.NoError(t, err)
		assert.Equal(t, int64(size), n)
		w.Write([]byte(`{"task_id":"t-big"}`))
	})

	id, err := client.Upload(context.Background(), UploadRequest{
		Name:     "big",
		FileName: "big.txt",
		Content:  strings.NewReader(strings.Repeat("x", size)),
	})
	require.NoError(t, err)
	assert.Equal(t, "t-big", id)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestUpload_ReadErrorFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"task_id":"t-1"}`))
	})

	_, err := client.Upload(context.Background(), UploadRequest{
		Name:     "broken",
		FileName: "a.md",
		Content:  failingReader{},
	})
	assert.Error(t, err)
}

func TestUpload_RequiresName(t *testing.T) {
	client := NewClient("http://unused.invalid")
	_, err := client.Upload(context.Background(), UploadRequest{Content: strings.NewReader("x")})
	assert.Error(t, err)
}

func TestWaitForTask(t *testing.T) {
	var polls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "t-1", r.URL.Query().Get("task_id"))
		if polls.Add(1) < 3 {
			w.Write([]byte(`{"status":"PROGRESS"}`))
			return
		}
		w.Write([]byte(`{"status":"success","result":{"directory":"guide"}}`))
	})

	status, err := client.WaitForTask(context.Background(), "t-1", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, TaskSuccess, status.Status)
	assert.Equal(t, int32(3), polls.Load())
}

func TestWaitForTask_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILURE"}`))
	})

	_, err := client.WaitForTask(context.Background(), "t-1", time.Millisecond)
	assert.ErrorIs(t, err, ErrTaskFailed)
}

// =============================================================================
// PLUMBING
// =============================================================================

func TestClient_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == PathListConversations {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL).WithMetrics(m)
	_, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	_, err = client.ListConversations(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("combine", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.APIRequests.WithLabelValues("get_conversations", metrics.OutcomeError)))
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListDocuments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RateLimitDisabled(t *testing.T) {
	client := NewClient("http://x").WithRateLimit(0)
	assert.Nil(t, client.limiter)

	client.WithRateLimit(0.5)
	require.NotNil(t, client.limiter)
	assert.Equal(t, 1, client.limiter.Burst())
}

