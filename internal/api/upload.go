// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Task states reported by /api/task_status.
const (
	TaskPending  = "PENDING"
	TaskProgress = "PROGRESS"
	TaskSuccess  = "SUCCESS"
	TaskFailure  = "FAILURE"
)

// ErrTaskFailed is returned by WaitForTask when the ingest job fails.
var ErrTaskFailed = errors.New("ingest task failed")

// UploadRequest describes one document upload.
type UploadRequest struct {
	// Name is the job name the index will be stored under.
	Name string
	// FileName is the name sent for the multipart file part.
	FileName string
	// Content is the file body.
	Content io.Reader
}

type uploadResponse struct {
	Status string `json:"status"`
	TaskID string `json:"task_id"`
}

// TaskStatus is the state of an ingest job.
type TaskStatus struct {
	Status string         `json:"status"`
	Result map[string]any `json:"result,omitempty"`
}

// Done reports whether the task reached a terminal state.
func (s TaskStatus) Done() bool {
	return s.Status == TaskSuccess || s.Status == TaskFailure
}

// Upload sends a document for ingestion and returns the task id.
func (c *Client) Upload(ctx context.Context, up UploadRequest) (string, error) {
	const endpoint = "upload"
	if strings.TrimSpace(up.Name) == "" {
		return "", fmt.Errorf("%s: job name is required", endpoint)
	}
	if up.Content == nil {
		return "", fmt.Errorf("%s: no file content", endpoint)
	}

	// The form is written into a pipe while the request reads it, so the file
	// is never held in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(mw, up, c.user))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(PathUpload, nil), pr)
	if err != nil {
		pr.CloseWithError(err)
		return "", fmt.Errorf("%s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := decode(endpoint, body, &resp); err != nil {
		return "", err
	}
	if resp.TaskID == "" {
		return "", fmt.Errorf("%s: %w: missing task_id", endpoint, ErrMalformedResponse)
	}
	return resp.TaskID, nil
}

func writeUploadForm(mw *multipart.Writer, up UploadRequest, user string) error {
	part, err := mw.CreateFormFile("file", filepath.Base(up.FileName))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, up.Content); err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if err := mw.WriteField("name", up.Name); err != nil {
		return err
	}
	if err := mw.WriteField("user", user); err != nil {
		return err
	}
	return mw.Close()
}

// TaskStatus fetches the state of an ingest job.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (TaskStatus, error) {
	const endpoint = "task_status"
	body, err := c.get(ctx, endpoint, PathTaskStatus, url.Values{"task_id": {taskID}})
	if err != nil {
		return TaskStatus{}, err
	}

	var status TaskStatus
	if err := decode(endpoint, body, &status); err != nil {
		return TaskStatus{}, err
	}
	status.Status = strings.ToUpper(status.Status)
	return status, nil
}

// WaitForTask polls TaskStatus every interval until the task is done or ctx
// ends. A FAILURE state is returned as ErrTaskFailed.
func (c *Client) WaitForTask(ctx context.Context, taskID string, interval time.Duration) (TaskStatus, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.TaskStatus(ctx, taskID)
		if err != nil {
			return status, err
		}
		if status.Done() {
			if status.Status == TaskFailure {
				return status, ErrTaskFailed
			}
			return status, nil
		}

		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}
