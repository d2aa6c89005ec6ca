// Package clinicapi is the Go client for the clinic REST API. It wraps
// each endpoint in a typed method and normalizes every unsuccessful
// response into a single *APIError.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 20 * time.Second

// APIError is the one error shape callers need to handle: the
// human-readable message extracted from the server's error envelope and
// the HTTP status code.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client talks to the clinic API at a configured base address, e.g.
// "http://localhost:8080/api/v1".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client. httpClient may be nil, in which case
// a client with a default timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Get performs an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, token, body, out)
}

// Put performs an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path, token string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, token, body, out)
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path, token string) error {
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("clinicapi: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("clinicapi: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

// PostMultipart submits a multipart form, attaching file under fileField
// when file is non-nil.
func (c *Client) PostMultipart(ctx context.Context, path, token string, fields map[string]string, fileField string, file *Upload, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("clinicapi: write field %s: %w", k, err)
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile(fileField, file.Filename)
		if err != nil {
			return fmt.Errorf("clinicapi: create file part: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("clinicapi: copy file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("clinicapi: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("clinicapi: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clinicapi: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("clinicapi: decode response: %w", err)
	}
	return nil
}

// decodeError extracts the message from the server's error envelope:
// {"detail": "..."} or {"detail": [{"msg": "..."}, ...]}. Anything else
// falls back to "HTTP <status>".
func decodeError(resp *http.Response) error {
	apiErr := &APIError{
		Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
		Status:  resp.StatusCode,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil && msg != "" {
		apiErr.Message = msg
		return apiErr
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &list); err == nil && len(list) > 0 && list[0].Msg != "" {
		apiErr.Message = list[0].Msg
	}
	return apiErr
}

// Upload is a file attached to a multipart submission.
type Upload struct {
	Filename string
	Content  io.Reader
}
