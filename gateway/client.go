// Package gateway wraps the remote AAFA backend REST API. All transport and
// payload errors are normalized to a single human-readable message before
// they reach callers; no raw transport error leaks upward.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/config"
	"github.com/AKM-dv/aafa-partner/utils"
)

// ErrTokenRequired is returned when an authenticated call is attempted
// without a bearer token. The request is never sent to the network.
var ErrTokenRequired = errors.New("authentication token is required for this request")

// APIError carries the normalized message of a failed backend call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the AAFA backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client from the loaded application config.
func NewClient() *Client {
	timeout := time.Duration(config.AppConfig.APITimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: config.AppConfig.APIBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: utils.GetLogger(),
	}
}

// NewClientWithBase builds a client against an explicit base URL. Used by
// tests and tooling.
func NewClientWithBase(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     utils.GetLogger(),
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, "", payload, out)
}

// authedJSON performs a bearer-authenticated JSON request. A missing token is
// a local precondition failure.
func (c *Client) authedJSON(ctx context.Context, method, path, token string, payload, out any) error {
	if token == "" {
		return ErrTokenRequired
	}
	return c.doJSON(ctx, method, path, token, payload, out)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil && (method == http.MethodPost || method == http.MethodPut) {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway: request failed", zap.String("path", path), zap.Error(err))
		return &APIError{Message: "network error: unable to reach the server"}
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, path, out)
}

// FilePart is one uploaded document attached to a multipart submission.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// postMultipart submits form fields and documents as multipart/form-data.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("failed to attach %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("gateway: multipart request failed", zap.String("path", path), zap.Error(err))
		return &APIError{Message: "network error: unable to reach the server"}
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, path, out)
}

// errorBody matches the shapes the backend has used for failures: a flat
// message, an error string, or a nested error object with code and message.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type nestedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) decodeResponse(resp *http.Response, path string, out any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: "failed to read server response"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := normalizeErrorMessage(data, resp.StatusCode)
		c.logger.Warn("gateway: request rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("gateway: malformed response body", zap.String("path", path), zap.Error(err))
		return &APIError{Status: resp.StatusCode, Message: "malformed server response"}
	}
	return nil
}

func normalizeErrorMessage(data []byte, status int) string {
	fallback := fmt.Sprintf("request failed with status %d", status)
	if len(data) == 0 {
		return fallback
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return fallback
	}
	if len(body.Error) > 0 {
		var s string
		if err := json.Unmarshal(body.Error, &s); err == nil && s != "" {
			return s
		}
		var nested nestedError
		if err := json.Unmarshal(body.Error, &nested); err == nil {
			if nested.Message != "" && nested.Code != "" {
				return nested.Code + ": " + nested.Message
			}
			if nested.Message != "" {
				return nested.Message
			}
		}
	}
	if body.Message != "" {
		return body.Message
	}
	return fallback
}
