// Package client talks to the presensi HTTP API on behalf of the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-presensi-go/internal/domain/attendance"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx reply decoded from the response envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a client for baseURL (e.g. http://localhost:8080) using token as bearer.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// CheckIn submits a check-in. A refused submission returns the decoded
// CheckResult together with an *APIError.
func (c *Client) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResult, error) {
	return c.check(ctx, "/api/v1/attendance/check-in", req)
}

func (c *Client) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.CheckResult, error) {
	return c.check(ctx, "/api/v1/attendance/check-out", req)
}

func (c *Client) Today(ctx context.Context) (attendance.TodayResponse, error) {
	var out attendance.TodayResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/attendance/today", nil, &out)
	return out, err
}

func (c *Client) check(ctx context.Context, path string, req attendance.CheckRequest) (attendance.CheckResult, error) {
	var out attendance.CheckResult
	err := c.do(ctx, http.MethodPost, path, req, &out)
	return out, err
}

// do sends body as JSON and decodes the envelope's data into out, on success
// and on error replies that carry data.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(env.Data) > 0 && out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return apiErr
	}
	return nil
}
