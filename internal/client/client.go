// Package client talks to the submission store's HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/session"
)

// StatusError is a non-success response from the store.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store responded with status %d", e.Code)
	}
	return fmt.Sprintf("store responded with status %d: %s", e.Code, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the store at baseURL. A nil httpClient uses
// http.DefaultClient; callers bound request time with the context.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// Submit posts the answer set. Failures to reach the store wrap
// session.ErrUnreachable; non-2xx replies return *StatusError.
func (c *Client) Submit(ctx context.Context, answers models.AnswerSet) (string, error) {
	body, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submit", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out submitResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// List fetches every stored submission.
func (c *Client) List(ctx context.Context) ([]models.Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/submissions", nil)
	if err != nil {
		return nil, err
	}
	var subs []models.Submission
	if err := c.do(req, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// Form fetches the form definition the server is configured with.
func (c *Client) Form(ctx context.Context) (*models.Form, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/form", nil)
	if err != nil {
		return nil, err
	}
	var form models.Form
	if err := c.do(req, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", session.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", session.ErrUnreachable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure submitResponse
		_ = json.Unmarshal(data, &failure)
		return &StatusError{Code: resp.StatusCode, Message: failure.Message}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
