// Package remote talks to the syncd HTTP API. It satisfies the
// gateway's Remote interface; callers are expected to hold a valid
// token before any document call is made.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"focustimer/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

// NewClient builds a client against the given base URL. The token
// provider is consulted per request, so a login that lands after
// construction is picked up without rebuilding anything.
func NewClient(baseURL string, token func() string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		token:   token,
	}
}

type AuthResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var envelope struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, task model.Task) error {
	return c.do(ctx, http.MethodPost, "/api/tasks", task, nil)
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	return c.do(ctx, http.MethodPatch, "/api/tasks/"+id, patch, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

func (c *Client) SaveSession(ctx context.Context, session model.Session) error {
	return c.do(ctx, http.MethodPost, "/api/sessions", session, nil)
}

func (c *Client) SaveConfig(ctx context.Context, cfg model.TimerConfig) error {
	return c.do(ctx, http.MethodPut, "/api/settings", cfg, nil)
}

func (c *Client) Config(ctx context.Context) (model.TimerConfig, error) {
	var envelope struct {
		Settings model.TimerConfig `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &envelope); err != nil {
		return model.TimerConfig{}, err
	}
	return envelope.Settings, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
			return fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
