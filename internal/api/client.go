// Package api implements the service.Service interface against the task
// service's REST API.
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

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"taskdeck/internal/service"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	// plain serves the auth endpoints; authed attaches the bearer token
	// from the session's token source on every request.
	plain  *http.Client
	authed *http.Client
	log    *zap.Logger
}

// New creates a client for the given endpoint. tokens provides the bearer
// token for authenticated calls; requests made through it fail before
// reaching the network when no session is present.
func New(baseURL string, timeout time.Duration, tokens oauth2.TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		plain:   &http.Client{},
		authed:  oauth2.NewClient(context.Background(), tokens),
		log:     log,
	}
}

// errorBody is the failure payload shape used by the backend.
type errorBody struct {
	Detail string `json:"detail"`
}

// SignUp implements service.Service.
func (c *Client) SignUp(ctx context.Context, creds service.Credentials) error {
	return c.do(ctx, c.plain, http.MethodPost, "/api/auth/signup", creds, nil)
}

// SignIn implements service.Service.
func (c *Client) SignIn(ctx context.Context, creds service.Credentials) (service.AuthSession, error) {
	var as service.AuthSession
	err := c.do(ctx, c.plain, http.MethodPost, "/api/auth/signin", creds, &as)
	return as, err
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context, userID string) (service.Profile, error) {
	var p service.Profile
	err := c.do(ctx, c.authed, http.MethodGet, "/api/users/"+userID+"/profile", nil, &p)
	return p, err
}

// UpdateEmail implements service.Service.
func (c *Client) UpdateEmail(ctx context.Context, userID, email, currentPassword string) error {
	body := map[string]string{
		"email":            email,
		"current_password": currentPassword,
	}
	return c.do(ctx, c.authed, http.MethodPut, "/api/users/"+userID+"/profile", body, nil)
}

// ChangePassword implements service.Service.
func (c *Client) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.do(ctx, c.authed, http.MethodPut, "/api/users/"+userID+"/password", body, nil)
}

// DeleteAccount implements service.Service.
func (c *Client) DeleteAccount(ctx context.Context, userID, password string) error {
	body := map[string]string{"password": password}
	return c.do(ctx, c.authed, http.MethodDelete, "/api/users/"+userID, body, nil)
}

// Tasks implements service.Service. The backend returns the list already
// filtered and ordered; the client re-derives display state at render time.
func (c *Client) Tasks(ctx context.Context, userID, filter, sort, search string) ([]service.Task, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	if sort != "" {
		q.Set("sort", sort)
	}
	if search != "" {
		q.Set("search", search)
	}
	path := "/api/users/" + userID + "/tasks"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var resp struct {
		Tasks []service.Task `json:"tasks"`
		Total int            `json:"total"`
	}
	if err := c.do(ctx, c.authed, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, userID string, draft service.TaskDraft) (service.Task, error) {
	var t service.Task
	err := c.do(ctx, c.authed, http.MethodPost, "/api/users/"+userID+"/tasks", draft, &t)
	return t, err
}

// UpdateTask implements service.Service. Unset patch fields are omitted
// from the request body; a set-but-nil deadline is sent as an explicit
// null to clear the stored value.
func (c *Client) UpdateTask(ctx context.Context, userID, taskID string, patch service.TaskPatch) (service.Task, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Deadline.Set {
		body["deadline"] = patch.Deadline.Value
	}

	var t service.Task
	err := c.do(ctx, c.authed, http.MethodPut, "/api/users/"+userID+"/tasks/"+taskID, body, &t)
	return t, err
}

// ToggleTask implements service.Service.
func (c *Client) ToggleTask(ctx context.Context, userID, taskID string) (service.Task, error) {
	var t service.Task
	err := c.do(ctx, c.authed, http.MethodPatch, "/api/users/"+userID+"/tasks/"+taskID+"/complete", nil, &t)
	return t, err
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, userID, taskID string) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/api/users/"+userID+"/tasks/"+taskID, nil, nil)
}

// TaskStats implements service.Service.
func (c *Client) TaskStats(ctx context.Context, userID string) (service.TaskStats, error) {
	var st service.TaskStats
	err := c.do(ctx, c.authed, http.MethodGet, "/api/users/"+userID+"/tasks/stats", nil, &st)
	return st, err
}

// Chat implements service.Service.
func (c *Client) Chat(ctx context.Context, userID, message string, history []service.ChatMessage) (string, error) {
	body := map[string]any{
		"user_id":      userID,
		"message":      message,
		"chat_history": history,
	}
	var resp struct {
		Response string `json:"response"`
		Success  bool   `json:"success"`
	}
	if err := c.do(ctx, c.authed, http.MethodPost, "/api/agent/chat", body, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// do issues one request with the client's timeout, decoding a JSON body
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return service.WrapError(service.CodeService, "encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return service.WrapError(service.CodeService, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		// A missing session surfaces from the token source before any
		// network I/O; keep its classification.
		if service.IsCode(err, service.CodeNotAuthenticated) {
			return service.ErrNotAuthenticated
		}
		var ue *url.Error
		if errors.As(err, &ue) && service.IsCode(ue.Err, service.CodeNotAuthenticated) {
			return service.ErrNotAuthenticated
		}
		return wrapTransport(err)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return wrapStatus(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return service.WrapError(service.CodeService, "decode response", err)
	}
	return nil
}

// wrapStatus maps an error response onto the classified error set, keeping
// the backend's reported reason verbatim where there is one.
func wrapStatus(resp *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(data, &eb)
	msg := eb.Detail
	if msg == "" {
		msg = fmt.Sprintf("service error (status %d)", resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return service.NewError(service.CodeAuth, msg)
	case http.StatusNotFound:
		return service.NewError(service.CodeNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return service.NewError(service.CodeValidation, msg)
	default:
		return service.NewError(service.CodeService, msg)
	}
}

// wrapTransport classifies network-level failures.
func wrapTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return service.WrapError(service.CodeService, "request timed out", err)
	}
	return service.WrapError(service.CodeService, "request failed", err)
}
