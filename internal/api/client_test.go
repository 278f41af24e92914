package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"taskdeck/internal/api"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func newClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	return api.New(srv.URL, 5*time.Second, tokens, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_SignIn(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/signin", func(w http.ResponseWriter, req *http.Request) {
		var creds service.Credentials
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		assert.Equal(t, "alice@example.com", creds.Email)
		assert.Equal(t, "hunter22", creds.Password)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"access_token": "abc123",
			"token_type":   "bearer",
			"expires_in":   86400,
			"user":         map[string]string{"id": "user-1", "email": "alice@example.com"},
		})
	})
	c := newClient(t, r)

	as, err := c.SignIn(context.Background(), service.Credentials{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", as.AccessToken)
	assert.Equal(t, int64(86400), as.ExpiresIn)
	assert.Equal(t, "user-1", as.User.ID)
	assert.Equal(t, "alice@example.com", as.User.Email)
}

func TestClient_AuthedCallsCarryBearerToken(t *testing.T) {
	var auth string
	r := chi.NewRouter()
	r.Get("/api/users/{userID}/profile", func(w http.ResponseWriter, req *http.Request) {
		auth = req.Header.Get("Authorization")
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
		writeJSON(t, w, http.StatusOK, service.Profile{
			ID:    chi.URLParam(req, "userID"),
			Email: "alice@example.com",
		})
	})
	c := newClient(t, r)

	p, err := c.Profile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, "Bearer test-token", auth)
}

func TestClient_TasksSendsSelection(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/{userID}/tasks", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "overdue", q.Get("filter"))
		assert.Equal(t, "deadline_asc", q.Get("sort"))
		assert.Equal(t, "milk", q.Get("search"))
		writeJSON(t, w, http.StatusOK, map[string]any{
			"tasks": []service.Task{{ID: "task-1", Title: "Buy milk"}},
			"total": 1,
		})
	})
	c := newClient(t, r)

	tasks, err := c.Tasks(context.Background(), "user-1", "overdue", "deadline_asc", "milk")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
}

func TestClient_UpdateTaskBody(t *testing.T) {
	var body map[string]json.RawMessage
	r := chi.NewRouter()
	r.Put("/api/users/{userID}/tasks/{taskID}", func(w http.ResponseWriter, req *http.Request) {
		body = nil // decoding into a non-nil map merges keys across requests
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		writeJSON(t, w, http.StatusOK, service.Task{ID: chi.URLParam(req, "taskID")})
	})
	c := newClient(t, r)
	ctx := context.Background()

	title := "New title"
	_, err := c.UpdateTask(ctx, "user-1", "task-1", service.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Contains(t, body, "title")
	assert.NotContains(t, body, "description")
	assert.NotContains(t, body, "deadline")

	// Clearing the deadline sends an explicit null, not an absent field.
	_, err = c.UpdateTask(ctx, "user-1", "task-1", service.TaskPatch{Deadline: service.ClearTime()})
	require.NoError(t, err)
	require.Contains(t, body, "deadline")
	assert.Equal(t, "null", string(body["deadline"]))
	assert.NotContains(t, body, "title")
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   service.ErrorCode
	}{
		{http.StatusBadRequest, service.CodeValidation},
		{http.StatusUnauthorized, service.CodeAuth},
		{http.StatusForbidden, service.CodeAuth},
		{http.StatusNotFound, service.CodeNotFound},
		{http.StatusUnprocessableEntity, service.CodeValidation},
		{http.StatusInternalServerError, service.CodeService},
		{http.StatusBadGateway, service.CodeService},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			r := chi.NewRouter()
			r.Delete("/api/users/{userID}/tasks/{taskID}", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(t, w, tc.status, map[string]string{"detail": "backend said no"})
			})
			c := newClient(t, r)

			err := c.DeleteTask(context.Background(), "user-1", "task-1")
			require.Error(t, err)
			assert.True(t, service.IsCode(err, tc.code))

			var se *service.Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "backend said no", se.Message)
		})
	}
}

func TestClient_ErrorWithoutDetail(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/{userID}/profile", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newClient(t, r)

	_, err := c.Profile(context.Background(), "user-1")
	var se *service.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, service.CodeService, se.Code)
	assert.Equal(t, "service error (status 500)", se.Message)
}

func TestClient_AnonymousSessionFailsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	sess := session.New("")
	c := api.New(srv.URL, 5*time.Second, sess, nil)

	_, err := c.Profile(context.Background(), "user-1")
	assert.True(t, service.IsCode(err, service.CodeNotAuthenticated))
	assert.Zero(t, hits.Load())
}

func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-block:
		case <-req.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	c := api.New(srv.URL, 50*time.Millisecond, tokens, nil)

	_, err := c.Profile(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, service.IsCode(err, service.CodeService))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Chat(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/agent/chat", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			UserID  string `json:"user_id"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "user-1", body.UserID)
		writeJSON(t, w, http.StatusOK, map[string]any{
			"response": "You have 2 open tasks.",
			"success":  true,
		})
	})
	c := newClient(t, r)

	reply, err := c.Chat(context.Background(), "user-1", "what's pending?", nil)
	require.NoError(t, err)
	assert.Equal(t, "You have 2 open tasks.", reply)
}
