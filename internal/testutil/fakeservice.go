// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/query"
	"taskdeck/internal/service"
)

// FakeService is an in-memory implementation of service.Service for
// testing. It honors the same filter/sort/search semantics as the real
// backend so list output in tests matches what the wire would carry.
type FakeService struct {
	mu     sync.Mutex
	nextID int
	users  map[string]service.Credentials // userID -> account
	emails map[string]string              // email -> userID
	tasks  map[string][]service.Task      // userID -> tasks
	calls  map[string]int                 // method -> invocation count

	// Now is the clock used for server-side classification.
	Now func() time.Time

	// Error injection: a non-nil entry makes that method fail.
	SignUpErr         error
	SignInErr         error
	ProfileErr        error
	UpdateEmailErr    error
	ChangePasswordErr error
	DeleteAccountErr  error
	TasksErr          error
	CreateTaskErr     error
	UpdateTaskErr     error
	ToggleTaskErr     error
	DeleteTaskErr     error
	TaskStatsErr      error
	ChatErr           error

	// TasksDelay, when set, is waited on before each Tasks response and
	// then cleared. Used to force overlapping refreshes to complete out
	// of order.
	TasksDelay chan struct{}

	// ChatReply is returned by Chat.
	ChatReply string
}

// NewFakeService creates an empty fake backend.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]service.Credentials),
		emails: make(map[string]string),
		tasks:  make(map[string][]service.Task),
		calls:  make(map[string]int),
		Now:    time.Now,
	}
}

// AddUser registers an account directly and returns its ID.
func (f *FakeService) AddUser(email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("user-%d", f.nextID)
	f.users[id] = service.Credentials{Email: email, Password: password}
	f.emails[email] = id
	return id
}

// AddTask stores a task directly and returns it.
func (f *FakeService) AddTask(userID, title string, deadline *time.Time, completed bool, createdAt time.Time) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := service.Task{
		ID:        fmt.Sprintf("task-%d", f.nextID),
		UserID:    userID,
		Title:     title,
		Deadline:  deadline,
		Completed: completed,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	f.tasks[userID] = append(f.tasks[userID], t)
	return t
}

// Calls returns how many times the named method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of service invocations across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// SignUp implements service.Service.
func (f *FakeService) SignUp(ctx context.Context, creds service.Credentials) error {
	f.record("SignUp")
	if f.SignUpErr != nil {
		return f.SignUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email := strings.ToLower(creds.Email)
	if _, ok := f.emails[email]; ok {
		return service.NewError(service.CodeValidation, "Email already registered")
	}
	f.nextID++
	id := fmt.Sprintf("user-%d", f.nextID)
	f.users[id] = service.Credentials{Email: email, Password: creds.Password}
	f.emails[email] = id
	return nil
}

// SignIn implements service.Service.
func (f *FakeService) SignIn(ctx context.Context, creds service.Credentials) (service.AuthSession, error) {
	f.record("SignIn")
	if f.SignInErr != nil {
		return service.AuthSession{}, f.SignInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email := strings.ToLower(creds.Email)
	id, ok := f.emails[email]
	if !ok || f.users[id].Password != creds.Password {
		return service.AuthSession{}, service.NewError(service.CodeAuth, "Invalid email or password")
	}
	return service.AuthSession{
		AccessToken: "fake-token-" + id,
		TokenType:   "bearer",
		ExpiresIn:   86400,
		User:        service.Identity{ID: id, Email: email},
	}, nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context, userID string) (service.Profile, error) {
	f.record("Profile")
	if f.ProfileErr != nil {
		return service.Profile{}, f.ProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return service.Profile{}, service.NewError(service.CodeNotFound, "User not found")
	}
	return service.Profile{ID: userID, Email: u.Email}, nil
}

// UpdateEmail implements service.Service.
func (f *FakeService) UpdateEmail(ctx context.Context, userID, email, currentPassword string) error {
	f.record("UpdateEmail")
	if f.UpdateEmailErr != nil {
		return f.UpdateEmailErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return service.NewError(service.CodeNotFound, "User not found")
	}
	if u.Password != currentPassword {
		return service.NewError(service.CodeAuth, "Current password is incorrect")
	}
	delete(f.emails, u.Email)
	u.Email = strings.ToLower(email)
	f.users[userID] = u
	f.emails[u.Email] = userID
	return nil
}

// ChangePassword implements service.Service.
func (f *FakeService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	f.record("ChangePassword")
	if f.ChangePasswordErr != nil {
		return f.ChangePasswordErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return service.NewError(service.CodeNotFound, "User not found")
	}
	if u.Password != currentPassword {
		return service.NewError(service.CodeAuth, "Current password is incorrect")
	}
	u.Password = newPassword
	f.users[userID] = u
	return nil
}

// DeleteAccount implements service.Service.
func (f *FakeService) DeleteAccount(ctx context.Context, userID, password string) error {
	f.record("DeleteAccount")
	if f.DeleteAccountErr != nil {
		return f.DeleteAccountErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return service.NewError(service.CodeNotFound, "User not found")
	}
	if u.Password != password {
		return service.NewError(service.CodeAuth, "Password is incorrect")
	}
	delete(f.emails, u.Email)
	delete(f.users, userID)
	delete(f.tasks, userID)
	return nil
}

// Tasks implements service.Service using the same selection semantics as
// the real backend.
func (f *FakeService) Tasks(ctx context.Context, userID, filter, sort, search string) ([]service.Task, error) {
	f.record("Tasks")
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}

	f.mu.Lock()
	delay := f.TasksDelay
	f.TasksDelay = nil
	f.mu.Unlock()
	if delay != nil {
		select {
		case <-delay:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl, err := query.ParseFilter(filter)
	if err != nil {
		return nil, service.NewError(service.CodeValidation, err.Error())
	}
	so, err := query.ParseSort(sort)
	if err != nil {
		return nil, service.NewError(service.CodeValidation, err.Error())
	}

	f.mu.Lock()
	all := make([]service.Task, len(f.tasks[userID]))
	copy(all, f.tasks[userID])
	now := f.Now()
	f.mu.Unlock()

	sel := query.Selection{Filter: fl, Sort: so, Search: search}
	return query.Select(all, sel, now), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, userID string, draft service.TaskDraft) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(draft.Title) == "" {
		return service.Task{}, service.NewError(service.CodeValidation, "Title cannot be empty")
	}
	f.nextID++
	now := f.Now()
	t := service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		UserID:      userID,
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Deadline:    draft.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.tasks[userID] = append(f.tasks[userID], t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, userID, taskID string, patch service.TaskPatch) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks[userID] {
		if t.ID != taskID {
			continue
		}
		if patch.Title != nil {
			t.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			t.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Deadline.Set {
			t.Deadline = patch.Deadline.Value
		}
		t.UpdatedAt = f.Now()
		f.tasks[userID][i] = t
		return t, nil
	}
	return service.Task{}, service.NewError(service.CodeNotFound, "Task not found")
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, userID, taskID string) (service.Task, error) {
	f.record("ToggleTask")
	if f.ToggleTaskErr != nil {
		return service.Task{}, f.ToggleTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks[userID] {
		if t.ID != taskID {
			continue
		}
		t.Completed = !t.Completed
		t.UpdatedAt = f.Now()
		f.tasks[userID][i] = t
		return t, nil
	}
	return service.Task{}, service.NewError(service.CodeNotFound, "Task not found")
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, userID, taskID string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := f.tasks[userID]
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[userID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return service.NewError(service.CodeNotFound, "Task not found")
}

// TaskStats implements service.Service.
func (f *FakeService) TaskStats(ctx context.Context, userID string) (service.TaskStats, error) {
	f.record("TaskStats")
	if f.TaskStatsErr != nil {
		return service.TaskStats{}, f.TaskStatsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.Now()
	var st service.TaskStats
	for _, t := range f.tasks[userID] {
		st.Total++
		if t.Completed {
			st.Completed++
		} else {
			st.Incomplete++
		}
		switch query.Classify(t.Deadline, t.Completed, now) {
		case query.Overdue:
			st.Overdue++
		case query.UpcomingSoon:
			st.Upcoming24h++
		case query.NoDeadline:
			st.NoDeadline++
		}
		if t.Deadline != nil && t.Deadline.Year() == now.Year() && t.Deadline.YearDay() == now.YearDay() {
			st.DueToday++
		}
	}
	return st, nil
}

// Chat implements service.Service.
func (f *FakeService) Chat(ctx context.Context, userID, message string, history []service.ChatMessage) (string, error) {
	f.record("Chat")
	if f.ChatErr != nil {
		return "", f.ChatErr
	}
	if f.ChatReply != "" {
		return f.ChatReply, nil
	}
	return "ok", nil
}
