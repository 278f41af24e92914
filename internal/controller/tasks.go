// Package controller keeps client state consistent with the session and
// the backend: the task list under the current query selection, and the
// credential-gated profile operations.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"taskdeck/internal/query"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

const (
	// MaxTitleLen is the longest accepted task title after trimming.
	MaxTitleLen = 200

	// MaxDescriptionLen is the longest accepted description after trimming.
	MaxDescriptionLen = 1000
)

// TaskView is a task paired with its display state, re-classified at
// snapshot time.
type TaskView struct {
	service.Task
	State query.DeadlineState
}

// TaskSnapshot is the rendered view of the controller: the classified task
// list plus the per-operation busy flags and the current error message.
type TaskSnapshot struct {
	Tasks      []TaskView
	Selection  query.Selection
	Loading    bool
	Submitting bool
	Deleting   bool
	Err        string
}

// Tasks keeps the displayed list consistent with the current session and
// query selection. Every mutation is followed by a full refresh; the list
// is never patched locally.
type Tasks struct {
	sess *session.Store
	svc  service.Service
	log  *zap.Logger
	now  func() time.Time

	mu       sync.Mutex
	sel      query.Selection
	tasks    []service.Task
	seq      uint64
	loading  bool
	submit   bool
	deleting bool
	errMsg   string
	onChange func(TaskSnapshot)
}

// NewTasks creates a task controller with the default selection.
func NewTasks(sess *session.Store, svc service.Service, log *zap.Logger) *Tasks {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tasks{
		sess: sess,
		svc:  svc,
		log:  log,
		now:  time.Now,
		sel:  query.DefaultSelection(),
	}
}

func (c *Tasks) lock()   { c.mu.Lock() }
func (c *Tasks) unlock() { c.mu.Unlock() }

// SetOnChange registers the callback invoked with a fresh snapshot after
// every state change. Must be set before concurrent use.
func (c *Tasks) SetOnChange(fn func(TaskSnapshot)) {
	c.onChange = fn
}

// Selection returns the current query selection.
func (c *Tasks) Selection() query.Selection {
	c.lock()
	defer c.unlock()
	return c.sel
}

// SetSelection replaces the query selection and refreshes. The previously
// displayed list is invalid the moment the selection changes.
func (c *Tasks) SetSelection(ctx context.Context, sel query.Selection) error {
	c.lock()
	c.sel = sel
	c.unlock()
	return c.Refresh(ctx)
}

// Refresh re-fetches the list for the current session and selection. When
// refreshes overlap, only the most recently issued one may update the
// visible list; responses to older requests are discarded.
func (c *Tasks) Refresh(ctx context.Context) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.loading)
	}

	c.lock()
	c.seq++
	mySeq := c.seq
	sel := c.sel
	c.loading = true
	c.errMsg = ""
	c.unlock()
	c.notify()

	tasks, err := c.svc.Tasks(ctx, id.ID, string(sel.Filter), string(sel.Sort), strings.TrimSpace(sel.Search))

	c.lock()
	if mySeq != c.seq {
		// A newer request owns the list now.
		c.unlock()
		c.log.Debug("stale refresh discarded", zap.Uint64("seq", mySeq))
		return nil
	}
	c.loading = false
	if err != nil {
		c.errMsg = Message(err)
		c.unlock()
		c.notify()
		return err
	}
	c.tasks = tasks
	c.unlock()
	c.notify()
	return nil
}

// Create validates the draft locally, creates the task and refreshes.
func (c *Tasks) Create(ctx context.Context, draft service.TaskDraft) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.submit)
	}
	if err := ValidateDraft(&draft); err != nil {
		return c.fail(err, &c.submit)
	}

	c.setBusy(&c.submit, true)
	_, err = c.svc.CreateTask(ctx, id.ID, draft)
	c.setBusy(&c.submit, false)
	if err != nil {
		return c.fail(err, nil)
	}
	return c.Refresh(ctx)
}

// Update validates the patch locally, applies it and refreshes.
func (c *Tasks) Update(ctx context.Context, taskID string, patch service.TaskPatch) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.submit)
	}
	if err := ValidatePatch(&patch); err != nil {
		return c.fail(err, &c.submit)
	}

	c.setBusy(&c.submit, true)
	_, err = c.svc.UpdateTask(ctx, id.ID, taskID, patch)
	c.setBusy(&c.submit, false)
	if err != nil {
		return c.fail(err, nil)
	}
	return c.Refresh(ctx)
}

// Toggle flips the completion flag and refreshes.
func (c *Tasks) Toggle(ctx context.Context, taskID string) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.submit)
	}

	c.setBusy(&c.submit, true)
	_, err = c.svc.ToggleTask(ctx, id.ID, taskID)
	c.setBusy(&c.submit, false)
	if err != nil {
		return c.fail(err, nil)
	}
	return c.Refresh(ctx)
}

// Delete removes the task and refreshes.
func (c *Tasks) Delete(ctx context.Context, taskID string) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.deleting)
	}

	c.setBusy(&c.deleting, true)
	err = c.svc.DeleteTask(ctx, id.ID, taskID)
	c.setBusy(&c.deleting, false)
	if err != nil {
		return c.fail(err, nil)
	}
	return c.Refresh(ctx)
}

// Snapshot returns the current view. Display state is computed here, not
// cached, so overdue/upcoming markers stay correct as time passes.
func (c *Tasks) Snapshot() TaskSnapshot {
	c.lock()
	defer c.unlock()
	return c.snapshotLocked()
}

func (c *Tasks) snapshotLocked() TaskSnapshot {
	now := c.now()
	views := make([]TaskView, len(c.tasks))
	for i, t := range c.tasks {
		views[i] = TaskView{
			Task:  t,
			State: query.Classify(t.Deadline, t.Completed, now),
		}
	}
	return TaskSnapshot{
		Tasks:      views,
		Selection:  c.sel,
		Loading:    c.loading,
		Submitting: c.submit,
		Deleting:   c.deleting,
		Err:        c.errMsg,
	}
}

func (c *Tasks) setBusy(flag *bool, v bool) {
	c.lock()
	*flag = v
	if v {
		c.errMsg = ""
	}
	c.unlock()
	c.notify()
}

// fail records the user-visible message, resets the given busy flag and
// returns the original error. The task list is left as it was.
func (c *Tasks) fail(err error, flag *bool) error {
	c.lock()
	c.errMsg = Message(err)
	if flag != nil {
		*flag = false
	}
	c.unlock()
	c.notify()
	return err
}

func (c *Tasks) notify() {
	if c.onChange == nil {
		return
	}
	c.lock()
	snap := c.snapshotLocked()
	c.unlock()
	c.onChange(snap)
}

// ValidateDraft trims the draft in place and checks the field rules before
// any network call.
func ValidateDraft(d *service.TaskDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" {
		return service.NewError(service.CodeValidation, "title required")
	}
	if utf8.RuneCountInString(d.Title) > MaxTitleLen {
		return service.NewError(service.CodeValidation, "title too long (max 200 characters)")
	}
	if utf8.RuneCountInString(d.Description) > MaxDescriptionLen {
		return service.NewError(service.CodeValidation, "description too long (max 1000 characters)")
	}
	return nil
}

// ValidatePatch trims the set fields in place and checks the field rules.
// An empty patch is rejected: the backend requires at least one field.
func ValidatePatch(p *service.TaskPatch) error {
	if p.IsEmpty() {
		return service.NewError(service.CodeValidation, "nothing to update")
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return service.NewError(service.CodeValidation, "title required")
		}
		if utf8.RuneCountInString(t) > MaxTitleLen {
			return service.NewError(service.CodeValidation, "title too long (max 200 characters)")
		}
		p.Title = &t
	}
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		if utf8.RuneCountInString(d) > MaxDescriptionLen {
			return service.NewError(service.CodeValidation, "description too long (max 1000 characters)")
		}
		p.Description = &d
	}
	return nil
}

// Message translates a failure into the single user-visible string.
// Validation and auth reasons pass through verbatim; transport failures
// collapse to a generic retryable message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var se *service.Error
	if errors.As(err, &se) {
		if se.Code == service.CodeService {
			return "service unavailable, please try again"
		}
		return se.Message
	}
	return err.Error()
}
