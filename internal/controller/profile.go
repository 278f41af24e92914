package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// MinPasswordLen is the shortest accepted new password.
const MinPasswordLen = 8

// ProfileSnapshot exposes the per-operation busy flags and the current
// error and success messages.
type ProfileSnapshot struct {
	UpdatingEmail    bool
	ChangingPassword bool
	DeletingAccount  bool
	Err              string
	Success          string
}

// Profile orchestrates the credential-gated account mutations. Each
// operation is an independent call with its own busy flag; none proceeds
// without an authenticated session.
type Profile struct {
	sess *session.Store
	svc  service.Service
	log  *zap.Logger

	mu            sync.Mutex
	updatingEmail bool
	changingPass  bool
	deletingAcct  bool
	errMsg        string
	successMsg    string
}

// NewProfile creates a profile controller.
func NewProfile(sess *session.Store, svc service.Service, log *zap.Logger) *Profile {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profile{sess: sess, svc: svc, log: log}
}

// Load fetches the account data for the signed-in user.
func (c *Profile) Load(ctx context.Context) (service.Profile, error) {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return service.Profile{}, c.fail(err, nil)
	}
	p, err := c.svc.Profile(ctx, id.ID)
	if err != nil {
		return service.Profile{}, c.fail(err, nil)
	}
	return p, nil
}

// UpdateEmail changes the account email. The stored session identity is
// not updated automatically; the caller re-syncs by signing in again.
func (c *Profile) UpdateEmail(ctx context.Context, email, currentPassword string) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.updatingEmail)
	}
	if email == "" || currentPassword == "" {
		return c.fail(service.NewError(service.CodeValidation,
			"email and current password are required"), &c.updatingEmail)
	}

	c.setBusy(&c.updatingEmail, true)
	err = c.svc.UpdateEmail(ctx, id.ID, email, currentPassword)
	c.setBusy(&c.updatingEmail, false)
	if err != nil {
		return c.fail(err, nil)
	}
	c.succeed("email updated")
	return nil
}

// ChangePassword validates the password rules locally, then delegates.
// Rule violations never reach the backend.
func (c *Profile) ChangePassword(ctx context.Context, currentPassword, newPassword, confirmPassword string) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.changingPass)
	}
	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return c.fail(service.NewError(service.CodeValidation,
			"all password fields are required"), &c.changingPass)
	}
	if len(newPassword) < MinPasswordLen {
		return c.fail(service.NewError(service.CodeValidation,
			"new password must be at least 8 characters"), &c.changingPass)
	}
	if newPassword != confirmPassword {
		return c.fail(service.NewError(service.CodeValidation,
			"new passwords do not match"), &c.changingPass)
	}

	c.setBusy(&c.changingPass, true)
	err = c.svc.ChangePassword(ctx, id.ID, currentPassword, newPassword)
	c.setBusy(&c.changingPass, false)
	if err != nil {
		return c.fail(err, nil)
	}
	c.succeed("password changed")
	return nil
}

// DeleteAccount removes the account. On success the session is terminated;
// on failure it is left untouched.
func (c *Profile) DeleteAccount(ctx context.Context, password string) error {
	id, err := c.sess.RequireAuth()
	if err != nil {
		return c.fail(err, &c.deletingAcct)
	}
	if password == "" {
		return c.fail(service.NewError(service.CodeValidation,
			"password required"), &c.deletingAcct)
	}

	c.setBusy(&c.deletingAcct, true)
	err = c.svc.DeleteAccount(ctx, id.ID, password)
	c.setBusy(&c.deletingAcct, false)
	if err != nil {
		return c.fail(err, nil)
	}

	if err := c.sess.Logout(); err != nil {
		c.log.Warn("session cleanup after account deletion", zap.Error(err))
	}
	c.succeed("account deleted")
	return nil
}

// Snapshot returns the current busy flags and messages.
func (c *Profile) Snapshot() ProfileSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ProfileSnapshot{
		UpdatingEmail:    c.updatingEmail,
		ChangingPassword: c.changingPass,
		DeletingAccount:  c.deletingAcct,
		Err:              c.errMsg,
		Success:          c.successMsg,
	}
}

func (c *Profile) setBusy(flag *bool, v bool) {
	c.mu.Lock()
	*flag = v
	if v {
		c.errMsg = ""
		c.successMsg = ""
	}
	c.mu.Unlock()
}

func (c *Profile) fail(err error, flag *bool) error {
	c.mu.Lock()
	c.errMsg = Message(err)
	if flag != nil {
		*flag = false
	}
	c.mu.Unlock()
	return err
}

func (c *Profile) succeed(msg string) {
	c.mu.Lock()
	c.successMsg = msg
	c.mu.Unlock()
}
