package service

import "context"

// Service defines the interface for backend operations. All HTTP calls go
// through this interface; commands and controllers never build requests
// directly.
//
// The filter, sort and search arguments of Tasks are passed through as-is;
// validation of the enumerated values happens at the CLI boundary.
type Service interface {
	// SignUp registers a new account. The backend reports duplicate
	// emails and weak passwords as failures.
	SignUp(ctx context.Context, creds Credentials) error

	// SignIn exchanges credentials for a bearer token and identity.
	SignIn(ctx context.Context, creds Credentials) (AuthSession, error)

	// Profile returns the account data for the user.
	Profile(ctx context.Context, userID string) (Profile, error)

	// UpdateEmail changes the account email. Requires the current password.
	UpdateEmail(ctx context.Context, userID, email, currentPassword string) error

	// ChangePassword replaces the account password.
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// DeleteAccount removes the account and all its tasks.
	DeleteAccount(ctx context.Context, userID, password string) error

	// Tasks returns the user's tasks for the given selection, ordered by
	// the backend.
	Tasks(ctx context.Context, userID, filter, sort, search string) ([]Task, error)

	// CreateTask creates a task and returns the stored version.
	CreateTask(ctx context.Context, userID string, draft TaskDraft) (Task, error)

	// UpdateTask applies a partial update and returns the stored version.
	UpdateTask(ctx context.Context, userID, taskID string, patch TaskPatch) (Task, error)

	// ToggleTask flips the completion flag and returns the stored version.
	ToggleTask(ctx context.Context, userID, taskID string) (Task, error)

	// DeleteTask removes a task permanently.
	DeleteTask(ctx context.Context, userID, taskID string) error

	// TaskStats returns aggregate counts for the user's tasks.
	TaskStats(ctx context.Context, userID string) (TaskStats, error)

	// Chat forwards a message and recent history to the conversational
	// agent and returns its reply. No local logic beyond forwarding.
	Chat(ctx context.Context, userID, message string, history []ChatMessage) (string, error)
}
