// Package service defines the backend-agnostic interface for task and
// account operations.
package service

import "time"

// Task represents a single task item as reported by the backend.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Identity is the authenticated user as reported at sign-in.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession is the result of a successful sign-in.
type AuthSession struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        Identity `json:"user"`
}

// Credentials are the email/password pair used for signup and signin.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the account data returned by the profile endpoint.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskDraft is the payload for creating a task.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// OptionalTime is a tri-state timestamp field for partial updates.
// Unset leaves the stored value alone; set with a nil Value clears it.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// Time returns an OptionalTime carrying a value.
func Time(t time.Time) OptionalTime {
	return OptionalTime{Set: true, Value: &t}
}

// ClearTime returns an OptionalTime that clears the stored value.
func ClearTime() OptionalTime {
	return OptionalTime{Set: true}
}

// TaskPatch is the payload for a partial task update. Nil pointer fields
// are omitted from the request.
type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    OptionalTime
}

// IsEmpty reports whether the patch carries no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && !p.Deadline.Set
}

// TaskStats is the aggregate view returned by the stats endpoint.
type TaskStats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Incomplete  int `json:"incomplete"`
	Overdue     int `json:"overdue"`
	DueToday    int `json:"due_today"`
	Upcoming24h int `json:"upcoming_24h"`
	NoDeadline  int `json:"no_deadline"`
}

// ChatMessage is one turn of the conversational agent history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
