// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation failure, not found).
	UserError = 1

	// AuthError indicates an auth error (not signed in, rejected credentials).
	AuthError = 2

	// BackendError indicates a service/network error.
	BackendError = 3
)
