package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd registers a new account and signs in with the same
// credentials.
type SignupCmd struct {
	email    string
	password string
}

// SetCredentials sets the flag-backed fields (for testing).
func (c *SignupCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return nil }
func (c *SignupCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string {
	return "taskdeck signup --email <email> --password <password>"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}

	creds := service.Credentials{Email: c.email, Password: c.password}
	if err := sess.SignUp(ctx, svc, creds); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		id, _ := sess.Identity()
		fmt.Fprintf(out, "signed up as %s\n", id.Email)
	}
	return exitcode.Success
}
