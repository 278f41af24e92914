package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/controller"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logger"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func init() {
	Register(&PasswdCmd{})
}

// PasswdCmd changes the account password.
type PasswdCmd struct {
	current string
	next    string
	confirm string
}

// SetPasswords sets the flag-backed fields (for testing).
func (c *PasswdCmd) SetPasswords(current, next, confirm string) {
	c.current = current
	c.next = next
	c.confirm = confirm
}

func (c *PasswdCmd) Name() string      { return "passwd" }
func (c *PasswdCmd) Aliases() []string { return nil }
func (c *PasswdCmd) Synopsis() string  { return "Change the account password" }
func (c *PasswdCmd) Usage() string {
	return "taskdeck passwd --current <pw> --new <pw> --confirm <pw>"
}
func (c *PasswdCmd) NeedsAuth() bool { return true }

func (c *PasswdCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.current, "current", "", "")
	fs.StringVar(&c.next, "new", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *PasswdCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl := controller.NewProfile(sess, svc, logger.New(cfg.Debug))
	if err := ctrl.ChangePassword(ctx, c.current, c.next, c.confirm); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
