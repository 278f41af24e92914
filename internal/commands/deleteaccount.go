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
	Register(&DeleteAccountCmd{})
}

// DeleteAccountCmd removes the account and all its tasks, then discards
// the session. The backend rejects a wrong password and the session stays
// intact in that case.
type DeleteAccountCmd struct {
	password string
}

// SetPassword sets the password flag (for testing).
func (c *DeleteAccountCmd) SetPassword(p string) { c.password = p }

func (c *DeleteAccountCmd) Name() string      { return "delete-account" }
func (c *DeleteAccountCmd) Aliases() []string { return nil }
func (c *DeleteAccountCmd) Synopsis() string  { return "Delete the account and sign out" }
func (c *DeleteAccountCmd) Usage() string {
	return "taskdeck delete-account --password <pw>"
}
func (c *DeleteAccountCmd) NeedsAuth() bool { return true }

func (c *DeleteAccountCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
}

func (c *DeleteAccountCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl := controller.NewProfile(sess, svc, logger.New(cfg.Debug))
	if err := ctrl.DeleteAccount(ctx, c.password); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "account deleted")
	}
	return exitcode.Success
}
