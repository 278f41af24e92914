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
	Register(&ProfileCmd{})
	Register(&SetEmailCmd{})
}

// ProfileCmd prints the account data.
type ProfileCmd struct{}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return nil }
func (c *ProfileCmd) Synopsis() string  { return "Print account data" }
func (c *ProfileCmd) Usage() string     { return "taskdeck profile" }
func (c *ProfileCmd) NeedsAuth() bool   { return true }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProfileCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	ctrl := controller.NewProfile(sess, svc, logger.New(cfg.Debug))
	p, err := ctrl.Load(ctx)
	if err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintf(out, "email  %s\n", p.Email)
	return exitcode.Success
}

// SetEmailCmd changes the account email. The stored session keeps its old
// identity until the next login.
type SetEmailCmd struct {
	password string
}

// SetPassword sets the current password flag (for testing).
func (c *SetEmailCmd) SetPassword(p string) { c.password = p }

func (c *SetEmailCmd) Name() string      { return "set-email" }
func (c *SetEmailCmd) Aliases() []string { return nil }
func (c *SetEmailCmd) Synopsis() string  { return "Change the account email" }
func (c *SetEmailCmd) Usage() string {
	return "taskdeck set-email --password <current> <new-email>"
}
func (c *SetEmailCmd) NeedsAuth() bool { return true }

func (c *SetEmailCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SetEmailCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: new email required")
		return exitcode.UserError
	}

	ctrl := controller.NewProfile(sess, svc, logger.New(cfg.Debug))
	if err := ctrl.UpdateEmail(ctx, args[0], c.password); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "email updated (sign in again to refresh the session)")
	}
	return exitcode.Success
}
