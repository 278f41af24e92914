package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskdeck/internal/config"
	"taskdeck/internal/controller"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logger"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd deletes a task, referenced by its 1-based number in the current
// selection's view.
type RmCmd struct {
	sel selectionFlags
}

// SetSelection sets the raw selection values (for testing).
func (c *RmCmd) SetSelection(filter, sort, search string) {
	c.sel = selectionFlags{filter: filter, sort: sort, search: search}
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string {
	return "taskdeck rm [--filter <f>] [--sort <s>] [--search <text>] <n>"
}
func (c *RmCmd) NeedsAuth() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	c.sel.register(fs)
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number required")
		return exitcode.UserError
	}
	num, err := strconv.Atoi(args[0])
	if err != nil || num < 1 {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return exitcode.UserError
	}

	sel, err := c.sel.selection()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := controller.NewTasks(sess, svc, logger.New(cfg.Debug))
	if err := ctrl.SetSelection(ctx, sel); err != nil {
		return fail(errOut, err)
	}

	task, err := resolveTask(ctrl, num)
	if err != nil {
		return fail(errOut, err)
	}
	if err := ctrl.Delete(ctx, task.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
