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
	Register(&DoneCmd{})
}

// DoneCmd toggles a task's completion state. The task is referenced by its
// 1-based number in the current selection's view.
type DoneCmd struct {
	sel selectionFlags
}

// SetSelection sets the raw selection values (for testing).
func (c *DoneCmd) SetSelection(filter, sort, search string) {
	c.sel = selectionFlags{filter: filter, sort: sort, search: search}
}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task's completion" }
func (c *DoneCmd) Usage() string {
	return "taskdeck done [--filter <f>] [--sort <s>] [--search <text>] <n>"
}
func (c *DoneCmd) NeedsAuth() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	c.sel.register(fs)
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
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
	if err := ctrl.Toggle(ctx, task.ID); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
