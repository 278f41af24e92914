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
	Register(&EditCmd{})
}

// EditCmd applies a partial update to a task. Fields not given on the
// command line keep their stored values; --clear-due removes an existing
// deadline.
type EditCmd struct {
	sel      selectionFlags
	title    string
	desc     string
	due      string
	clearDue bool

	titleSet bool
	descSet  bool
}

// SetFields sets the flag-backed fields (for testing).
func (c *EditCmd) SetFields(title, desc, due string, clearDue bool) {
	c.title, c.titleSet = title, title != ""
	c.desc, c.descSet = desc, desc != ""
	c.due = due
	c.clearDue = clearDue
}

// SetSelection sets the raw selection values (for testing).
func (c *EditCmd) SetSelection(filter, sort, search string) {
	c.sel = selectionFlags{filter: filter, sort: sort, search: search}
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Update a task" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [--title <t>] [--desc <text>] [--due <when> | --clear-due] <n>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.sel.register(fs)
	fs.Func("title", "", func(v string) error {
		c.title, c.titleSet = v, true
		return nil
	})
	fs.Func("desc", "", func(v string) error {
		c.desc, c.descSet = v, true
		return nil
	})
	fs.StringVar(&c.due, "due", "", "")
	fs.BoolVar(&c.clearDue, "clear-due", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number required")
		return exitcode.UserError
	}
	num, err := strconv.Atoi(args[0])
	if err != nil || num < 1 {
		fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
		return exitcode.UserError
	}
	if c.due != "" && c.clearDue {
		fmt.Fprintln(errOut, "error: cannot use both --due and --clear-due")
		return exitcode.UserError
	}

	patch := service.TaskPatch{}
	if c.titleSet {
		patch.Title = &c.title
	}
	if c.descSet {
		patch.Description = &c.desc
	}
	if c.clearDue {
		patch.Deadline = service.ClearTime()
	} else if c.due != "" {
		t, err := parseDeadline(c.due)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		patch.Deadline = service.Time(t)
	}
	if patch.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to update")
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
	if err := ctrl.Update(ctx, task.ID, patch); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
