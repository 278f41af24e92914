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
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command. Running taskdeck with no arguments
// dispatches here with the default selection.
type ListCmd struct {
	sel  selectionFlags
	long bool
}

// SetSelection sets the raw selection values (for testing).
func (c *ListCmd) SetSelection(filter, sort, search string) {
	c.sel = selectionFlags{filter: filter, sort: sort, search: search}
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--filter <f>] [--sort <s>] [--search <text>] [--long]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.sel.register(fs)
	fs.BoolVar(&c.long, "long", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	sel, err := c.sel.selection()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	ctrl := controller.NewTasks(sess, svc, logger.New(cfg.Debug))
	if err := ctrl.SetSelection(ctx, sel); err != nil {
		return fail(errOut, err)
	}

	snap := ctrl.Snapshot()
	if len(snap.Tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, v := range snap.Tasks {
		if c.long {
			output.FormatTaskDetail(out, i+1, v)
		} else {
			output.FormatTask(out, i+1, v)
		}
	}
	return exitcode.Success
}
