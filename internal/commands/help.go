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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdeck help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           List tasks (default selection)
  taskdeck list [--filter <f>] [--sort <s>] [--search <text>] [--long]
  taskdeck add [--desc <text>] [--due <when>] <title...>
  taskdeck edit [--title <t>] [--desc <text>] [--due <when> | --clear-due] <n>
  taskdeck done <n>
  taskdeck rm <n>
  taskdeck stats
  taskdeck chat <message...>
  taskdeck signup --email <email> --password <password>
  taskdeck login --email <email> --password <password>
  taskdeck logout
  taskdeck whoami
  taskdeck profile
  taskdeck set-email --password <current> <new-email>
  taskdeck passwd --current <pw> --new <pw> --confirm <pw>
  taskdeck delete-account --password <pw>
  taskdeck help
  taskdeck version

Filters:  all incomplete complete overdue upcoming no-deadline
Sorts:    created_desc created_asc title_asc title_desc status
          deadline_asc deadline_desc

Common flags:
  --config <dir>   Override config directory
  --api <url>      Override service endpoint
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
