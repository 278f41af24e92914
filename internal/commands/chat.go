package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

func init() {
	Register(&ChatCmd{})
}

// ChatCmd forwards a message to the task assistant and prints the reply.
// The conversation lives entirely in the backend; the client keeps no
// history of its own.
type ChatCmd struct{}

func (c *ChatCmd) Name() string      { return "chat" }
func (c *ChatCmd) Aliases() []string { return nil }
func (c *ChatCmd) Synopsis() string  { return "Ask the task assistant" }
func (c *ChatCmd) Usage() string     { return "taskdeck chat <message...>" }
func (c *ChatCmd) NeedsAuth() bool   { return true }

func (c *ChatCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ChatCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Store, svc service.Service, args []string, out, errOut io.Writer) int {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		fmt.Fprintln(errOut, "error: message required")
		return exitcode.UserError
	}

	id, err := sess.RequireAuth()
	if err != nil {
		return fail(errOut, err)
	}

	reply, err := svc.Chat(ctx, id.ID, message, nil)
	if err != nil {
		return fail(errOut, err)
	}

	fmt.Fprintln(out, reply)
	return exitcode.Success
}
