package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
	"taskdeck/internal/testutil"
)

// newDispatcher wires the default registry to a fake backend. When authed
// is true the session factory returns a signed-in store.
func newDispatcher(t *testing.T, svc *testutil.FakeService, authed bool) *cli.Dispatcher {
	t.Helper()

	d := cli.NewDispatcher(commands.DefaultRegistry, func(ctx context.Context, cfg *config.Config, sess *session.Store) (service.Service, error) {
		return svc, nil
	})
	d.SetSessionFactory(func(cfg *config.Config) *session.Store {
		sess := session.New("")
		if authed {
			err := sess.SignIn(context.Background(), svc, service.Credentials{
				Email:    "alice@example.com",
				Password: "hunter22",
			})
			if err != nil {
				t.Fatalf("sign in: %v", err)
			}
		}
		return sess
	})
	return d
}

func runDispatcher(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	// Common flags are parsed per command, so --config goes after the
	// command name.
	fullArgs := args
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		fullArgs = append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	}
	code = d.Run(context.Background(), fullArgs, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := newDispatcher(t, testutil.NewFakeService(), false)

	_, stderr, code := runDispatcher(t, d, "frobnicate")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "unknown command: frobnicate") {
		t.Errorf("expected unknown command error, got %q", stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := newDispatcher(t, testutil.NewFakeService(), false)

	_, stderr, code := runDispatcher(t, d, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "unknown command: --quiet") {
		t.Errorf("expected unknown command error, got %q", stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := newDispatcher(t, testutil.NewFakeService(), false)

	_, stderr, code := runDispatcher(t, d, "version", "--frobnicate")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "unknown flag") {
		t.Errorf("expected unknown flag error, got %q", stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	d := newDispatcher(t, testutil.NewFakeService(), false)

	_, stderr, code := runDispatcher(t, d, "login", "--email")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "flag needs an argument") {
		t.Errorf("expected flag argument error, got %q", stderr)
	}
}

func TestDispatcher_AuthGateBeforeServiceUse(t *testing.T) {
	svc := testutil.NewFakeService()
	d := newDispatcher(t, svc, false)

	_, stderr, code := runDispatcher(t, d, "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "not signed in (run: taskdeck login)") {
		t.Errorf("expected sign-in hint, got %q", stderr)
	}
	if got := svc.TotalCalls(); got != 0 {
		t.Errorf("auth gate must fire before any backend call, got %d", got)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice@example.com", "hunter22")
	d := newDispatcher(t, svc, true)

	var outBuf, errBuf bytes.Buffer
	code := d.Run(context.Background(), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "no tasks found\n" {
		t.Errorf("expected the default list output, got %q", outBuf.String())
	}
	if got := svc.Calls("Tasks"); got != 1 {
		t.Errorf("expected one Tasks call, got %d", got)
	}
}

func TestDispatcher_AliasDispatch(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice@example.com", "hunter22")
	d := newDispatcher(t, svc, true)

	stdout, stderr, code := runDispatcher(t, d, "ls")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected list output via alias, got %q", stdout)
	}
}

func TestDispatcher_QuietFlag(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice@example.com", "hunter22")
	d := newDispatcher(t, svc, true)

	stdout, stderr, code := runDispatcher(t, d, "list", "--quiet")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("quiet mode should print nothing for an empty list, got %q", stdout)
	}
}

func TestDispatcher_VersionNeedsNoAuth(t *testing.T) {
	d := newDispatcher(t, testutil.NewFakeService(), false)

	stdout, _, code := runDispatcher(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.HasPrefix(stdout, "taskdeck ") {
		t.Errorf("expected version output, got %q", stdout)
	}
}
