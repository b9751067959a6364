package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	username string
	password string
	in       io.Reader
}

// SetInput implements InputReader.
func (c *LoginCmd) SetInput(in io.Reader) { c.in = in }

// SetCredentials sets the username and password flags (for testing).
func (c *LoginCmd) SetCredentials(username, password string) {
	c.username = username
	c.password = password
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in to the todo API" }
func (c *LoginCmd) Usage() string     { return "taskdeck login [--username <u>] [--password <p>]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	// A token whose exp claim is still in the future is kept. Opaque tokens
	// can't be checked locally, so those log in again.
	if exp, ok := svc.TokenExpiry(); ok && time.Now().Before(exp) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	p := newPrompter(c.in, errOut)
	creds := service.Credentials{Username: c.username, Password: c.password}
	var err error
	if creds.Username == "" {
		if creds.Username, err = p.line("Username: "); err != nil {
			return reportError(errOut, userErrorf("%v", err))
		}
	}
	if creds.Password == "" {
		if creds.Password, err = p.secret("Password: "); err != nil {
			return reportError(errOut, userErrorf("%v", err))
		}
	}
	if creds.Username == "" || creds.Password == "" {
		fmt.Fprintln(errOut, "error: username and password required")
		return exitcode.UserError
	}

	if err := svc.Login(ctx, creds); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
