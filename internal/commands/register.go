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
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command. It creates the account
// but does not sign in.
type RegisterCmd struct {
	username string
	email    string
	password string
	in       io.Reader
}

// SetInput implements InputReader.
func (c *RegisterCmd) SetInput(in io.Reader) { c.in = in }

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) Usage() string {
	return "taskdeck register [--username <u>] [--email <e>] [--password <p>]"
}

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	p := newPrompter(c.in, errOut)
	reg := service.Registration{Username: c.username, Email: c.email, Password: c.password}

	var err error
	if reg.Username == "" {
		if reg.Username, err = p.line("Username: "); err != nil {
			return reportError(errOut, userErrorf("%v", err))
		}
	}
	if reg.Email == "" {
		if reg.Email, err = p.line("Email: "); err != nil {
			return reportError(errOut, userErrorf("%v", err))
		}
	}
	if reg.Password == "" {
		if reg.Password, err = p.secret("Password: "); err != nil {
			return reportError(errOut, userErrorf("%v", err))
		}
	}
	if reg.Username == "" || reg.Password == "" {
		fmt.Fprintln(errOut, "error: username and password required")
		return exitcode.UserError
	}
	if !strings.Contains(reg.Email, "@") {
		fmt.Fprintf(errOut, "error: invalid email: %s\n", reg.Email)
		return exitcode.UserError
	}

	if err := svc.Register(ctx, reg); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "Registration successful. Please log in.")
	}
	return exitcode.Success
}
