package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdeck` (no args) and `taskdeck list`.
type ListCmd struct {
	view viewFlags
	now  func() time.Time
}

// SetFilter sets the status and priority flags (for testing).
func (c *ListCmd) SetFilter(status, priority string) {
	c.view = viewFlags{status: status, priority: priority}
}

// SetClock sets the clock used for due-date reminders (for testing).
func (c *ListCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) Usage() string {
	return "taskdeck list [--status <status>] [--priority <priority>]"
}

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, true)
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	f, err := c.view.filter(cfg, "")
	if err != nil {
		return reportError(errOut, err)
	}

	st := store.New(svc)
	if _, err := st.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	p := newPrinter(cfg, out)
	n := p.Tasks(st.View(f), f.Status)
	if !cfg.Quiet {
		if n == 0 {
			fmt.Fprintln(out, "no tasks found")
		} else {
			p.Count(n, f.Status)
		}
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	remind(cfg, st, now(), errOut)
	return exitcode.Success
}

// remind prints the due-soon reminder for active tasks across every tab.
func remind(cfg *config.Config, st *store.Store, now time.Time, errOut io.Writer) {
	if cfg.Quiet {
		return
	}
	switch n := store.DueSoon(st.View(store.Filter{}), now); {
	case n == 1:
		fmt.Fprintln(errOut, "Reminder: 1 task due soon!")
	case n > 1:
		fmt.Fprintf(errOut, "Reminder: %d tasks due soon!\n", n)
	}
}

// renderView refetches st and writes the view f after a change.
func renderView(ctx context.Context, cfg *config.Config, st *store.Store, f store.Filter, out io.Writer) error {
	if _, err := st.Refresh(ctx); err != nil {
		return err
	}
	p := newPrinter(cfg, out)
	if n := p.Tasks(st.View(f), f.Status); n == 0 {
		fmt.Fprintln(out, "no tasks found")
	} else {
		p.Count(n, f.Status)
	}
	return nil
}

func newPrinter(cfg *config.Config, w io.Writer) *output.Printer {
	return output.NewPrinter(w, cfg.NoColor)
}

// logger returns cfg.Logger, or a discarding logger for bare configs.
func logger(cfg *config.Config) *log.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logging.Discard()
}
