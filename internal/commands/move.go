package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command: it places a task at a new position
// within the current view by giving it a fractional order between its new
// neighbors.
type MoveCmd struct {
	view viewFlags
	now  func() time.Time
}

// SetFilter sets the view to reorder within (for testing).
func (c *MoveCmd) SetFilter(status, priority string) {
	c.view = viewFlags{status: status, priority: priority}
}

// SetClock sets the clock used when the view holds a single task (for testing).
func (c *MoveCmd) SetClock(now func() time.Time) { c.now = now }

func (c *MoveCmd) Name() string      { return "move" }
func (c *MoveCmd) Aliases() []string { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string  { return "Move a task to another position" }
func (c *MoveCmd) NeedsAuth() bool   { return true }

func (c *MoveCmd) Usage() string {
	return "taskdeck move [--status <s>] [--priority <p>] <ref> <position>"
}

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, true)
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := parseRef(args)
	if err != nil {
		return reportError(errOut, err)
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: target position required")
		return exitcode.UserError
	}
	to, err := strconv.Atoi(args[1])
	if err != nil || to < 1 {
		fmt.Fprintf(errOut, "error: invalid position: %s\n", args[1])
		return exitcode.UserError
	}

	f, err := c.view.filter(cfg, "")
	if err != nil {
		return reportError(errOut, err)
	}
	found, err := resolveTask(ctx, svc, ref, f)
	if err != nil {
		return reportError(errOut, err)
	}
	if found.index < 0 {
		fmt.Fprintf(errOut, "error: task %s is not in the %s view\n", ref, f.Status)
		return exitcode.UserError
	}
	if to > len(found.view) {
		fmt.Fprintf(errOut, "error: position out of range: %d\n", to)
		return exitcode.UserError
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	_, order, err := reorder.Move(found.view, found.index, to-1, now())
	if err != nil {
		return reportError(errOut, userErrorf("%v", err))
	}

	// Applied locally first and kept even if the server rejects it.
	found.store.SetOrder(found.task.ID, order)
	if err := svc.SetOrder(ctx, found.task.ID, order); err != nil {
		logger(cfg).Warn("reorder failed", "id", found.task.ID, "order", order, "err", err)
		return reportError(errOut, err)
	}
	logger(cfg).Debug("task moved", "id", found.task.ID, "order", order)

	if cfg.Quiet {
		return exitcode.Success
	}
	if err := renderView(ctx, cfg, found.store, f, out); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}
