package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

// statusCmds lists one command per transition action.
var statusCmds = []StatusCmd{
	{name: "start", synopsis: "Move a queued task to In Progress", action: service.ActionStart, tab: service.StatusQueue},
	{name: "complete", aliases: []string{"done"}, synopsis: "Mark an in-progress task completed", action: service.ActionComplete, tab: service.StatusInProgress},
	{name: "abort", synopsis: "Move a task to the Recycle Bin", action: service.ActionAbort},
	{name: "restore", synopsis: "Move a task from the Recycle Bin back to Queue", action: service.ActionRestore, tab: service.StatusAborted},
}

func init() {
	for i := range statusCmds {
		cmd := statusCmds[i]
		Register(&cmd)
	}
}

// StatusCmd applies one status transition. Numeric refs count within the
// tab the action normally starts from, unless --status says otherwise.
type StatusCmd struct {
	name     string
	aliases  []string
	synopsis string
	action   service.Action
	tab      service.Status
	view     viewFlags
}

// NewStatusCmd returns a fresh command for action, or nil.
func NewStatusCmd(action service.Action) *StatusCmd {
	for _, c := range statusCmds {
		if c.action == action {
			return &c
		}
	}
	return nil
}

// SetFilter sets the view used to resolve numeric refs (for testing).
func (c *StatusCmd) SetFilter(status, priority string) {
	c.view = viewFlags{status: status, priority: priority}
}

func (c *StatusCmd) Name() string      { return c.name }
func (c *StatusCmd) Aliases() []string { return c.aliases }
func (c *StatusCmd) Synopsis() string  { return c.synopsis }
func (c *StatusCmd) NeedsAuth() bool   { return true }

func (c *StatusCmd) Usage() string {
	return fmt.Sprintf("taskdeck %s [--status <s>] [--priority <p>] <ref>", c.name)
}

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, true)
}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := parseRef(args)
	if err != nil {
		return reportError(errOut, err)
	}
	f, err := c.view.filter(cfg, c.tab)
	if err != nil {
		return reportError(errOut, err)
	}
	found, err := resolveTask(ctx, svc, ref, f)
	if err != nil {
		return reportError(errOut, err)
	}

	to, err := service.Transition(found.task.Status, c.action)
	if err != nil {
		return reportError(errOut, userErrorf("%v", err))
	}
	if err := svc.SetStatus(ctx, found.task.ID, to); err != nil {
		return reportError(errOut, err)
	}

	if cfg.Quiet {
		return exitcode.Success
	}
	fmt.Fprintln(out, service.TransitionMessage(to))
	if err := renderView(ctx, cfg, found.store, f, out); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}
