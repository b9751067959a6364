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

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command. Tasks outside the Recycle Bin are moved
// there. Tasks already in it are deleted for good after confirmation.
type RmCmd struct {
	view viewFlags
	yes  bool
	in   io.Reader
}

// SetInput implements InputReader.
func (c *RmCmd) SetInput(in io.Reader) { c.in = in }

// SetFilter sets the view used to resolve numeric refs (for testing).
func (c *RmCmd) SetFilter(status, priority string) {
	c.view = viewFlags{status: status, priority: priority}
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) { c.yes = yes }

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Recycle a task, or delete it from the Recycle Bin" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) Usage() string {
	return "taskdeck rm [--yes] [--status <s>] [--priority <p>] <ref>"
}

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, true)
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := parseRef(args)
	if err != nil {
		return reportError(errOut, err)
	}
	f, err := c.view.filter(cfg, "")
	if err != nil {
		return reportError(errOut, err)
	}
	found, err := resolveTask(ctx, svc, ref, f)
	if err != nil {
		return reportError(errOut, err)
	}

	if found.task.Status != service.StatusAborted {
		to, err := service.Transition(found.task.Status, service.ActionAbort)
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

	if !c.yes {
		p := newPrompter(c.in, errOut)
		if !p.confirm("Are you sure you want to permanently delete this task?") {
			if !cfg.Quiet {
				fmt.Fprintln(out, "cancelled")
			}
			return exitcode.Success
		}
	}

	if err := svc.DeleteTask(ctx, found.task.ID); err != nil {
		return reportError(errOut, err)
	}
	found.store.Remove(found.task.ID)
	logger(cfg).Debug("task deleted", "id", found.task.ID, "remaining", found.store.Len())

	if cfg.Quiet {
		return exitcode.Success
	}
	fmt.Fprintln(out, "Task permanently deleted")
	if err := renderView(ctx, cfg, found.store, f, out); err != nil {
		return reportError(errOut, err)
	}
	return exitcode.Success
}
