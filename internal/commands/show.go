package commands

import (
	"context"
	"flag"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// detailWidth is the wrap width for rendered descriptions.
const detailWidth = 80

// ShowCmd implements the show command.
type ShowCmd struct {
	view viewFlags
}

// SetFilter sets the view used to resolve numeric refs (for testing).
func (c *ShowCmd) SetFilter(status, priority string) {
	c.view = viewFlags{status: status, priority: priority}
}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"view"} }
func (c *ShowCmd) Synopsis() string  { return "Show a task with its description" }
func (c *ShowCmd) Usage() string     { return "taskdeck show [--status <s>] [--priority <p>] <ref>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, true)
}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	newPrinter(cfg, out).Detail(found.task, detailWidth)
	return exitcode.Success
}
