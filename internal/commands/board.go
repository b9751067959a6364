package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/tui"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd opens the interactive board.
type BoardCmd struct {
	view viewFlags
	in   io.Reader
}

// SetInput implements InputReader.
func (c *BoardCmd) SetInput(in io.Reader) { c.in = in }

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"ui"} }
func (c *BoardCmd) Synopsis() string  { return "Open the interactive task board" }
func (c *BoardCmd) NeedsAuth() bool   { return true }

func (c *BoardCmd) Usage() string {
	return "taskdeck board [--status <status>] [--priority <priority>]"
}

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, true)
}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	f, err := c.view.filter(cfg, "")
	if err != nil {
		return reportError(errOut, err)
	}

	r := lipgloss.NewRenderer(out)
	if cfg.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	m := tui.New(ctx, svc, tui.Options{
		Filter:   f,
		Renderer: r,
		Logger:   logger(cfg),
	})
	if err := tui.Run(ctx, m, c.in, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
