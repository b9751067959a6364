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
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the flags given are changed.
// Numeric refs count within --status; --priority sets the new priority.
type EditCmd struct {
	view        viewFlags
	title       optionalString
	description optionalString
	priority    optionalString
	due         optionalString
}

// SetStatus sets the view used to resolve numeric refs (for testing).
func (c *EditCmd) SetStatus(status string) { c.view.status = status }

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(s string) { _ = c.title.Set(s) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(s string) { _ = c.description.Set(s) }

// SetPriority sets the new priority (for testing).
func (c *EditCmd) SetPriority(s string) { _ = c.priority.Set(s) }

// SetDue sets the new due date (for testing).
func (c *EditCmd) SetDue(s string) { _ = c.due.Set(s) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) Synopsis() string {
	return "Change a task's title, description, priority or due date"
}

func (c *EditCmd) Usage() string {
	return "taskdeck edit [--title <t>] [--description <d>] [--priority <p>] [--due <date>] <ref>"
}

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, false)
	c.title, c.description, c.priority, c.due = optionalString{}, optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "desc", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.due, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, err := parseRef(args)
	if err != nil {
		return reportError(errOut, err)
	}
	if !c.title.set && !c.description.set && !c.priority.set && !c.due.set {
		fmt.Fprintln(errOut, "error: nothing to change")
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

	in := service.InputFrom(found.task)
	if c.title.set {
		in.Title = strings.TrimSpace(c.title.value)
		if in.Title == "" {
			fmt.Fprintln(errOut, "error: title required")
			return exitcode.UserError
		}
	}
	if c.description.set {
		in.Description = c.description.value
	}
	if c.priority.set {
		if in.Priority, err = taskPriority(c.priority.value); err != nil {
			return reportError(errOut, err)
		}
	}
	if c.due.set {
		if in.DueDate, err = dueDate(c.due.value); err != nil {
			return reportError(errOut, err)
		}
	}

	if _, err := svc.UpdateTask(ctx, found.task.ID, in); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
