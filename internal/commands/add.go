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
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	priority    string
	due         string
	description string
}

// SetFields sets the optional fields (for testing).
func (c *AddCmd) SetFields(priority, due, description string) {
	c.priority = priority
	c.due = due
	c.description = description
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) Usage() string {
	return "taskdeck add [--priority <p>] [--due <date>] [--description <text>] <title...>"
}

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", string(service.PriorityMedium), "")
	fs.StringVar(&c.priority, "p", string(service.PriorityMedium), "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "desc", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	raw := c.priority
	if raw == "" {
		raw = string(service.PriorityMedium)
	}
	priority, err := taskPriority(raw)
	if err != nil {
		return reportError(errOut, err)
	}
	due, err := dueDate(c.due)
	if err != nil {
		return reportError(errOut, err)
	}

	task, err := svc.CreateTask(ctx, service.TaskInput{
		Title:       title,
		Description: c.description,
		Priority:    priority,
		DueDate:     due,
	})
	if err != nil {
		return reportError(errOut, err)
	}
	logger(cfg).Debug("task created", "id", task.ID)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
