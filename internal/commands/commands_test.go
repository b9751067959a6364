package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, svc, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdeck 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "  board (ui)", "  complete (done)", "#ID", "--no-color"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestHelpCommand_ForCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, _, code := runCommand(t, cmd, nil, []string{"mv"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "Usage:\n  taskdeck move [--status <s>] [--priority <p>] <ref> <position>\n\nMove a task to another position\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}

	_, stderr, code := runCommand(t, cmd, nil, []string{"nope"}, false)
	if code != exitcode.UserError || stderr != "error: unknown command: nope\n" {
		t.Errorf("expected unknown command, got %d %q", code, stderr)
	}
}

// Every registered command must be reachable by name and alias.
func TestDefaultRegistry(t *testing.T) {
	for _, name := range []string{"list", "ls", "board", "add", "create", "edit", "show", "start", "complete", "done", "abort", "restore", "rm", "move", "profile", "register", "login", "logout", "help", "version"} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("command %q not registered", name)
		}
	}
}

// Tests for list command
func TestListCommand_SortedByOrder(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "Buy eggs", Order: 2})
	svc.AddTask(service.Task{Title: "Buy milk", Order: 1, Priority: service.PriorityHigh})
	svc.AddTask(service.Task{Title: "Done already", Status: service.StatusCompleted})

	cmd := &commands.ListCmd{}
	cmd.SetClock(fixedClock)
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  High    Buy milk\n   2  Medium  Buy eggs\n2 Queue\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected empty message, got %q", stdout)
	}
}

func TestListCommand_QuietOmitsFooter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "Only"})

	cmd := &commands.ListCmd{}
	stdout, _, _ := runCommand(t, cmd, svc, nil, true)

	if stdout != "   1  Medium  Only\n" {
		t.Errorf("expected bare task line, got %q", stdout)
	}
}

func TestListCommand_FilterByStatusAndPriority(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "queued"})
	svc.AddTask(service.Task{Title: "busy low", Status: service.StatusInProgress, Priority: service.PriorityLow})
	svc.AddTask(service.Task{Title: "busy high", Status: service.StatusInProgress, Priority: service.PriorityHigh})

	cmd := &commands.ListCmd{}
	cmd.SetFilter("in-progress", "high")
	stdout, _, code := runCommand(t, cmd, svc, nil, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   1  High    busy high\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListCommand_AllShowsStatus(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a"})
	svc.AddTask(service.Task{Title: "b", Status: service.StatusAborted})

	cmd := &commands.ListCmd{}
	cmd.SetFilter("all", "")
	stdout, _, _ := runCommand(t, cmd, svc, nil, false)

	expected := "   1  Medium  a  [Queue]\n   2  Medium  b  [Aborted]\n2 tasks\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_InvalidStatus(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("someday", "")
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid status: someday\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_DueSoonReminder(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "today", DueDate: "2025-03-10"})
	svc.AddTask(service.Task{Title: "tomorrow", DueDate: "2025-03-11", Status: service.StatusInProgress})
	svc.AddTask(service.Task{Title: "later", DueDate: "2025-04-01"})
	svc.AddTask(service.Task{Title: "finished", DueDate: "2025-03-09", Status: service.StatusCompleted})

	cmd := &commands.ListCmd{}
	cmd.SetClock(fixedClock)
	_, stderr, _ := runCommand(t, cmd, svc, nil, false)

	if stderr != "Reminder: 2 tasks due soon!\n" {
		t.Errorf("unexpected reminder %q", stderr)
	}

	_, stderr, _ = runCommand(t, cmd, svc, nil, true)
	if stderr != "" {
		t.Errorf("expected quiet to suppress the reminder, got %q", stderr)
	}
}

func TestListCommand_Unauthorized(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = &service.APIError{Status: 401, Detail: "Token is invalid or expired"}

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: session expired (run: taskdeck login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = errors.New("connection refused")

	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	cmd.SetFields("high", "2025-04-01", "some **notes**")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	task, ok := svc.Task(1)
	if !ok {
		t.Fatal("expected task created")
	}
	if task.Title != "Buy milk" || task.Priority != service.PriorityHigh || task.DueDate != "2025-04-01" || task.Description != "some **notes**" {
		t.Errorf("unexpected task %+v", task)
	}
	if task.Status != service.StatusQueue {
		t.Errorf("expected new task in Queue, got %s", task.Status)
	}
}

func TestAddCommand_DefaultsToMedium(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	_, _, code := runCommand(t, cmd, svc, []string{"Walk"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if task, _ := svc.Task(1); task.Priority != service.PriorityMedium {
		t.Errorf("expected Medium, got %s", task.Priority)
	}
}

func TestAddCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		priority string
		due      string
		args     []string
		want     string
	}{
		{"no title", "", "", nil, "error: title required\n"},
		{"blank title", "", "", []string{"  "}, "error: title required\n"},
		{"bad priority", "urgent", "", []string{"x"}, "error: invalid priority: urgent\n"},
		{"all priority", "all", "", []string{"x"}, "error: invalid priority: all\n"},
		{"bad due", "", "tomorrow", []string{"x"}, "error: invalid due date: tomorrow (want YYYY-MM-DD)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			cmd := &commands.AddCmd{}
			cmd.SetFields(tt.priority, tt.due, "")
			_, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if svc.TaskCount() != 0 {
				t.Error("expected no task created")
			}
		})
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask(service.Task{Title: "Old", Description: "keep me", DueDate: "2025-01-01"})

	cmd := &commands.EditCmd{}
	cmd.SetTitle("New")
	cmd.SetPriority("low")
	cmd.SetDue("")
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	task, _ := svc.Task(id)
	if task.Title != "New" || task.Priority != service.PriorityLow {
		t.Errorf("expected title and priority changed, got %+v", task)
	}
	if task.Description != "keep me" {
		t.Errorf("expected description kept, got %q", task.Description)
	}
	if task.DueDate != "" {
		t.Errorf("expected due date cleared, got %q", task.DueDate)
	}
}

func TestEditCommand_ByID(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "queued"})
	id := svc.AddTask(service.Task{Title: "done", Status: service.StatusCompleted})

	cmd := &commands.EditCmd{}
	cmd.SetDescription("notes")
	_, _, code := runCommand(t, cmd, svc, []string{"#2"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if task, _ := svc.Task(id); task.Description != "notes" {
		t.Errorf("expected description set, got %q", task.Description)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "x"})

	cmd := &commands.EditCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: nothing to change\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_EmptyTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "x"})

	cmd := &commands.EditCmd{}
	cmd.SetTitle(" ")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError || stderr != "error: title required\n" {
		t.Errorf("expected title required, got %d %q", code, stderr)
	}
}

func TestEditCommand_OutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "x"})

	cmd := &commands.EditCmd{}
	cmd.SetTitle("y")
	_, stderr, code := runCommand(t, cmd, svc, []string{"5"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: 5\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "Ship it", Priority: service.PriorityHigh, Description: "Remember the *docs*"})

	cmd := &commands.ShowCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{"#1  Ship it\n", "Status:    Queue\n", "Priority:  High\n", "Remember the *docs*\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}
}

func TestShowCommand_MissingRef(t *testing.T) {
	cmd := &commands.ShowCmd{}
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError || stderr != "error: task reference required\n" {
		t.Errorf("expected ref required, got %d %q", code, stderr)
	}
}

func TestShowCommand_UnknownID(t *testing.T) {
	cmd := &commands.ShowCmd{}
	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), []string{"#9"}, false)

	if code != exitcode.UserError || stderr != "error: task not found: #9\n" {
		t.Errorf("expected not found, got %d %q", code, stderr)
	}
}

// Tests for the status transition commands
func TestStatusCommands(t *testing.T) {
	tests := []struct {
		action service.Action
		from   service.Status
		to     service.Status
		msg    string
	}{
		{service.ActionStart, service.StatusQueue, service.StatusInProgress, "Task moved to In Progress\n"},
		{service.ActionComplete, service.StatusInProgress, service.StatusCompleted, "Task moved to Completed\n"},
		{service.ActionAbort, service.StatusQueue, service.StatusAborted, "Task moved to Recycle Bin\n"},
		{service.ActionRestore, service.StatusAborted, service.StatusQueue, "Task moved to Queue\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			svc := testutil.NewFakeService()
			id := svc.AddTask(service.Task{Title: "job", Status: tt.from})

			cmd := commands.NewStatusCmd(tt.action)
			if tt.action == service.ActionAbort {
				cmd.SetFilter(string(tt.from), "")
			}
			stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

			if code != exitcode.Success {
				t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
			}
			if want := tt.msg + "no tasks found\n"; stdout != want {
				t.Errorf("expected %q, got %q", want, stdout)
			}
			if task, _ := svc.Task(id); task.Status != tt.to {
				t.Errorf("expected %s, got %s", tt.to, task.Status)
			}
		})
	}
}

func TestStatusCommand_RendersSourceView(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask(service.Task{Title: "first"})
	svc.AddTask(service.Task{Title: "second"})

	cmd := commands.NewStatusCmd(service.ActionStart)
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "Task moved to In Progress\n   1  Medium  second\n1 Queue\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if task, _ := svc.Task(id); task.Status != service.StatusInProgress {
		t.Errorf("expected first task started, got %s", task.Status)
	}
}

func TestStatusCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "first"})

	cmd := commands.NewStatusCmd(service.ActionStart)
	stdout, _, code := runCommand(t, cmd, svc, []string{"1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output when quiet, got %q", stdout)
	}
}

func TestStatusCommand_InvalidTransition(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "job"})

	cmd := commands.NewStatusCmd(service.ActionComplete)
	cmd.SetFilter("queue", "")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: cannot complete a task in Queue\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if calls := svc.StatusCalls(); len(calls) != 0 {
		t.Errorf("expected no SetStatus calls, got %v", calls)
	}
}

func TestStatusCommand_UsesActionTab(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "queued"})
	id := svc.AddTask(service.Task{Title: "busy", Status: service.StatusInProgress})

	cmd := commands.NewStatusCmd(service.ActionComplete)
	_, _, code := runCommand(t, cmd, svc, []string{"1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if task, _ := svc.Task(id); task.Status != service.StatusCompleted {
		t.Errorf("expected the In Progress task completed, got %s", task.Status)
	}
}

// Tests for rm command
func TestRmCommand_Recycles(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask(service.Task{Title: "old"})

	cmd := &commands.RmCmd{}
	stdout, _, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Task moved to Recycle Bin\nno tasks found\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if task, ok := svc.Task(id); !ok || task.Status != service.StatusAborted {
		t.Errorf("expected task kept as Aborted, got %+v", task)
	}
}

func TestRmCommand_DeleteConfirmed(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask(service.Task{Title: "trash", Status: service.StatusAborted})

	cmd := &commands.RmCmd{}
	cmd.SetFilter("aborted", "")
	cmd.SetInput(strings.NewReader("y\n"))
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Task permanently deleted\nno tasks found\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "Are you sure you want to permanently delete this task? [y/N]") {
		t.Errorf("expected confirmation prompt, got %q", stderr)
	}
	if _, ok := svc.Task(id); ok {
		t.Error("expected task deleted")
	}
}

func TestRmCommand_DeleteCancelled(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask(service.Task{Title: "trash", Status: service.StatusAborted})

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("n\n"))
	stdout, _, code := runCommand(t, cmd, svc, []string{"#1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "cancelled\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if _, ok := svc.Task(id); !ok {
		t.Error("expected task kept")
	}
}

func TestRmCommand_DeleteNoInput(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "trash", Status: service.StatusAborted})

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader(""))
	_, _, code := runCommand(t, cmd, svc, []string{"#1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if svc.TaskCount() != 1 {
		t.Error("expected EOF to count as no")
	}
}

func TestRmCommand_Yes(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "trash", Status: service.StatusAborted})

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	_, stderr, code := runCommand(t, cmd, svc, []string{"#1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no prompt, got %q", stderr)
	}
	if svc.TaskCount() != 0 {
		t.Error("expected task deleted")
	}
}

// Tests for move command
func TestMoveCommand_Midpoint(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "one", Order: 1})
	svc.AddTask(service.Task{Title: "two", Order: 2})
	id := svc.AddTask(service.Task{Title: "three", Order: 3})

	cmd := &commands.MoveCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"3", "2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if task, _ := svc.Task(id); task.Order != 1.5 {
		t.Errorf("expected order 1.5, got %v", task.Order)
	}
	expected := "   1  Medium  one\n   2  Medium  three\n   3  Medium  two\n3 Queue\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestMoveCommand_ToHead(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "first", Order: 5})
	svc.AddTask(service.Task{Title: "second", Order: 7})

	cmd := &commands.MoveCmd{}
	_, _, code := runCommand(t, cmd, svc, []string{"2", "1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if calls := svc.OrderCalls(); len(calls) != 1 || calls[0] != 4 {
		t.Errorf("expected SetOrder(4), got %v", calls)
	}
}

func TestMoveCommand_OnlyTaskUsesClock(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "solo"})

	cmd := &commands.MoveCmd{}
	cmd.SetClock(fixedClock)
	_, _, code := runCommand(t, cmd, svc, []string{"1", "1"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	want := float64(fixedClock().UnixMilli())
	if calls := svc.OrderCalls(); len(calls) != 1 || calls[0] != want {
		t.Errorf("expected SetOrder(%v), got %v", want, calls)
	}
}

func TestMoveCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no position", []string{"1"}, "error: target position required\n"},
		{"bad position", []string{"1", "top"}, "error: invalid position: top\n"},
		{"zero position", []string{"1", "0"}, "error: invalid position: 0\n"},
		{"out of range", []string{"1", "3"}, "error: position out of range: 3\n"},
		{"outside view", []string{"#3", "1"}, "error: task #3 is not in the Queue view\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			svc.AddTask(service.Task{Title: "a"})
			svc.AddTask(service.Task{Title: "b"})
			svc.AddTask(service.Task{Title: "c", Status: service.StatusCompleted})

			cmd := &commands.MoveCmd{}
			_, stderr, code := runCommand(t, cmd, svc, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if calls := svc.OrderCalls(); len(calls) != 0 {
				t.Errorf("expected no SetOrder calls, got %v", calls)
			}
		})
	}
}

func TestMoveCommand_ServerFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "a", Order: 1})
	svc.AddTask(service.Task{Title: "b", Order: 2})
	svc.SetOrderErr = &service.APIError{Status: 500}

	cmd := &commands.MoveCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"2", "1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend error: Internal Server Error\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if calls := svc.OrderCalls(); len(calls) != 1 || calls[0] != 0 {
		t.Errorf("expected one attempted SetOrder(0), got %v", calls)
	}
}

// Tests for profile command
func TestProfileCommand_Show(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetProfile(service.Profile{Username: "alice", Email: "alice@example.com", FullName: "Alice Liddell", Location: "Oxford"})

	cmd := &commands.ProfileCmd{}
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{"Alice Liddell\n", "Username:  alice\n", "Email:     alice@example.com\n", "Location:  Oxford\n"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Bio:") {
		t.Error("expected empty bio to be omitted")
	}
}

func TestProfileCommand_Update(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetProfile(service.Profile{Username: "alice", Location: "Oxford"})

	cmd := &commands.ProfileCmd{}
	cmd.SetFullName("Alice")
	cmd.SetBio("")
	stdout, _, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	prof, err := svc.Profile(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if prof.FullName != "Alice" || prof.Location != "Oxford" {
		t.Errorf("expected merged profile, got %+v", prof)
	}
}
