// Package tui implements the interactive task board.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"taskdeck/internal/logging"
	"taskdeck/internal/output"
	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

// Options configures a board.
type Options struct {
	// Filter is the starting tab and priority. StatusAll opens on Queue.
	Filter store.Filter

	// Renderer styles the board. Defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer

	// Logger receives warnings for failed background calls.
	Logger *log.Logger

	// Now is the clock used for reorder timestamps.
	Now func() time.Time
}

// Model is the board's Bubble Tea model. The store is only touched from
// Update, so every network call runs in a tea.Cmd and reports back with a
// message.
type Model struct {
	ctx    context.Context
	svc    service.Service
	store  *store.Store
	filter store.Filter
	cursor int

	keys     KeyMap
	help     help.Model
	renderer *lipgloss.Renderer
	logger   *log.Logger
	now      func() time.Time

	loading    bool
	message    string
	confirmID  int64
	confirming bool
}

type tasksMsg struct {
	tasks []service.Task
	err   error
}

type orderMsg struct {
	id    int64
	order float64
	err   error
}

type actionMsg struct {
	deleted int64
	text    string
	err     error
}

// New builds a board over svc.
func New(ctx context.Context, svc service.Service, opts Options) *Model {
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	f := opts.Filter
	if f.Status == "" || f.Status == service.StatusAll {
		f.Status = service.StatusQueue
	}
	if f.Priority == "" {
		f.Priority = service.PriorityAll
	}

	h := help.New()
	return &Model{
		ctx:      ctx,
		svc:      svc,
		store:    store.New(svc),
		filter:   f,
		keys:     DefaultKeyMap(),
		help:     h,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		now:      opts.Now,
		loading:  true,
	}
}

// Run starts the board full screen and blocks until the user quits.
// A nil in reads from stdin.
func Run(ctx context.Context, m *Model, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Filter returns the active tab and priority.
func (m *Model) Filter() store.Filter { return m.filter }

// Cursor returns the selected row within the view.
func (m *Model) Cursor() int { return m.cursor }

// Message returns the last status line.
func (m *Model) Message() string { return m.message }

// Tasks returns the tasks currently shown.
func (m *Model) Tasks() []service.Task { return m.store.ViewSlice(m.filter) }

func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tasksMsg:
		m.loading = false
		if msg.err != nil {
			m.message = errorText(msg.err)
			return m, nil
		}
		m.store.Replace(msg.tasks)
		m.clampCursor()
		return m, nil

	case orderMsg:
		if msg.err != nil {
			// The local order stays until the next refresh reconciles it.
			m.logger.Warn("reorder failed", "id", msg.id, "order", msg.order, "err", msg.err)
			m.message = "Reorder failed: " + errorText(msg.err)
			return m, nil
		}
		return m, m.fetch()

	case actionMsg:
		if msg.err != nil {
			m.message = errorText(msg.err)
			return m, nil
		}
		if msg.deleted != 0 {
			m.store.Remove(msg.deleted)
			m.clampCursor()
		}
		m.message = msg.text
		return m, m.fetch()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		if msg.String() == "y" || msg.String() == "Y" {
			return m, m.deleteTask(m.confirmID)
		}
		m.message = "Delete cancelled"
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)

	case key.Matches(msg, m.keys.Priority):
		m.cyclePriority()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.Tasks())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.MoveUp):
		return m, m.move(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m, m.move(1)

	case key.Matches(msg, m.keys.Start):
		return m, m.transition(service.ActionStart)

	case key.Matches(msg, m.keys.Complete):
		return m, m.transition(service.ActionComplete)

	case key.Matches(msg, m.keys.Abort):
		return m, m.transition(service.ActionAbort)

	case key.Matches(msg, m.keys.Restore):
		return m, m.transition(service.ActionRestore)

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if task.Status != service.StatusAborted {
			return m, m.transition(service.ActionAbort)
		}
		m.confirming = true
		m.confirmID = task.ID
		m.message = "Are you sure you want to permanently delete this task? (y/n)"

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.fetch()
	}
	return m, nil
}

func (m *Model) switchTab(delta int) {
	i := slices.Index(service.Statuses, m.filter.Status)
	n := len(service.Statuses)
	m.filter.Status = service.Statuses[((i+delta)%n+n)%n]
	m.cursor = 0
	m.message = ""
}

func (m *Model) cyclePriority() {
	order := append([]service.Priority{service.PriorityAll}, service.Priorities...)
	i := slices.Index(order, m.filter.Priority)
	m.filter.Priority = order[(i+1)%len(order)]
	m.cursor = 0
}

func (m *Model) selected() (service.Task, bool) {
	view := m.Tasks()
	if m.cursor < 0 || m.cursor >= len(view) {
		return service.Task{}, false
	}
	return view[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// move shifts the selected task by delta within the view. The new order is
// applied to the store before the request is sent and is not rolled back.
func (m *Model) move(delta int) tea.Cmd {
	view := m.Tasks()
	to := m.cursor + delta
	if m.cursor >= len(view) || to < 0 || to >= len(view) {
		return nil
	}
	task := view[m.cursor]
	_, order, err := reorder.Move(view, m.cursor, to, m.now())
	if err != nil {
		m.message = err.Error()
		return nil
	}
	m.store.SetOrder(task.ID, order)
	m.cursor = to

	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return orderMsg{id: task.ID, order: order, err: svc.SetOrder(ctx, task.ID, order)}
	}
}

func (m *Model) transition(action service.Action) tea.Cmd {
	task, ok := m.selected()
	if !ok {
		return nil
	}
	to, err := service.Transition(task.Status, action)
	if err != nil {
		m.message = err.Error()
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.SetStatus(ctx, task.ID, to); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: service.TransitionMessage(to)}
	}
}

func (m *Model) deleteTask(id int64) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.DeleteTask(ctx, id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{deleted: id, text: "Task permanently deleted"}
	}
}

func (m *Model) fetch() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		tasks, err := svc.ListTasks(ctx)
		return tasksMsg{tasks: tasks, err: err}
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	view := m.Tasks()
	switch {
	case m.loading && len(view) == 0:
		b.WriteString("  loading...\n")
	case len(view) == 0:
		b.WriteString("  no tasks found\n")
	default:
		var rows strings.Builder
		p := output.NewStyledPrinter(&rows, m.renderer)
		for i, task := range view {
			p.Task(i+1, task, false)
		}
		lines := strings.Split(strings.TrimRight(rows.String(), "\n"), "\n")
		selected := m.renderer.NewStyle().Reverse(true)
		for i, line := range lines {
			if i == m.cursor {
				b.WriteString("> " + selected.Render(line) + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	b.WriteString("\n")
	faint := m.renderer.NewStyle().Faint(true)
	b.WriteString(faint.Render(fmt.Sprintf("%d %s · priority: %s", len(view), m.filter.Status, m.filter.Priority)))
	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(m.message + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) tabs() string {
	active := m.renderer.NewStyle().Bold(true).Underline(true)
	inactive := m.renderer.NewStyle().Faint(true)

	parts := make([]string, len(service.Statuses))
	for i, s := range service.Statuses {
		label := string(s)
		if s == service.StatusAborted {
			label = "Recycle Bin"
		}
		if s == m.filter.Status {
			parts[i] = active.Render(label)
		} else {
			parts[i] = inactive.Render(label)
		}
	}
	return strings.Join(parts, "  ")
}

func errorText(err error) string {
	if errors.Is(err, service.ErrUnauthorized) {
		return "session expired (run: taskdeck login)"
	}
	return err.Error()
}
