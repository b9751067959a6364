// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"taskdeck/internal/service"
)

// Printer writes styled task output to a single writer. Colors follow
// the writer's terminal capabilities and are dropped entirely for pipes,
// files, and when NoColor was requested.
type Printer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	now   func() time.Time
	plain bool
}

// NewPrinter returns a Printer for w.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return NewStyledPrinter(w, r)
}

// NewStyledPrinter returns a Printer for w that styles with r, for callers
// that render into a buffer but draw on a terminal.
func NewStyledPrinter(w io.Writer, r *lipgloss.Renderer) *Printer {
	return &Printer{
		w:     w,
		r:     r,
		now:   time.Now,
		plain: r.ColorProfile() == termenv.Ascii,
	}
}

// SetClock overrides the clock used for overdue highlighting (for testing).
func (p *Printer) SetClock(now func() time.Time) {
	p.now = now
}

// Plain reports whether output carries no escape sequences.
func (p *Printer) Plain() bool { return p.plain }

// Tasks renders every task in view, numbered from 1, and returns how many
// were written. The previous output is never diffed: each call writes the
// whole view. When status is StatusAll each line also names the task's status.
func (p *Printer) Tasks(view iter.Seq[service.Task], status service.Status) int {
	n := 0
	for task := range view {
		n++
		p.Task(n, task, status == service.StatusAll)
	}
	return n
}

// Task formats a task line.
// Format: "{N:>4}  {PRIORITY:<6}  {TITLE}[  due {DATE}][  [{STATUS}]]"
func (p *Printer) Task(num int, task service.Task, withStatus bool) {
	badge := p.priorityStyle(task.Priority).Render(fmt.Sprintf("%-6s", task.Priority))
	line := fmt.Sprintf("%4d  %s  %s", num, badge, normalizeTitle(task.Title))
	if task.DueDate != "" {
		line += "  " + p.due(task)
	}
	if withStatus {
		line += "  " + p.statusStyle(task.Status).Render("["+string(task.Status)+"]")
	}
	fmt.Fprintln(p.w, line)
}

// Count writes the "<n> <status>" footer below a view.
func (p *Printer) Count(n int, status service.Status) {
	label := string(status)
	if status == service.StatusAll || status == "" {
		label = "tasks"
	}
	fmt.Fprintln(p.w, p.r.NewStyle().Faint(true).Render(fmt.Sprintf("%d %s", n, label)))
}

// Detail writes every field of a task, with the description rendered as markdown.
func (p *Printer) Detail(task service.Task, width int) {
	title := p.r.NewStyle().Bold(true).Render(normalizeTitle(task.Title))
	fmt.Fprintf(p.w, "#%d  %s\n", task.ID, title)
	fmt.Fprintf(p.w, "Status:    %s\n", p.statusStyle(task.Status).Render(string(task.Status)))
	fmt.Fprintf(p.w, "Priority:  %s\n", p.priorityStyle(task.Priority).Render(string(task.Priority)))
	if task.DueDate != "" {
		fmt.Fprintf(p.w, "Due:       %s\n", p.due(task))
	}
	if task.CompletedAt != "" {
		fmt.Fprintf(p.w, "Completed: %s\n", task.CompletedAt)
	}
	if task.CreatedAt != "" {
		fmt.Fprintf(p.w, "Created:   %s\n", task.CreatedAt)
	}
	if task.UpdatedAt != "" {
		fmt.Fprintf(p.w, "Updated:   %s\n", task.UpdatedAt)
	}
	fmt.Fprintln(p.w)
	if strings.TrimSpace(task.Description) == "" {
		fmt.Fprintln(p.w, p.r.NewStyle().Faint(true).Render("No description"))
		return
	}
	fmt.Fprintln(p.w, p.Markdown(task.Description, width))
}

// Profile writes the user's profile.
func (p *Printer) Profile(prof service.Profile) {
	fmt.Fprintln(p.w, p.r.NewStyle().Bold(true).Render(prof.DisplayName()))
	fields := []struct{ label, value string }{
		{"Username", prof.Username},
		{"Email", prof.Email},
		{"Full name", prof.FullName},
		{"Location", prof.Location},
		{"Bio", prof.Bio},
		{"Avatar", prof.Avatar()},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(p.w, "%-10s %s\n", f.label+":", f.value)
	}
}

func (p *Printer) due(task service.Task) string {
	text := "due " + task.DueDate
	d, ok := task.Due()
	if !ok || !task.Active() {
		return text
	}
	y, m, day := p.now().Date()
	if d.Before(time.Date(y, m, day, 0, 0, 0, 0, d.Location())) {
		return p.r.NewStyle().Foreground(lipgloss.Color("9")).Render(text)
	}
	return text
}

func (p *Printer) priorityStyle(pr service.Priority) lipgloss.Style {
	st := p.r.NewStyle()
	switch pr {
	case service.PriorityHigh:
		return st.Foreground(lipgloss.Color("1")).Bold(true)
	case service.PriorityMedium:
		return st.Foreground(lipgloss.Color("3"))
	case service.PriorityLow:
		return st.Foreground(lipgloss.Color("2"))
	}
	return st
}

func (p *Printer) statusStyle(s service.Status) lipgloss.Style {
	st := p.r.NewStyle()
	switch s {
	case service.StatusCompleted:
		return st.Foreground(lipgloss.Color("2"))
	case service.StatusAborted:
		return st.Foreground(lipgloss.Color("1"))
	case service.StatusInProgress:
		return st.Foreground(lipgloss.Color("214"))
	}
	return st.Foreground(lipgloss.Color("8"))
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
