// Package store keeps the client-side copy of the task list.
package store

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"time"

	"taskdeck/internal/service"
)

// Lister fetches the full task list.
type Lister interface {
	ListTasks(ctx context.Context) ([]service.Task, error)
}

// Filter selects the tasks shown in a view.
type Filter struct {
	Status   service.Status
	Priority service.Priority
}

// Match reports whether t passes the filter. StatusAll and PriorityAll
// (or the zero values) match everything.
func (f Filter) Match(t service.Task) bool {
	if f.Status != "" && f.Status != service.StatusAll && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && f.Priority != service.PriorityAll && t.Priority != f.Priority {
		return false
	}
	return true
}

// Store mirrors the server's task list. It is not safe for concurrent use.
type Store struct {
	src   Lister
	tasks []service.Task
}

// New returns an empty store backed by src.
func New(src Lister) *Store {
	return &Store{src: src}
}

// Refresh refetches every task and replaces the local list. On error the
// previous list is kept.
func (s *Store) Refresh(ctx context.Context) ([]service.Task, error) {
	tasks, err := s.src.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	s.Replace(tasks)
	return s.Tasks(), nil
}

// Replace swaps in a freshly fetched list, sorted by order. Tasks with
// equal order keep their server order.
func (s *Store) Replace(tasks []service.Task) {
	s.tasks = slices.Clone(tasks)
	sortByOrder(s.tasks)
}

// Tasks returns a copy of the list in order.
func (s *Store) Tasks() []service.Task {
	return slices.Clone(s.tasks)
}

// Len returns the number of tasks held.
func (s *Store) Len() int { return len(s.tasks) }

// View yields the tasks matching f in store order. The sequence reads the
// store each time it is ranged over.
func (s *Store) View(f Filter) iter.Seq[service.Task] {
	return func(yield func(service.Task) bool) {
		for _, t := range s.tasks {
			if !f.Match(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// ViewSlice collects View(f).
func (s *Store) ViewSlice(f Filter) []service.Task {
	return slices.Collect(s.View(f))
}

// Find returns the task with id.
func (s *Store) Find(id int64) (service.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return s.tasks[i], true
}

// Remove drops a task locally. It reports whether the task was present.
func (s *Store) Remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

// SetOrder changes a task's order locally and re-sorts. Nothing is sent
// to the server.
func (s *Store) SetOrder(id int64, order float64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Order = order
	sortByOrder(s.tasks)
	return true
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t service.Task) bool { return t.ID == id })
}

func sortByOrder(tasks []service.Task) {
	slices.SortStableFunc(tasks, func(a, b service.Task) int {
		return cmp.Compare(a.Order, b.Order)
	})
}

// DueSoon counts active tasks due today, tomorrow, or already overdue.
// Tasks without a valid due date are skipped.
func DueSoon(tasks iter.Seq[service.Task], now time.Time) int {
	y, m, d := now.Date()
	limit := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	n := 0
	for t := range tasks {
		if !t.Active() {
			continue
		}
		due, ok := t.Due()
		if ok && !due.After(limit) {
			n++
		}
	}
	return n
}
