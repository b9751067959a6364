package commands

import (
	"time"

	"taskdeck/internal/service"
)

// optionalString is a string flag that remembers whether it was given,
// so an explicit empty value can clear a field.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// taskPriority parses a priority for a task. "All" is only a filter.
func taskPriority(s string) (service.Priority, error) {
	p, err := service.ParsePriority(s)
	if err != nil {
		return "", userErrorf("%v", err)
	}
	if p == service.PriorityAll {
		return "", userErrorf("invalid priority: %s", s)
	}
	return p, nil
}

// dueDate validates a YYYY-MM-DD date. Empty means no due date.
func dueDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", userErrorf("invalid due date: %s (want YYYY-MM-DD)", s)
	}
	return s, nil
}
