// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Status is the workflow state of a task.
type Status string

// Task statuses as sent by the API.
const (
	StatusQueue      Status = "Queue"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusAborted    Status = "Aborted"

	// StatusAll is a filter value, never sent to the API.
	StatusAll Status = "All"
)

// Statuses lists the real statuses in tab order.
var Statuses = []Status{StatusQueue, StatusInProgress, StatusCompleted, StatusAborted}

// ParseStatus parses a status name case-insensitively.
// Accepts "in-progress", "inprogress" and "progress" for In Progress.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "queue", "queued", "todo":
		return StatusQueue, nil
	case "inprogress", "progress", "started":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	case "aborted", "abort", "bin", "trash":
		return StatusAborted, nil
	case "all", "":
		return StatusAll, nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// UnmarshalJSON normalizes known statuses and keeps unknown ones verbatim.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseStatus(raw); err == nil && parsed != StatusAll {
		*s = parsed
		return nil
	}
	*s = Status(raw)
	return nil
}

// Priority is a task's priority.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"

	// PriorityAll is a filter value, never sent to the API.
	PriorityAll Priority = "All"
)

// Priorities lists the real priorities, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	case "all", "":
		return PriorityAll, nil
	}
	return "", fmt.Errorf("invalid priority: %s", s)
}

// UnmarshalJSON accepts the lowercase spellings older servers emit.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParsePriority(raw); err == nil && parsed != PriorityAll {
		*p = parsed
		return nil
	}
	*p = Priority(raw)
	return nil
}

// Task represents a single task item as owned by the server.
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"due_date"`
	Status      Status   `json:"status"`
	Order       float64  `json:"order"`
	CompletedAt string   `json:"completed_at,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// UnmarshalJSON derives Status from is_completed when the server predates
// the status field.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var wire struct {
		plain
		Description *string `json:"description"`
		IsCompleted *bool   `json:"is_completed"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = Task(wire.plain)
	if wire.Description != nil {
		t.Description = *wire.Description
	}
	if t.Status == "" {
		t.Status = StatusQueue
		if wire.IsCompleted != nil && *wire.IsCompleted {
			t.Status = StatusCompleted
		}
	}
	return nil
}

// Due parses the due date. ok is false when it is missing or malformed.
func (t Task) Due() (due time.Time, ok bool) {
	d, err := time.ParseInLocation(time.DateOnly, t.DueDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Active reports whether the task is still being worked on.
func (t Task) Active() bool {
	return t.Status == StatusQueue || t.Status == StatusInProgress
}

// TaskInput is the body for creating or fully replacing a task.
type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     string   `json:"due_date"`
}

// InputFrom copies the editable fields of t.
func InputFrom(t Task) TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
	}
}

// Credentials are the login form fields.
type Credentials struct {
	Username string
	Password string
}

// Registration is the sign-up payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the signed-in user's profile.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
}

// DisplayName prefers the full name over the username.
func (p Profile) DisplayName() string {
	if strings.TrimSpace(p.FullName) != "" {
		return p.FullName
	}
	return p.Username
}

// Avatar returns the avatar URL, or a generated one when unset.
func (p Profile) Avatar() string {
	if p.AvatarURL != "" {
		return p.AvatarURL
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(p.Username) + "&background=random&color=fff"
}

// ProfileInput is the body for updating a profile.
type ProfileInput struct {
	FullName  string `json:"full_name"`
	Bio       string `json:"bio"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
}
