// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"time"
)

// Service defines the interface for todo backend operations.
// Commands and the board never talk HTTP directly.
type Service interface {
	// Login exchanges credentials for a bearer token and stores it.
	// On failure the previous token is kept and an *AuthError is returned.
	Login(ctx context.Context, creds Credentials) error

	// Register creates an account. It does not log in.
	Register(ctx context.Context, reg Registration) error

	// Logout forgets the token and clears session-scoped state.
	Logout() error

	// LoggedIn reports whether a token is stored.
	LoggedIn() bool

	// TokenExpiry returns the token's expiry when it can be decoded.
	TokenExpiry() (time.Time, bool)

	// Greeted reports whether the welcome message was shown this session.
	Greeted() bool

	// MarkGreeted records that the welcome message was shown.
	MarkGreeted() error

	// ListTasks returns every task in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns a single task.
	GetTask(ctx context.Context, id int64) (Task, error)

	// CreateTask creates a task and returns the server's copy.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces a task's editable fields.
	UpdateTask(ctx context.Context, id int64, in TaskInput) (Task, error)

	// SetStatus moves a task to another status.
	SetStatus(ctx context.Context, id int64, status Status) error

	// SetOrder stores a new sort key for a task.
	SetOrder(ctx context.Context, id int64, order float64) error

	// DeleteTask permanently deletes a task.
	DeleteTask(ctx context.Context, id int64) error

	// Profile returns the signed-in user's profile.
	Profile(ctx context.Context) (Profile, error)

	// UpdateProfile replaces the editable profile fields.
	UpdateProfile(ctx context.Context, in ProfileInput) (Profile, error)
}
