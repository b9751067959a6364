// Package todoapi implements the service.Service interface against the todo REST API.
package todoapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/kvstore"
	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// Client implements service.Service on top of a session.Manager.
type Client struct {
	session *session.Manager
}

// New creates a client from config. The persistent store lives in the
// config dir and the session store in the runtime dir.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	persistent := kvstore.NewFileStore(cfg.StatePath())
	sess := kvstore.NewFileStore(cfg.SessionPath())

	m := session.New(persistent, sess, session.Options{
		BaseURL:              cfg.APIURL,
		Timeout:              cfg.Timeout,
		LogoutOnUnauthorized: cfg.OnUnauthorized != config.UnauthorizedIgnore,
		Logger:               cfg.Logger,
	})
	return &Client{session: m}, nil
}

// NewWithSession creates a client around an existing session manager (for testing).
func NewWithSession(m *session.Manager) *Client {
	return &Client{session: m}
}

// Bootstrap applies the startup token, if one was provided.
func (c *Client) Bootstrap(token string, ok bool) error {
	if !ok {
		return nil
	}
	return c.session.Bootstrap(token)
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) error {
	_, err := c.session.Login(ctx, creds)
	return err
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, reg service.Registration) error {
	return c.session.Register(ctx, reg)
}

// Logout implements service.Service.
func (c *Client) Logout() error {
	return c.session.Logout()
}

func (c *Client) LoggedIn() bool                 { return c.session.LoggedIn() }
func (c *Client) Greeted() bool                  { return c.session.Greeted() }
func (c *Client) MarkGreeted() error             { return c.session.MarkGreeted() }
func (c *Client) TokenExpiry() (time.Time, bool) { return c.session.TokenExpiry() }

// ListTasks returns all tasks in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.session.Do(ctx, http.MethodGet, "/tasks/", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id int64) (service.Task, error) {
	var task service.Task
	if err := c.session.Do(ctx, http.MethodGet, taskPath(id), nil, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CreateTask creates a task.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.session.Do(ctx, http.MethodPost, "/tasks/", in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask replaces a task's editable fields.
func (c *Client) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	var task service.Task
	if err := c.session.Do(ctx, http.MethodPut, taskPath(id), in, &task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// SetStatus moves a task to another status.
func (c *Client) SetStatus(ctx context.Context, id int64, status service.Status) error {
	return c.session.Do(ctx, http.MethodPatch, taskPath(id), map[string]service.Status{"status": status}, nil)
}

// SetOrder stores a new sort key.
func (c *Client) SetOrder(ctx context.Context, id int64, order float64) error {
	return c.session.Do(ctx, http.MethodPatch, taskPath(id), map[string]float64{"order": order}, nil)
}

// DeleteTask permanently deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.session.Do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (service.Profile, error) {
	var p service.Profile
	if err := c.session.Do(ctx, http.MethodGet, "/tasks/profile", nil, &p); err != nil {
		return service.Profile{}, err
	}
	return p, nil
}

// UpdateProfile replaces the editable profile fields.
func (c *Client) UpdateProfile(ctx context.Context, in service.ProfileInput) (service.Profile, error) {
	var p service.Profile
	if err := c.session.Do(ctx, http.MethodPut, "/tasks/profile", in, &p); err != nil {
		return service.Profile{}, err
	}
	return p, nil
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d", id)
}
