// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"taskdeck/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// New tasks get Order equal to their ID and start in Queue.
type FakeService struct {
	mu       sync.RWMutex
	tasks    []service.Task
	nextID   int64
	users    map[string]string
	token    string
	expiry   time.Time
	greeted  bool
	profile  service.Profile
	orders   []float64
	statuses []service.Status

	// Error injection for testing
	LoginErr         error
	RegisterErr      error
	ListTasksErr     error
	CreateTaskErr    error
	UpdateTaskErr    error
	SetStatusErr     error
	SetOrderErr      error
	DeleteTaskErr    error
	ProfileErr       error
	UpdateProfileErr error
}

// NewFakeService creates a logged-in FakeService with no tasks.
// The welcome message counts as already shown.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:  1,
		users:   make(map[string]string),
		token:   "fake-token",
		greeted: true,
		profile: service.Profile{Username: "tester", Email: "tester@example.com"},
	}
}

// AddTask stores a task with the next ID and returns that ID.
// Empty Status and Priority default to Queue and Medium, zero Order to the ID.
func (f *FakeService) AddTask(task service.Task) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ID = f.nextID
	f.nextID++
	if task.Status == "" {
		task.Status = service.StatusQueue
	}
	if task.Priority == "" {
		task.Priority = service.PriorityMedium
	}
	if task.Order == 0 {
		task.Order = float64(task.ID)
	}
	f.tasks = append(f.tasks, task)
	return task.ID
}

// Task returns the stored task with id.
func (f *FakeService) Task(id int64) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i := f.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return f.tasks[i], true
}

// TaskCount returns the number of stored tasks.
func (f *FakeService) TaskCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tasks)
}

// AddUser makes a username/password pair valid for Login.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// SetToken sets the stored token. An empty token means logged out.
func (f *FakeService) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

// Token returns the stored token.
func (f *FakeService) Token() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token
}

// SetExpiry sets the value reported by TokenExpiry. Zero means unknown.
func (f *FakeService) SetExpiry(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expiry = t
}

// ResetGreeting makes the next authenticated command greet again.
func (f *FakeService) ResetGreeting() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.greeted = false
}

// SetProfile replaces the stored profile.
func (f *FakeService) SetProfile(p service.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = p
}

// OrderCalls returns every order sent through SetOrder.
func (f *FakeService) OrderCalls() []float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.orders)
}

// StatusCalls returns every status sent through SetStatus.
func (f *FakeService) StatusCalls() []service.Status {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.statuses)
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) error {
	if f.LoginErr != nil {
		return f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[creds.Username]; !ok || pw != creds.Password {
		return &service.AuthError{Detail: "Incorrect username or password"}
	}
	f.token = "token-" + creds.Username
	f.profile.Username = creds.Username
	return nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) error {
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[reg.Username]; ok {
		return &service.APIError{Status: 400, Detail: "Registration failed: username already exists"}
	}
	f.users[reg.Username] = reg.Password
	return nil
}

// Logout implements service.Service.
func (f *FakeService) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.greeted = false
	return nil
}

// LoggedIn implements service.Service.
func (f *FakeService) LoggedIn() bool {
	return f.Token() != ""
}

// TokenExpiry implements service.Service.
func (f *FakeService) TokenExpiry() (time.Time, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.token == "" || f.expiry.IsZero() {
		return time.Time{}, false
	}
	return f.expiry, true
}

// Greeted implements service.Service.
func (f *FakeService) Greeted() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.greeted
}

// MarkGreeted implements service.Service.
func (f *FakeService) MarkGreeted() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.greeted = true
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks), nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int64) (service.Task, error) {
	task, ok := f.Task(id)
	if !ok {
		return service.Task{}, &service.APIError{Status: 404, Detail: "Task not found"}
	}
	return task, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	if strings.TrimSpace(in.Title) == "" {
		return service.Task{}, &service.APIError{Status: 400, Detail: "title is required"}
	}
	id := f.AddTask(service.Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	})
	task, _ := f.Task(id)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, in service.TaskInput) (service.Task, error) {
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	var out service.Task
	err := f.withTask(id, func(t *service.Task) {
		t.Title = in.Title
		t.Description = in.Description
		t.Priority = in.Priority
		t.DueDate = in.DueDate
		out = *t
	})
	return out, err
}

// SetStatus implements service.Service.
func (f *FakeService) SetStatus(ctx context.Context, id int64, status service.Status) error {
	if f.SetStatusErr != nil {
		return f.SetStatusErr
	}
	return f.withTask(id, func(t *service.Task) {
		t.Status = status
		f.statuses = append(f.statuses, status)
	})
}

// SetOrder implements service.Service.
func (f *FakeService) SetOrder(ctx context.Context, id int64, order float64) error {
	f.mu.Lock()
	f.orders = append(f.orders, order)
	f.mu.Unlock()
	if f.SetOrderErr != nil {
		return f.SetOrderErr
	}
	return f.withTask(id, func(t *service.Task) {
		t.Order = order
	})
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return &service.APIError{Status: 404, Detail: "Task not found"}
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.Profile, error) {
	if f.ProfileErr != nil {
		return service.Profile{}, f.ProfileErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile, nil
}

// UpdateProfile implements service.Service.
func (f *FakeService) UpdateProfile(ctx context.Context, in service.ProfileInput) (service.Profile, error) {
	if f.UpdateProfileErr != nil {
		return service.Profile{}, f.UpdateProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile.FullName = in.FullName
	f.profile.Bio = in.Bio
	f.profile.Location = in.Location
	f.profile.AvatarURL = in.AvatarURL
	return f.profile, nil
}

func (f *FakeService) withTask(id int64, fn func(t *service.Task)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return &service.APIError{Status: 404, Detail: "Task not found"}
	}
	fn(&f.tasks[i])
	return nil
}

func (f *FakeService) index(id int64) int {
	return slices.IndexFunc(f.tasks, func(t service.Task) bool { return t.ID == id })
}

var _ service.Service = (*FakeService)(nil)
