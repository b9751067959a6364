package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/service"
)

// Timestamps the FakeAPI stamps on created and modified tasks.
const (
	fakeCreatedAt = "2025-01-01T00:00:00Z"
	fakeUpdatedAt = "2025-01-02T00:00:00Z"
)

// FakeAPI is an httptest server speaking the todo REST API.
// Tokens are "token-<username>". Tasks are returned in insertion order,
// not sorted by order, so clients must sort themselves.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    map[string]fakeUser
	tasks    []service.Task
	nextID   int64
	requests []string
	failWith int
}

type fakeUser struct {
	password string
	profile  service.Profile
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &FakeAPI{
		users:  make(map[string]fakeUser),
		nextID: 1,
	}

	r := gin.New()
	r.Use(api.record)

	auth := r.Group("/api/auth")
	auth.POST("/login", api.login)
	auth.POST("/register", api.register)

	tasks := r.Group("/api/tasks", api.requireToken)
	tasks.GET("/", api.listTasks)
	tasks.POST("/", api.createTask)
	tasks.GET("/profile", api.getProfile)
	tasks.PUT("/profile", api.putProfile)
	tasks.GET("/:id", api.getTask)
	tasks.PUT("/:id", api.putTask)
	tasks.PATCH("/:id", api.patchTask)
	tasks.DELETE("/:id", api.deleteTask)

	api.Server = httptest.NewServer(r)
	t.Cleanup(api.Server.Close)
	return api
}

// URL returns the API base URL including the /api prefix.
func (a *FakeAPI) URL() string {
	return a.Server.URL + "/api"
}

// AddUser registers a user directly.
func (a *FakeAPI) AddUser(username, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[username] = fakeUser{
		password: password,
		profile:  service.Profile{Username: username, Email: username + "@example.com"},
	}
}

// FailTasks makes every /tasks call fail with status. Zero restores normal behavior.
func (a *FakeAPI) FailTasks(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failWith = status
}

// Token returns the token the API issues for username.
func (a *FakeAPI) Token(username string) string {
	return "token-" + username
}

// AddTask stores a task as-is and returns its ID.
func (a *FakeAPI) AddTask(task service.Task) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	task.ID = a.nextID
	a.nextID++
	a.tasks = append(a.tasks, task)
	return task.ID
}

// Tasks returns a copy of the stored tasks in insertion order.
func (a *FakeAPI) Tasks() []service.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]service.Task, len(a.tasks))
	copy(out, a.tasks)
	return out
}

// Requests returns "METHOD path auth" lines for every request received,
// where auth is the Authorization header value.
func (a *FakeAPI) Requests() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.requests))
	copy(out, a.requests)
	return out
}

func (a *FakeAPI) record(c *gin.Context) {
	a.mu.Lock()
	a.requests = append(a.requests, strings.TrimSpace(fmt.Sprintf("%s %s %s", c.Request.Method, c.Request.URL.Path, c.GetHeader("Authorization"))))
	a.mu.Unlock()
	c.Next()
}

func (a *FakeAPI) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	username := strings.TrimPrefix(token, "token-")
	a.mu.Lock()
	_, known := a.users[username]
	fail := a.failWith
	a.mu.Unlock()
	if !known {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired"})
		return
	}
	if fail != 0 {
		c.AbortWithStatusJSON(fail, gin.H{"detail": http.StatusText(fail)})
		return
	}
	c.Set("username", username)
	c.Next()
}

func (a *FakeAPI) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	a.mu.Lock()
	u, ok := a.users[username]
	a.mu.Unlock()
	if !ok || u.password != password {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": a.Token(username), "refresh": "refresh-" + username})
}

func (a *FakeAPI) register(c *gin.Context) {
	var req service.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"loc": []string{"body"}, "msg": "field required"}}})
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.users[req.Username]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Registration failed: username already exists"})
		return
	}
	a.users[req.Username] = fakeUser{
		password: req.Password,
		profile:  service.Profile{Username: req.Username, Email: req.Email},
	}
	c.JSON(http.StatusCreated, gin.H{"username": req.Username, "email": req.Email})
}

func (a *FakeAPI) listTasks(c *gin.Context) {
	c.JSON(http.StatusOK, a.Tasks())
}

func (a *FakeAPI) createTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "title is required"})
		return
	}

	a.mu.Lock()
	task := service.Task{
		ID:          a.nextID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Status:      service.StatusQueue,
		Order:       float64(a.nextID),
		CreatedAt:   fakeCreatedAt,
		UpdatedAt:   fakeCreatedAt,
	}
	a.nextID++
	a.tasks = append(a.tasks, task)
	a.mu.Unlock()

	c.JSON(http.StatusCreated, task)
}

func (a *FakeAPI) getTask(c *gin.Context) {
	a.withTask(c, func(t *service.Task) {
		c.JSON(http.StatusOK, t)
	})
}

func (a *FakeAPI) putTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	a.withTask(c, func(t *service.Task) {
		t.Title = in.Title
		t.Description = in.Description
		t.Priority = in.Priority
		t.DueDate = in.DueDate
		t.UpdatedAt = fakeUpdatedAt
		c.JSON(http.StatusOK, t)
	})
}

func (a *FakeAPI) patchTask(c *gin.Context) {
	var patch struct {
		Status *service.Status `json:"status"`
		Order  *float64        `json:"order"`
	}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	a.withTask(c, func(t *service.Task) {
		if patch.Status != nil {
			t.Status = *patch.Status
			if t.Status == service.StatusCompleted {
				t.CompletedAt = "2025-01-01T00:00:00Z"
			} else {
				t.CompletedAt = ""
			}
		}
		if patch.Order != nil {
			t.Order = *patch.Order
		}
		t.UpdatedAt = fakeUpdatedAt
		c.JSON(http.StatusOK, t)
	})
}

func (a *FakeAPI) deleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, t := range a.tasks {
		if t.ID == id {
			a.tasks = append(a.tasks[:i], a.tasks[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
}

func (a *FakeAPI) getProfile(c *gin.Context) {
	a.mu.Lock()
	u := a.users[c.GetString("username")]
	a.mu.Unlock()
	c.JSON(http.StatusOK, u.profile)
}

func (a *FakeAPI) putProfile(c *gin.Context) {
	var in service.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	username := c.GetString("username")

	a.mu.Lock()
	u := a.users[username]
	u.profile.FullName = in.FullName
	u.profile.Bio = in.Bio
	u.profile.Location = in.Location
	u.profile.AvatarURL = in.AvatarURL
	a.users[username] = u
	a.mu.Unlock()

	c.JSON(http.StatusOK, u.profile)
}

// withTask runs fn on the task named by the :id param while holding the lock.
func (a *FakeAPI) withTask(c *gin.Context, fn func(t *service.Task)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.tasks {
		if a.tasks[i].ID == id {
			fn(&a.tasks[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found"})
}
