package commands

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func TestParseTaskRef_Position(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ByID {
		t.Error("expected ByID to be false")
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
	if ref.String() != "5" {
		t.Errorf("expected String 5, got %q", ref.String())
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"#42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.ByID {
		t.Error("expected ByID to be true")
	}
	if ref.ID != 42 {
		t.Errorf("expected ID 42, got %d", ref.ID)
	}
	if ref.String() != "#42" {
		t.Errorf("expected String #42, got %q", ref.String())
	}
}

func TestParseTaskRef_TrimsSpace(t *testing.T) {
	ref, err := ParseTaskRef([]string{" 3 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 3 {
		t.Errorf("expected Num 3, got %d", ref.Num)
	}
}

func TestParseTaskRef_Required(t *testing.T) {
	for _, args := range [][]string{nil, {""}, {"  "}} {
		_, err := ParseTaskRef(args)
		if !errors.Is(err, ErrTaskRefRequired) {
			t.Errorf("ParseTaskRef(%q): expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestParseTaskRef_Invalid(t *testing.T) {
	tests := []string{"a", "#", "#x1", "1a", "-1", "٣", "99999999999999999999"}
	for _, arg := range tests {
		_, err := ParseTaskRef([]string{arg})
		if err == nil {
			t.Errorf("ParseTaskRef(%q): expected error", arg)
			continue
		}
		want := "invalid task reference: " + arg
		if err.Error() != want {
			t.Errorf("ParseTaskRef(%q): expected %q, got %q", arg, want, err.Error())
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", true},
		{"123", true},
		{"12a", false},
		{"١٢", false},
	}
	for _, tt := range tests {
		if got := isAllDigits(tt.in); got != tt.want {
			t.Errorf("isAllDigits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		code int
	}{
		{"user", userErrorf("bad %s", "thing"), "error: bad thing\n", exitcode.UserError},
		{"unauthorized", fmt.Errorf("list: %w", &service.APIError{Status: 401}), "error: session expired (run: taskdeck login)\n", exitcode.AuthError},
		{"login", &service.AuthError{Detail: "Incorrect username or password"}, "error: Incorrect username or password\n", exitcode.AuthError},
		{"not found", &service.APIError{Status: 404, Detail: "Task not found"}, "error: Task not found\n", exitcode.UserError},
		{"server", &service.APIError{Status: 500}, "error: backend error: Internal Server Error\n", exitcode.BackendError},
		{"transport", errors.New("request timed out"), "error: backend error: request timed out\n", exitcode.BackendError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := reportError(&buf, tt.err)
			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestViewFlagsFilter(t *testing.T) {
	tests := []struct {
		name     string
		flags    viewFlags
		cfg      config.Config
		fallback service.Status
		want     service.Status
		priority service.Priority
	}{
		{"built-in default", viewFlags{}, config.Config{}, "", service.StatusQueue, service.PriorityAll},
		{"configured default", viewFlags{}, config.Config{DefaultStatus: "completed", DefaultPriority: "high"}, "", service.StatusCompleted, service.PriorityHigh},
		{"flag wins", viewFlags{status: "all", priority: "low"}, config.Config{DefaultStatus: "completed"}, "", service.StatusAll, service.PriorityLow},
		{"fallback beats config", viewFlags{}, config.Config{DefaultStatus: "completed"}, service.StatusInProgress, service.StatusInProgress, service.PriorityAll},
		{"flag beats fallback", viewFlags{status: "bin"}, config.Config{}, service.StatusQueue, service.StatusAborted, service.PriorityAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.flags.filter(&tt.cfg, tt.fallback)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Status != tt.want {
				t.Errorf("expected status %s, got %s", tt.want, f.Status)
			}
			if f.Priority != tt.priority {
				t.Errorf("expected priority %s, got %s", tt.priority, f.Priority)
			}
		})
	}
}

func TestViewFlagsFilter_Invalid(t *testing.T) {
	v := viewFlags{status: "someday"}
	_, err := v.filter(&config.Config{}, "")
	var uerr *userError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected userError, got %v", err)
	}
	if err.Error() != "invalid status: someday" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDueDate(t *testing.T) {
	if got, err := dueDate("2025-03-01"); err != nil || got != "2025-03-01" {
		t.Errorf("expected valid date, got %q, %v", got, err)
	}
	if got, err := dueDate(""); err != nil || got != "" {
		t.Errorf("expected empty date allowed, got %q, %v", got, err)
	}
	_, err := dueDate("03/01/2025")
	if err == nil || err.Error() != "invalid due date: 03/01/2025 (want YYYY-MM-DD)" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestTaskPriority_RejectsAll(t *testing.T) {
	if _, err := taskPriority("all"); err == nil {
		t.Error("expected All to be rejected for a task")
	}
	if p, err := taskPriority("h"); err != nil || p != service.PriorityHigh {
		t.Errorf("expected High, got %s, %v", p, err)
	}
}
