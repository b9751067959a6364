package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num  int   // 1-based position in the view, 0 when ByID
	ID   int64 // server ID, set when ByID
	ByID bool  // true for "#<id>" references
}

func (r TaskRef) String() string {
	if r.ByID {
		return fmt.Sprintf("#%d", r.ID)
	}
	return strconv.Itoa(r.Num)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the first arg.
//
// Parsing rules:
// 1. All digits (e.g. 3) → position in the current view
// 2. '#' followed by digits (e.g. #42) → task ID
// 3. Missing or empty → ErrTaskRefRequired
// 4. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := strings.TrimSpace(args[0])

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if rest, ok := strings.CutPrefix(arg, "#"); ok && isAllDigits(rest) {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id, ByID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
