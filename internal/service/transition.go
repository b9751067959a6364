package service

import "fmt"

// Action is a user-triggered status change.
type Action string

// Actions offered per status.
const (
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
	ActionAbort    Action = "abort"
	ActionRestore  Action = "restore"
)

var transitions = map[Status]map[Action]Status{
	StatusQueue: {
		ActionStart: StatusInProgress,
		ActionAbort: StatusAborted,
	},
	StatusInProgress: {
		ActionComplete: StatusCompleted,
		ActionAbort:    StatusAborted,
	},
	StatusAborted: {
		ActionRestore: StatusQueue,
	},
	StatusCompleted: {
		ActionAbort: StatusAborted,
	},
}

// Transition returns the status reached by applying action to from.
func Transition(from Status, action Action) (Status, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return "", fmt.Errorf("cannot %s a task in %s", action, from)
}

// TransitionMessage is the confirmation shown after a status change.
func TransitionMessage(to Status) string {
	if to == StatusAborted {
		return "Task moved to Recycle Bin"
	}
	return fmt.Sprintf("Task moved to %s", to)
}
