// Package reorder computes fractional sort keys for moved tasks.
package reorder

import (
	"fmt"
	"time"

	"taskdeck/internal/service"
)

// Between returns an order value for a task placed between prev and next.
// A nil neighbor means the task lands at that end of the view. With no
// neighbors at all the current time in Unix milliseconds is used.
func Between(prev, next *float64, now time.Time) float64 {
	switch {
	case prev == nil && next == nil:
		return float64(now.UnixMilli())
	case prev == nil:
		return *next - 1.0
	case next == nil:
		return *prev + 1.0
	default:
		return (*prev + *next) / 2.0
	}
}

// Move splices view[from] to index to and returns the reordered view along
// with the order value computed from the moved task's new neighbors.
// The input slice is not modified and the returned task already carries
// the new order.
func Move(view []service.Task, from, to int, now time.Time) ([]service.Task, float64, error) {
	if from < 0 || from >= len(view) {
		return nil, 0, fmt.Errorf("position %d out of range (1-%d)", from+1, len(view))
	}
	if to < 0 || to >= len(view) {
		return nil, 0, fmt.Errorf("position %d out of range (1-%d)", to+1, len(view))
	}

	moved := view[from]
	out := make([]service.Task, 0, len(view))
	out = append(out, view[:from]...)
	out = append(out, view[from+1:]...)
	out = append(out[:to], append([]service.Task{moved}, out[to:]...)...)

	var prev, next *float64
	if to > 0 {
		prev = &out[to-1].Order
	}
	if to < len(out)-1 {
		next = &out[to+1].Order
	}
	order := Between(prev, next, now)
	out[to].Order = order
	return out, order, nil
}
