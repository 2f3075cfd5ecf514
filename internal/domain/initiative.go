package domain

import (
	"fmt"
	"time"
)

// Initiative is a workstream under a key result.
type Initiative struct {
	ID          string
	KeyResultID string
	Title       string
	Description string
	Status      InitiativeStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Transition moves the initiative to next. Cancelled initiatives are final;
// done initiatives may only be reopened to in_progress.
func (i *Initiative) Transition(next InitiativeStatus, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("unknown initiative status %q", next)
	}
	if i.Status == next {
		return nil
	}
	switch i.Status {
	case InitiativeCancelled:
		return fmt.Errorf("cannot change status of cancelled initiative")
	case InitiativeDone:
		if next != InitiativeInProgress {
			return fmt.Errorf("done initiative can only be reopened to %s", InitiativeInProgress)
		}
	}
	i.Status = next
	i.UpdatedAt = now
	return nil
}

// Task is a unit of work under an initiative.
type Task struct {
	ID           string
	InitiativeID string
	Title        string
	Done         bool
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Complete marks the task done. Completing an already-done task keeps the
// original completion time.
func (t *Task) Complete(now time.Time) {
	if t.Done {
		return
	}
	t.Done = true
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Reopen clears completion. Returns an error if the task is not done.
func (t *Task) Reopen(now time.Time) error {
	if !t.Done {
		return fmt.Errorf("task %q is not done", t.Title)
	}
	t.Done = false
	t.CompletedAt = nil
	t.UpdatedAt = now
	return nil
}
