package domain

import "time"

// TaskHandle identifies one submission of the name-availability check.
type TaskHandle string

// TaskStatus is the observable state of a name-check task.
type TaskStatus string

const (
	TaskPending     TaskStatus = "pending"
	TaskAvailable   TaskStatus = "available"
	TaskUnavailable TaskStatus = "unavailable"
	TaskFailed      TaskStatus = "failed"
	// TaskSuperseded is reported for handles replaced by a newer submission
	// or cancelled. Their results are never observable.
	TaskSuperseded TaskStatus = "superseded"
)

// Resolved reports whether the status carries a final availability answer.
func (s TaskStatus) Resolved() bool { return s == TaskAvailable || s == TaskUnavailable }

// Terminal reports whether the task will not change status again.
func (s TaskStatus) Terminal() bool { return s != TaskPending }

// NameCheckResult is the remote answer to an availability request.
type NameCheckResult struct {
	Available   bool     `json:"available"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// NameCheckTask is a snapshot of one background availability check.
type NameCheckTask struct {
	ID             TaskHandle      `json:"id"`
	SubmittedName  string          `json:"submitted_name"`
	SubmittedState Jurisdiction    `json:"submitted_state"`
	Status         TaskStatus      `json:"status"`
	Result         NameCheckResult `json:"result"`
	// Err is set when Status is TaskFailed.
	Err       error     `json:"-"`
	StartedAt time.Time `json:"started_at"`
}

// Matches reports whether the task was submitted for name in state j.
func (t NameCheckTask) Matches(name string, j Jurisdiction) bool {
	return t.SubmittedName == name && t.SubmittedState == j
}
