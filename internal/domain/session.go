package domain

import "time"

// SessionRecord is one persisted, resumable wizard snapshot. Payload is the
// encrypted draft; only the flow package knows how to interpret it once
// decrypted.
type SessionRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	StepIndex int       `json:"step_index"`
	Payload   []byte    `json:"payload"`
}

// SessionSummary is what a resume picker may show. It never includes the
// payload.
type SessionSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	StepIndex int       `json:"step_index"`
}

// Summary strips the payload from r.
func (r SessionRecord) Summary() SessionSummary {
	return SessionSummary{ID: r.ID, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt, StepIndex: r.StepIndex}
}

// ValidationResult is the outcome of validating one raw input.
type ValidationResult struct {
	Valid   bool
	Message string
}

// Valid is the accepting ValidationResult.
func Valid() ValidationResult { return ValidationResult{Valid: true} }

// Invalid rejects with msg.
func Invalid(msg string) ValidationResult { return ValidationResult{Message: msg} }
