package flow

import (
	"context"
	"time"

	"incorporator/internal/domain"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Question describes one prompt.
type Question struct {
	// Key identifies the prompt, e.g. "agent.name" or "party.1.percent".
	Key   string
	Label string
	Help  string
	// Default is offered as a prefill; Input returns it when the user enters
	// nothing.
	Default string
	Secret  bool
}

// ReviewKind is the user's choice on the review screen.
type ReviewKind int

const (
	ReviewConfirm ReviewKind = iota
	ReviewEdit
	// ReviewRefresh redraws the review, e.g. to show a name check that has
	// since resolved.
	ReviewRefresh
	ReviewQuit
)

// ReviewAction is returned by Prompter.Review.
type ReviewAction struct {
	Kind  ReviewKind
	Field domain.Field
}

// NameCheckView is what the review screen shows about the name check.
type NameCheckView struct {
	Name        string
	State       domain.Jurisdiction
	Status      domain.TaskStatus
	Suggestions []string
	Error       string
	Elapsed     time.Duration
}

// Prompter renders prompts and returns the user's answers. Implementations
// return domain.ErrCancelled when the user quits.
type Prompter interface {
	Select(ctx context.Context, q Question, options []string, def int) (int, error)
	Input(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, label string, def bool) (bool, error)
	Review(ctx context.Context, s Summary, check NameCheckView) (ReviewAction, error)
	Notify(level Level, msg string)
}

// Saver checkpoints the wizard. services/session.Service satisfies it.
type Saver interface {
	Save(id string, payload []byte, stepIndex int) error
	Delete(id string) error
}

// Opener decrypts a stored session payload.
type Opener interface {
	Open(rec domain.SessionRecord) ([]byte, error)
}
