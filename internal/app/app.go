package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"incorporator/internal/domain"
	"incorporator/internal/flow"
)

// App runs wizard sessions for the CLI.
type App struct {
	wire   *Wire
	prompt flow.Prompter
}

// New returns an App over w rendering through p.
func New(w *Wire, p flow.Prompter) *App {
	return &App{wire: w, prompt: p}
}

// NewSessionID returns a fresh, filesystem-safe session id.
func NewSessionID() string { return uuid.NewString() }

// Start runs a new wizard session.
func (a *App) Start(ctx context.Context) (flow.Outcome, error) {
	id := NewSessionID()
	a.wire.Log.Info("starting session", "session_id", id)
	c := flow.New(a.wire.FlowConfig(id), a.wire.FlowDeps(a.prompt))
	return c.Run(ctx)
}

// Resume continues session id from its last checkpoint.
func (a *App) Resume(ctx context.Context, id string) (flow.Outcome, error) {
	rec, err := a.wire.Sessions.Load(id)
	if err != nil {
		return flow.Outcome{}, fmt.Errorf("loading session %q: %w", id, err)
	}
	c, err := flow.ResumeFrom(rec, a.wire.Sessions, a.wire.FlowConfig(id), a.wire.FlowDeps(a.prompt))
	if err != nil {
		return flow.Outcome{}, fmt.Errorf("resuming session %q: %w", id, err)
	}
	return c.Run(ctx)
}

// Sessions lists stored sessions, most recent first.
func (a *App) Sessions() ([]domain.SessionSummary, error) {
	return a.wire.Sessions.List()
}

// Delete removes session id.
func (a *App) Delete(id string) error {
	if err := a.wire.Sessions.Delete(id); err != nil {
		return fmt.Errorf("deleting session %q: %w", id, err)
	}
	return nil
}

// IsDecryptFailure reports whether err means a session could not be opened
// with the given passphrase.
func IsDecryptFailure(err error) bool {
	var de *domain.DecryptionAuthError
	return errors.As(err, &de)
}
