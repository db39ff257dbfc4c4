package domain

import "context"

// NameChecker asks the remote service whether a name is available.
type NameChecker interface {
	CheckNameAvailability(ctx context.Context, name string, state Jurisdiction) (NameCheckResult, error)
}

// SessionStore persists session records verbatim. Implementations must
// replace records atomically.
type SessionStore interface {
	SaveSession(rec SessionRecord) error
	LoadSession(id string) (SessionRecord, error)
	ListSessions() ([]SessionSummary, error)
	DeleteSession(id string) error
}

// NameCheckCoordinator runs at most one current name check in the
// background.
type NameCheckCoordinator interface {
	Submit(name string, state Jurisdiction) TaskHandle
	Status(h TaskHandle) NameCheckTask
	Done(h TaskHandle) <-chan struct{}
	Cancel(h TaskHandle)
}

// SessionService is the SessionManager contract used by the wizard.
type SessionService interface {
	Save(id string, payload []byte, stepIndex int) error
	Load(id string) (SessionRecord, error)
	Open(rec SessionRecord) ([]byte, error)
	List() ([]SessionSummary, error)
	Delete(id string) error
}
