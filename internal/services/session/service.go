package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"incorporator/internal/crypto"
	"incorporator/internal/domain"
	"incorporator/internal/util/memzero"
)

// Encrypter is the EncryptedStore contract the manager needs.
type Encrypter interface {
	Encrypt(plaintext, passphrase []byte) ([]byte, error)
	Decrypt(blob, passphrase []byte) ([]byte, error)
}

// Service persists wizard snapshots encrypted under one passphrase.
//
// The service treats payloads as opaque bytes. It owns session records:
//   - Save encrypts the payload and atomically replaces the record, keeping
//     the original creation time.
//   - Load returns the record as stored; Open decrypts its payload.
//   - List returns summaries without touching payloads.
//
// The passphrase lives only in memory and is wiped by Close.
type Service struct {
	store      domain.SessionStore
	enc        Encrypter
	log        *slog.Logger
	now        func() time.Time
	mu         sync.Mutex
	passphrase []byte
}

// Option configures a Service.
type Option func(*Service)

// WithEncrypter overrides the default crypto.Sealer.
func WithEncrypter(e Encrypter) Option { return func(s *Service) { s.enc = e } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// New constructs a Service over store. The passphrase is copied.
func New(store domain.SessionStore, passphrase string, opts ...Option) *Service {
	s := &Service{
		store:      store,
		enc:        crypto.Sealer{},
		log:        slog.New(slog.DiscardHandler),
		now:        time.Now,
		passphrase: []byte(passphrase),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Save encrypts payload and persists it as the current snapshot of id.
func (s *Service) Save(id string, payload []byte, stepIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := s.now().UTC()
	switch prev, err := s.store.LoadSession(id); {
	case err == nil:
		created = prev.CreatedAt
	case errors.Is(err, domain.ErrSessionNotFound):
	default:
		// An unreadable previous record is replaced rather than blocking progress.
		s.log.Warn("previous session record unreadable", "session_id", id, "error", err)
	}

	blob, err := s.enc.Encrypt(payload, s.passphrase)
	if err != nil {
		return &domain.PersistenceError{Op: "encrypt", SessionID: id, Err: err}
	}
	rec := domain.SessionRecord{
		ID:        id,
		CreatedAt: created,
		UpdatedAt: s.now().UTC(),
		StepIndex: stepIndex,
		Payload:   blob,
	}
	if err := s.store.SaveSession(rec); err != nil {
		return &domain.PersistenceError{Op: "save", SessionID: id, Err: err}
	}
	s.log.Debug("session saved", "session_id", id, "step_index", stepIndex, "bytes", len(blob))
	return nil
}

// Load returns the stored record for id, or domain.ErrSessionNotFound.
func (s *Service) Load(id string) (domain.SessionRecord, error) {
	rec, err := s.store.LoadSession(id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.SessionRecord{}, err
	}
	if err != nil {
		return domain.SessionRecord{}, &domain.PersistenceError{Op: "load", SessionID: id, Err: err}
	}
	return rec, nil
}

// Open decrypts rec's payload. Failures are *domain.DecryptionAuthError.
func (s *Service) Open(rec domain.SessionRecord) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pt, err := s.enc.Decrypt(rec.Payload, s.passphrase)
	if err == nil {
		return pt, nil
	}
	reason := domain.DecryptAuthFailed
	if errors.Is(err, crypto.ErrMalformed) {
		reason = domain.DecryptMalformed
	}
	s.log.Warn("session decrypt failed", "session_id", rec.ID, "reason", reason.String())
	return nil, &domain.DecryptionAuthError{SessionID: rec.ID, Reason: reason, Err: err}
}

// List returns session summaries, most recent first.
func (s *Service) List() ([]domain.SessionSummary, error) {
	out, err := s.store.ListSessions()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list", Err: err}
	}
	return out, nil
}

// Delete removes the record for id.
func (s *Service) Delete(id string) error {
	err := s.store.DeleteSession(id)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return &domain.PersistenceError{Op: "delete", SessionID: id, Err: err}
	}
	return err
}

// Close wipes the in-memory passphrase.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	memzero.Zero(s.passphrase)
	s.passphrase = nil
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
