package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"incorporator/internal/domain"
)

const (
	sessionExt        = ".session"
	recordVersion     = 1
	sessionDirMode    = 0o700
	sessionRecordMode = 0o600
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidSessionID reports whether id is a filesystem-safe session token.
func ValidSessionID(id string) bool { return sessionIDPattern.MatchString(id) }

// record is the on-disk shape of a session file.
type record struct {
	V int `json:"v"`
	domain.SessionRecord
}

// SessionFileStore persists session records to disk, one file per session.
type SessionFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewSessionFileStore returns a SessionFileStore rooted at dir.
func NewSessionFileStore(dir string) *SessionFileStore {
	return &SessionFileStore{dir: dir}
}

// Dir returns the directory holding session files.
func (s *SessionFileStore) Dir() string { return s.dir }

func (s *SessionFileStore) path(id string) (string, error) {
	if !ValidSessionID(id) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSessionID, id)
	}
	return filepath.Join(s.dir, id+sessionExt), nil
}

// SaveSession atomically replaces the record for rec.ID.
func (s *SessionFileStore) SaveSession(rec domain.SessionRecord) error {
	path, err := s.path(rec.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, sessionDirMode); err != nil {
		return err
	}
	return WriteJSON(path, record{V: recordVersion, SessionRecord: rec}, sessionRecordMode)
}

// LoadSession reads the record for id.
func (s *SessionFileStore) LoadSession(id string) (domain.SessionRecord, error) {
	path, err := s.path(id)
	if err != nil {
		return domain.SessionRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var rec record
	if err := readJSON(path, &rec); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.SessionRecord{}, domain.ErrSessionNotFound
		}
		return domain.SessionRecord{}, err
	}
	if rec.V > recordVersion {
		return domain.SessionRecord{}, fmt.Errorf("unsupported session record version %d", rec.V)
	}
	return rec.SessionRecord, nil
}

// ListSessions returns summaries of all records, most recently updated
// first. Unreadable files are skipped.
func (s *SessionFileStore) ListSessions() ([]domain.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]domain.SessionSummary, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, sessionExt) || strings.HasPrefix(name, ".") {
			continue
		}
		var rec record
		if err := readJSON(filepath.Join(s.dir, name), &rec); err != nil {
			continue
		}
		out = append(out, rec.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// DeleteSession removes the record for id.
func (s *SessionFileStore) DeleteSession(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Compile-time assertion that SessionFileStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionFileStore)(nil)
