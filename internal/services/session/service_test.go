package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"incorporator/internal/crypto"
	"incorporator/internal/domain"
	"incorporator/internal/services/session"
	"incorporator/internal/store"
)

var fast = crypto.Sealer{Params: crypto.KDFParams{LogN: 10, R: 8, P: 1}}

func newService(t *testing.T, dir, pass string, now func() time.Time) *session.Service {
	t.Helper()
	svc := session.New(store.NewSessionFileStore(dir), pass,
		session.WithEncrypter(fast),
		session.WithClock(now),
	)
	t.Cleanup(svc.Close)
	return svc
}

func TestService_SaveLoadOpen(t *testing.T) {
	dir := t.TempDir()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	svc := newService(t, dir, "pass", now)

	require.NoError(t, svc.Save("s1", []byte(`{"draft":1}`), 2))

	clock = clock.Add(time.Minute)
	require.NoError(t, svc.Save("s1", []byte(`{"draft":2}`), 3))

	rec, err := svc.Load("s1")
	require.NoError(t, err)
	require.Equal(t, 3, rec.StepIndex)
	require.True(t, rec.CreatedAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)), "created time preserved")
	require.True(t, rec.UpdatedAt.Equal(clock))
	require.NotContains(t, string(rec.Payload), "draft", "payload stored in clear")

	pt, err := svc.Open(rec)
	require.NoError(t, err)
	require.JSONEq(t, `{"draft":2}`, string(pt))
}

func TestService_OpenWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	now := time.Now
	require.NoError(t, newService(t, dir, "right", now).Save("s1", []byte("x"), 0))

	other := newService(t, dir, "wrong", now)
	rec, err := other.Load("s1")
	require.NoError(t, err)

	_, err = other.Open(rec)
	var dae *domain.DecryptionAuthError
	require.ErrorAs(t, err, &dae)
	require.Equal(t, domain.DecryptAuthFailed, dae.Reason)
	require.ErrorIs(t, err, crypto.ErrAuthentication)
}

func TestService_OpenMalformed(t *testing.T) {
	svc := newService(t, t.TempDir(), "p", time.Now)
	_, err := svc.Open(domain.SessionRecord{ID: "s1", Payload: []byte("short")})
	var dae *domain.DecryptionAuthError
	require.ErrorAs(t, err, &dae)
	require.Equal(t, domain.DecryptMalformed, dae.Reason)
}

func TestService_LoadNotFound(t *testing.T) {
	svc := newService(t, t.TempDir(), "p", time.Now)
	_, err := svc.Load("missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestService_SaveFailureIsReported(t *testing.T) {
	// A regular file where the sessions directory should be makes MkdirAll fail.
	parent := t.TempDir()
	blocker := filepath.Join(parent, "sessions")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	svc := newService(t, blocker, "p", time.Now)
	err := svc.Save("s1", []byte("x"), 0)
	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "save", pe.Op)
	require.Equal(t, "s1", pe.SessionID)
}

func TestService_ListAndDelete(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, dir, "p", time.Now)
	require.NoError(t, svc.Save("a", []byte("1"), 0))
	require.NoError(t, svc.Save("b", []byte("2"), 4))

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.Delete("a"))
	require.True(t, errors.Is(svc.Delete("a"), domain.ErrSessionNotFound))

	list, err = svc.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "b", list[0].ID)
	require.Equal(t, 4, list[0].StepIndex)
}
