package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"incorporator/internal/domain"
	"incorporator/internal/store"
)

func TestSession_SaveLoad_OK(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	var ss domain.SessionStore = store.NewSessionFileStore(dir)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := domain.SessionRecord{
		ID:        "abc-123",
		CreatedAt: now,
		UpdatedAt: now,
		StepIndex: 6,
		Payload:   []byte{0, 1, 2, 0xff},
	}
	require.NoError(t, ss.SaveSession(rec))

	got, err := ss.LoadSession("abc-123")
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, rec.StepIndex, got.StepIndex)
	require.Equal(t, rec.Payload, got.Payload)
	require.True(t, rec.UpdatedAt.Equal(got.UpdatedAt))

	info, err := os.Stat(filepath.Join(dir, "abc-123.session"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSession_LoadMissing(t *testing.T) {
	ss := store.NewSessionFileStore(t.TempDir())
	_, err := ss.LoadSession("nope")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSession_RejectsUnsafeIDs(t *testing.T) {
	ss := store.NewSessionFileStore(t.TempDir())
	for _, id := range []string{"", "../escape", "a/b", ".hidden", "with space"} {
		err := ss.SaveSession(domain.SessionRecord{ID: id})
		require.ErrorIs(t, err, domain.ErrInvalidSessionID, "id %q", id)
	}
}

func TestSession_SaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	ss := store.NewSessionFileStore(dir)

	require.NoError(t, ss.SaveSession(domain.SessionRecord{ID: "s1", StepIndex: 1, Payload: []byte("one")}))
	require.NoError(t, ss.SaveSession(domain.SessionRecord{ID: "s1", StepIndex: 2, Payload: []byte("two")}))

	got, err := ss.LoadSession("s1")
	require.NoError(t, err)
	require.Equal(t, 2, got.StepIndex)
	require.Equal(t, []byte("two"), got.Payload)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSession_ListNewestFirstWithoutPayload(t *testing.T) {
	dir := t.TempDir()
	ss := store.NewSessionFileStore(dir)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ss.SaveSession(domain.SessionRecord{ID: "old", UpdatedAt: base, Payload: []byte("x")}))
	require.NoError(t, ss.SaveSession(domain.SessionRecord{ID: "new", UpdatedAt: base.Add(time.Hour), Payload: []byte("y")}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.session"), []byte("{not json"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	list, err := ss.ListSessions()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].ID)
	require.Equal(t, "old", list[1].ID)
}

func TestSession_ListMissingDir(t *testing.T) {
	ss := store.NewSessionFileStore(filepath.Join(t.TempDir(), "absent"))
	list, err := ss.ListSessions()
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSession_Delete(t *testing.T) {
	ss := store.NewSessionFileStore(t.TempDir())
	require.NoError(t, ss.SaveSession(domain.SessionRecord{ID: "gone"}))
	require.NoError(t, ss.DeleteSession("gone"))
	require.ErrorIs(t, ss.DeleteSession("gone"), domain.ErrSessionNotFound)
}
