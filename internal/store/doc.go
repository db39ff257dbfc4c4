// Package store provides file-based persistence for wizard sessions.
//
// SessionFileStore keeps one JSON record per session under a single
// directory, named <id>.session. The record carries plaintext metadata (id,
// timestamps, step index) and the already-encrypted payload; this package
// never sees plaintext drafts. Writes go to a synced temporary file that is
// renamed over the target, so a crash leaves the last complete record.
//
// Concurrent writers of the same session id are not coordinated across
// processes: the last rename wins.
package store
