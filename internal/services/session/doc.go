// Package session implements the session manager: encrypted save, load and
// resume-picker listing of wizard snapshots.
package session
