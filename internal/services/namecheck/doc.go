// Package namecheck implements the background name-availability coordinator.
//
// Submit starts a check on its own goroutine and returns a handle at once.
// Callers poll Status or wait on Done; the coordinator never calls back into
// the wizard. Handle identity, not result content, decides whether a result
// is observable: only the current submission can ever report Available,
// Unavailable or Failed.
package namecheck
