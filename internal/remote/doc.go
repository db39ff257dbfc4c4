// Package remote provides the HTTP client for the external formation agent
// services. Only the name-availability check is used by the wizard.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Failures are returned as *domain.NetworkError and classified:
//
//   - retryable: timeouts, refused or reset connections, HTTP 5xx and 429
//   - terminal: other non-2xx statuses and malformed response bodies
//
// Only retryable failures are retried, with bounded attempts and exponential
// backoff (RetryPolicy).
package remote
