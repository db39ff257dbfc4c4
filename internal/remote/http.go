package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"incorporator/internal/domain"
)

const (
	nameCheckPath = "/v1/names/check"
	maxErrorBody  = 4 << 10
)

// HTTP is the JSON-over-HTTP client for the formation agent services.
type HTTP struct {
	Base  string
	HTTP  *http.Client
	Retry RetryPolicy
	Log   *slog.Logger
}

// NewHTTP returns a client for base using hc (http.DefaultClient when nil).
func NewHTTP(base string, hc *http.Client, retry RetryPolicy) *HTTP {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTP{
		Base:  strings.TrimRight(base, "/"),
		HTTP:  hc,
		Retry: retry,
		Log:   slog.New(slog.DiscardHandler),
	}
}

type nameCheckRequest struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type nameCheckResponse struct {
	Available   *bool    `json:"available"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// CheckNameAvailability asks the name service whether name is free in state.
// Retryable failures are retried under c.Retry; terminal failures return at
// once. Every failure is a *domain.NetworkError.
func (c *HTTP) CheckNameAvailability(ctx context.Context, name string, state domain.Jurisdiction) (domain.NameCheckResult, error) {
	var out nameCheckResponse
	err := c.Retry.Do(ctx, func(attempt int) error {
		out = nameCheckResponse{}
		err := c.post(ctx, nameCheckPath, nameCheckRequest{Name: name, State: string(state)}, &out)
		if err == nil && out.Available == nil {
			err = &domain.NetworkError{Op: "POST " + nameCheckPath, Status: http.StatusOK, Err: errors.New("malformed response: missing available")}
		}
		if err != nil {
			c.Log.Debug("name check attempt failed", "attempt", attempt, "retryable", domain.IsRetryable(err), "error", err)
		}
		return err
	})
	if err != nil {
		return domain.NameCheckResult{}, err
	}
	return domain.NameCheckResult{Available: *out.Available, Suggestions: out.Suggestions}, nil
}

func (c *HTTP) post(ctx context.Context, path string, in, out any) error {
	op := "POST " + path
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return &domain.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Retryable: retryableTransport(ctx, err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.NetworkError{
			Op:        op,
			Status:    resp.StatusCode,
			Body:      strings.TrimSpace(string(body)),
			Retryable: RetryableStatus(resp.StatusCode),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// RetryableStatus reports whether an HTTP status may succeed on retry.
func RetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// retryableTransport classifies errors returned before any response arrived.
func retryableTransport(ctx context.Context, err error) bool {
	// The caller gave up; retrying cannot help.
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe) && oe.Op == "dial"
}

// RetryPolicy bounds retries of retryable failures with exponential backoff.
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
	// Sleep waits between attempts; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy is three attempts starting at 250ms, doubling to 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: 250 * time.Millisecond, BackoffMultiplier: 2, MaxBackoff: 2 * time.Second}
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts are exhausted. attempt starts at 1.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	mult := p.BackoffMultiplier
	if mult <= 0 {
		mult = 2
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	backoff := p.InitialBackoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(attempt); err == nil || !domain.IsRetryable(err) || attempt == attempts {
			return err
		}
		if backoff > 0 {
			if serr := sleep(ctx, backoff); serr != nil {
				return err
			}
		}
		backoff = time.Duration(float64(backoff) * mult)
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ domain.NameChecker = (*HTTP)(nil)
