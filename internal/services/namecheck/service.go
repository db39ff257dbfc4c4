package namecheck

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"incorporator/internal/domain"
)

// task is the coordinator's private state for one submission.
type task struct {
	snap   domain.NameCheckTask
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
	exited bool
}

func (t *task) finish() {
	if !t.closed {
		t.closed = true
		close(t.done)
	}
}

// Service runs name-availability checks in the background.
//
// At most one submission is current. Submitting again, or cancelling,
// supersedes the earlier handle: its request is cancelled best-effort and
// whatever it eventually returns is discarded, so Status reports
// TaskSuperseded for it from then on.
type Service struct {
	checker domain.NameChecker
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
	newID   func() string

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu      sync.Mutex
	tasks   map[domain.TaskHandle]*task
	current domain.TaskHandle
}

// Config holds the coordinator's injected settings.
type Config struct {
	// Timeout bounds one check including retries; zero means no bound.
	Timeout time.Duration
	Log     *slog.Logger
	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// New returns a Service that checks names with checker.
func New(checker domain.NameChecker, cfg Config) *Service {
	ctx, stop := context.WithCancel(context.Background())
	s := &Service{
		checker: checker,
		log:     cfg.Log,
		timeout: cfg.Timeout,
		now:     cfg.Now,
		newID:   cfg.NewID,
		ctx:     ctx,
		stop:    stop,
		tasks:   make(map[domain.TaskHandle]*task),
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Submit starts a check for name in state and returns immediately. Any
// previous submission is superseded.
func (s *Service) Submit(name string, state domain.Jurisdiction) domain.TaskHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked(s.current)

	h := domain.TaskHandle(s.newID())
	ctx, cancel := s.taskContext()
	t := &task{
		snap: domain.NameCheckTask{
			ID:             h,
			SubmittedName:  name,
			SubmittedState: state,
			Status:         domain.TaskPending,
			StartedAt:      s.now(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.tasks[h] = t
	s.current = h
	s.log.Info("name check submitted", "task_id", h, "name", name, "state", state)

	s.wg.Add(1)
	go s.run(ctx, h, name, state)
	return h
}

func (s *Service) taskContext() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(s.ctx, s.timeout)
	}
	return context.WithCancel(s.ctx)
}

func (s *Service) run(ctx context.Context, h domain.TaskHandle, name string, state domain.Jurisdiction) {
	defer s.wg.Done()
	res, err := s.checker.CheckNameAvailability(ctx, name, state)

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tasks[h]
	t.cancel()
	t.exited = true
	if t.snap.Status == domain.TaskSuperseded {
		s.log.Debug("discarding superseded name check result", "task_id", h)
		delete(s.tasks, h)
		return
	}

	switch {
	case err != nil:
		t.snap.Status = domain.TaskFailed
		t.snap.Err = err
		s.log.Warn("name check failed", "task_id", h, "error", err)
	case res.Available:
		t.snap.Status = domain.TaskAvailable
		t.snap.Result = res
	default:
		t.snap.Status = domain.TaskUnavailable
		t.snap.Result = res
	}
	if err == nil {
		s.log.Info("name check resolved", "task_id", h, "available", res.Available)
	}
	t.finish()
}

// Status returns a snapshot of the task for h. Unknown handles report
// TaskSuperseded.
func (s *Service) Status(h domain.TaskHandle) domain.NameCheckTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[h]
	if !ok {
		return domain.NameCheckTask{ID: h, Status: domain.TaskSuperseded}
	}
	snap := t.snap
	snap.Result.Suggestions = append([]string(nil), t.snap.Result.Suggestions...)
	return snap
}

// Done returns a channel closed once h stops being pending, whether by
// resolving, failing or being superseded.
func (s *Service) Done(h domain.TaskHandle) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.tasks[h]; ok {
		return t.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Current returns the handle of the current submission, if any.
func (s *Service) Current() (domain.TaskHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != ""
}

// Cancel supersedes h. The underlying request may still complete but its
// result is never observable.
func (s *Service) Cancel(h domain.TaskHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked(h)
	if s.current == h {
		s.current = ""
	}
}

func (s *Service) supersedeLocked(h domain.TaskHandle) {
	t, ok := s.tasks[h]
	if !ok || t.snap.Status == domain.TaskSuperseded {
		return
	}
	t.cancel()
	t.snap.Status = domain.TaskSuperseded
	t.snap.Result = domain.NameCheckResult{}
	t.snap.Err = nil
	t.finish()
	if t.exited {
		delete(s.tasks, h)
	}
	s.log.Debug("name check superseded", "task_id", h)
}

// Close cancels every in-flight check and waits for the workers to exit.
func (s *Service) Close() {
	s.mu.Lock()
	s.supersedeLocked(s.current)
	s.current = ""
	s.mu.Unlock()

	s.stop()
	s.wg.Wait()
}

// Compile-time assertion that Service implements domain.NameCheckCoordinator.
var _ domain.NameCheckCoordinator = (*Service)(nil)
