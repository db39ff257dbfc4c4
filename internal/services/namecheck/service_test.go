package namecheck_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incorporator/internal/domain"
	"incorporator/internal/services/namecheck"
)

type reply struct {
	res domain.NameCheckResult
	err error
}

// gatedChecker blocks each call until the test releases a reply for its name.
type gatedChecker struct {
	mu    sync.Mutex
	gates map[string]chan reply
	calls []string
}

func newGatedChecker() *gatedChecker {
	return &gatedChecker{gates: make(map[string]chan reply)}
}

func (g *gatedChecker) gate(name string) chan reply {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[name]
	if !ok {
		ch = make(chan reply, 1)
		g.gates[name] = ch
	}
	return ch
}

func (g *gatedChecker) CheckNameAvailability(ctx context.Context, name string, _ domain.Jurisdiction) (domain.NameCheckResult, error) {
	g.mu.Lock()
	g.calls = append(g.calls, name)
	g.mu.Unlock()
	r := <-g.gate(name)
	return r.res, r.err
}

func (g *gatedChecker) release(name string, r reply) { g.gate(name) <- r }

func sequentialIDs() func() string {
	n := 0
	return func() string { n++; return fmt.Sprintf("task-%d", n) }
}

func waitDone(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for task")
	}
}

func TestSubmit_ReturnsImmediatelyAndResolves(t *testing.T) {
	g := newGatedChecker()
	svc := namecheck.New(g, namecheck.Config{NewID: sequentialIDs()})
	defer svc.Close()

	h := svc.Submit("Acme LLC", domain.Delaware)
	assert.Equal(t, domain.TaskHandle("task-1"), h)

	st := svc.Status(h)
	assert.Equal(t, domain.TaskPending, st.Status)
	assert.Equal(t, "Acme LLC", st.SubmittedName)
	assert.Equal(t, domain.Delaware, st.SubmittedState)

	g.release("Acme LLC", reply{res: domain.NameCheckResult{Available: true}})
	waitDone(t, svc.Done(h))
	assert.Equal(t, domain.TaskAvailable, svc.Status(h).Status)
}

func TestSubmit_Unavailable(t *testing.T) {
	g := newGatedChecker()
	svc := namecheck.New(g, namecheck.Config{})
	defer svc.Close()

	h := svc.Submit("Taken LLC", domain.Delaware)
	g.release("Taken LLC", reply{res: domain.NameCheckResult{Suggestions: []string{"Taken Group LLC"}}})
	waitDone(t, svc.Done(h))

	st := svc.Status(h)
	assert.Equal(t, domain.TaskUnavailable, st.Status)
	assert.Equal(t, []string{"Taken Group LLC"}, st.Result.Suggestions)
}

func TestSubmit_Failed(t *testing.T) {
	g := newGatedChecker()
	svc := namecheck.New(g, namecheck.Config{})
	defer svc.Close()

	boom := &domain.NetworkError{Op: "POST", Status: 400}
	h := svc.Submit("Acme LLC", domain.Delaware)
	g.release("Acme LLC", reply{err: boom})
	waitDone(t, svc.Done(h))

	st := svc.Status(h)
	assert.Equal(t, domain.TaskFailed, st.Status)
	assert.True(t, errors.Is(st.Err, boom))
}

func TestSubmit_SupersedesPrevious(t *testing.T) {
	// However the first check resolves, its result stays unobservable.
	for _, first := range []reply{
		{res: domain.NameCheckResult{Available: true}},
		{res: domain.NameCheckResult{Available: false}},
		{err: errors.New("boom")},
	} {
		g := newGatedChecker()
		svc := namecheck.New(g, namecheck.Config{NewID: sequentialIDs()})

		h1 := svc.Submit("Old LLC", domain.Delaware)
		h2 := svc.Submit("New LLC", domain.Delaware)
		require.NotEqual(t, h1, h2)

		assert.Equal(t, domain.TaskSuperseded, svc.Status(h1).Status)
		waitDone(t, svc.Done(h1))

		g.release("Old LLC", first)
		g.release("New LLC", reply{res: domain.NameCheckResult{Available: true}})
		waitDone(t, svc.Done(h2))

		assert.Equal(t, domain.TaskSuperseded, svc.Status(h1).Status)
		assert.Equal(t, domain.TaskAvailable, svc.Status(h2).Status)

		cur, ok := svc.Current()
		assert.True(t, ok)
		assert.Equal(t, h2, cur)
		svc.Close()
		assert.Equal(t, domain.TaskSuperseded, svc.Status(h1).Status)
	}
}

func TestSubmit_OnlyCurrentIsResolved(t *testing.T) {
	g := newGatedChecker()
	svc := namecheck.New(g, namecheck.Config{})
	defer svc.Close()

	h1 := svc.Submit("A LLC", domain.Delaware)
	g.release("A LLC", reply{res: domain.NameCheckResult{Available: true}})
	waitDone(t, svc.Done(h1))
	require.Equal(t, domain.TaskAvailable, svc.Status(h1).Status)

	h2 := svc.Submit("B LLC", domain.Delaware)
	assert.Equal(t, domain.TaskSuperseded, svc.Status(h1).Status)
	assert.Equal(t, domain.TaskPending, svc.Status(h2).Status)
	g.release("B LLC", reply{res: domain.NameCheckResult{Available: true}})
	waitDone(t, svc.Done(h2))
}

func TestCancel_HidesResult(t *testing.T) {
	g := newGatedChecker()
	svc := namecheck.New(g, namecheck.Config{})
	defer svc.Close()

	h := svc.Submit("Acme LLC", domain.Delaware)
	svc.Cancel(h)
	waitDone(t, svc.Done(h))

	g.release("Acme LLC", reply{res: domain.NameCheckResult{Available: true}})
	assert.Equal(t, domain.TaskSuperseded, svc.Status(h).Status)
	_, ok := svc.Current()
	assert.False(t, ok)
}

// ctxChecker honours cancellation so Timeout and Close can be observed.
type ctxChecker struct{}

func (ctxChecker) CheckNameAvailability(ctx context.Context, _ string, _ domain.Jurisdiction) (domain.NameCheckResult, error) {
	<-ctx.Done()
	return domain.NameCheckResult{}, ctx.Err()
}

func TestSubmit_TimeoutFails(t *testing.T) {
	svc := namecheck.New(ctxChecker{}, namecheck.Config{Timeout: 10 * time.Millisecond})
	defer svc.Close()

	h := svc.Submit("Acme LLC", domain.Delaware)
	waitDone(t, svc.Done(h))
	st := svc.Status(h)
	assert.Equal(t, domain.TaskFailed, st.Status)
	assert.ErrorIs(t, st.Err, context.DeadlineExceeded)
}

func TestClose_CancelsInFlight(t *testing.T) {
	svc := namecheck.New(ctxChecker{}, namecheck.Config{})
	h := svc.Submit("Acme LLC", domain.Delaware)

	done := make(chan struct{})
	go func() { svc.Close(); close(done) }()
	waitDone(t, done)
	assert.Equal(t, domain.TaskSuperseded, svc.Status(h).Status)
}

func TestStatus_UnknownHandle(t *testing.T) {
	svc := namecheck.New(ctxChecker{}, namecheck.Config{})
	defer svc.Close()
	assert.Equal(t, domain.TaskSuperseded, svc.Status("nope").Status)
	waitDone(t, svc.Done("nope"))
}
