package flow_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"incorporator/internal/domain"
	"incorporator/internal/flow"
	"incorporator/internal/services/namecheck"
)

// script answers prompts by question key. Unscripted inputs accept the
// question's default; unscripted selects accept the default option.
type script struct {
	mu        sync.Mutex
	inputs    map[string][]string
	selects   map[string][]int
	confirms  []bool
	reviews   []flow.ReviewAction
	cancelAt  string
	asked     []flow.Question
	summaries []flow.Summary
	views     []flow.NameCheckView
	notes     []string
}

func newScript() *script {
	return &script{inputs: map[string][]string{}, selects: map[string][]int{}}
}

func (s *script) record(q flow.Question) error {
	s.asked = append(s.asked, q)
	if q.Key == s.cancelAt {
		return domain.ErrCancelled
	}
	return nil
}

func (s *script) Input(_ context.Context, q flow.Question) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(q); err != nil {
		return "", err
	}
	if answers := s.inputs[q.Key]; len(answers) > 0 {
		s.inputs[q.Key] = answers[1:]
		if answers[0] != "" {
			return answers[0], nil
		}
	}
	if q.Default != "" {
		return q.Default, nil
	}
	return "", fmt.Errorf("no scripted answer for %q", q.Key)
}

func (s *script) Select(_ context.Context, q flow.Question, _ []string, def int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(q); err != nil {
		return 0, err
	}
	if picks := s.selects[q.Key]; len(picks) > 0 {
		s.selects[q.Key] = picks[1:]
		return picks[0], nil
	}
	return def, nil
}

func (s *script) Confirm(_ context.Context, label string, _ bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm %q", label)
	}
	ok := s.confirms[0]
	s.confirms = s.confirms[1:]
	return ok, nil
}

func (s *script) Review(_ context.Context, sum flow.Summary, v flow.NameCheckView) (flow.ReviewAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, sum)
	s.views = append(s.views, v)
	if len(s.reviews) == 0 {
		return flow.ReviewAction{}, fmt.Errorf("review script exhausted")
	}
	a := s.reviews[0]
	s.reviews = s.reviews[1:]
	return a, nil
}

func (s *script) Notify(_ flow.Level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, msg)
}

func (s *script) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.asked))
	for i, q := range s.asked {
		out[i] = q.Key
	}
	return out
}

func (s *script) questions(key string) []flow.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []flow.Question
	for _, q := range s.asked {
		if q.Key == key {
			out = append(out, q)
		}
	}
	return out
}

func (s *script) noted(substr string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.notes {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}

// llcAnswers scripts a two-member Delaware LLC named Acme.
func llcAnswers(s *script) {
	s.inputs["base_name"] = []string{"Acme"}
	s.inputs["agent.name"] = []string{"Delaware Agents Inc"}
	s.inputs["agent.street"] = []string{"1 Main St"}
	s.inputs["agent.city"] = []string{"Dover"}
	s.inputs["agent.zip"] = []string{"19901"}
	s.inputs["parties.count"] = []string{"2"}
	for i, name := range []string{"Ann", "Ben"} {
		key := fmt.Sprintf("party.%d", i+1)
		s.inputs[key+".name"] = []string{name}
		s.inputs[key+".street"] = []string{fmt.Sprintf("%d Oak St", i+2)}
		s.inputs[key+".city"] = []string{"Wilmington"}
		s.inputs[key+".state"] = []string{"DE"}
		s.inputs[key+".zip"] = []string{"19801"}
	}
	s.inputs["party.1.percent"] = []string{"60"}
}

// memSaver keeps session payloads in memory.
type memSaver struct {
	mu       sync.Mutex
	payloads map[string][]byte
	steps    map[string]int
	saves    int
	deleted  []string
	fail     error
}

func newMemSaver() *memSaver {
	return &memSaver{payloads: map[string][]byte{}, steps: map[string]int{}}
}

func (m *memSaver) Save(id string, payload []byte, step int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.payloads[id] = append([]byte(nil), payload...)
	m.steps[id] = step
	m.saves++
	return nil
}

func (m *memSaver) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	delete(m.payloads, id)
	return nil
}

func (m *memSaver) Open(rec domain.SessionRecord) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payloads[rec.ID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return append([]byte(nil), p...), nil
}

func (m *memSaver) record(id string) domain.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.SessionRecord{ID: id, StepIndex: m.steps[id]}
}

// checker answers name checks through fn and records every call.
type checker struct {
	mu    sync.Mutex
	calls []string
	fn    func(ctx context.Context, name string) (domain.NameCheckResult, error)
}

func (c *checker) CheckNameAvailability(ctx context.Context, name string, _ domain.Jurisdiction) (domain.NameCheckResult, error) {
	c.mu.Lock()
	c.calls = append(c.calls, name)
	c.mu.Unlock()
	return c.fn(ctx, name)
}

func (c *checker) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func available(context.Context, string) (domain.NameCheckResult, error) {
	return domain.NameCheckResult{Available: true}, nil
}

type harness struct {
	prompt  *script
	saver   *memSaver
	checker *checker
	checks  *namecheck.Service
}

func newHarness(t *testing.T, fn func(context.Context, string) (domain.NameCheckResult, error)) *harness {
	t.Helper()
	h := &harness{
		prompt:  newScript(),
		saver:   newMemSaver(),
		checker: &checker{fn: fn},
	}
	h.checks = namecheck.New(h.checker, namecheck.Config{})
	t.Cleanup(h.checks.Close)
	return h
}

func (h *harness) config() flow.Config {
	return flow.Config{
		SessionID:        "s1",
		CheckWaitTimeout: 2 * time.Second,
		PollInterval:     time.Hour,
	}
}

func (h *harness) deps() flow.Deps {
	return flow.Deps{Prompt: h.prompt, Checks: h.checks, Sessions: h.saver}
}

func (h *harness) run(t *testing.T) flow.Outcome {
	t.Helper()
	return h.runWith(t, flow.New(h.config(), h.deps()))
}

func (h *harness) runWith(t *testing.T, c *flow.Controller) flow.Outcome {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out
}

func confirm() flow.ReviewAction { return flow.ReviewAction{Kind: flow.ReviewConfirm} }

func edit(f domain.Field) flow.ReviewAction {
	return flow.ReviewAction{Kind: flow.ReviewEdit, Field: f}
}
