package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"incorporator/internal/domain"
	"incorporator/internal/validate"
)

const (
	// DefaultCheckWaitTimeout bounds how long confirmation waits for a
	// pending name check before asking the user what to do.
	DefaultCheckWaitTimeout = 20 * time.Second
	// DefaultPollInterval is how often progress is reported while waiting.
	DefaultPollInterval = time.Second
)

// Config holds the controller's settings.
type Config struct {
	SessionID        string
	CheckWaitTimeout time.Duration
	PollInterval     time.Duration
	// KeepConfirmed keeps the session record after confirmation instead of
	// deleting it.
	KeepConfirmed bool
	Log           *slog.Logger
	Now           func() time.Time
}

// Deps are the controller's collaborators. Sessions may be nil, in which
// case nothing is persisted.
type Deps struct {
	Prompt   Prompter
	Checks   domain.NameCheckCoordinator
	Sessions Saver
}

// OutcomeKind says how a run ended.
type OutcomeKind int

const (
	Confirmed OutcomeKind = iota + 1
	Abandoned
)

func (k OutcomeKind) String() string {
	switch k {
	case Confirmed:
		return "confirmed"
	case Abandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Outcome is the result of Run.
type Outcome struct {
	Kind      OutcomeKind
	SessionID string
	Draft     domain.FormationDraft
	// NameCheck is the check the user confirmed against.
	NameCheck domain.NameCheckTask
	// NameCheckOverridden is set when the user confirmed without an
	// available result.
	NameCheckOverridden bool
	// SaveErr is the error from the final save or delete, if any.
	SaveErr error
}

// Controller is the wizard's state machine. It is not safe for concurrent
// use; background name checks report through the coordinator and are read
// only from Run.
type Controller struct {
	cfg      Config
	prompt   Prompter
	checks   domain.NameCheckCoordinator
	sessions Saver
	log      *slog.Logger
	now      func() time.Time

	draft      domain.FormationDraft
	step       Step
	checkArmed bool
	task       domain.TaskHandle
	saveFailed bool
}

// New returns a controller for a fresh draft.
func New(cfg Config, deps Deps) *Controller {
	if cfg.CheckWaitTimeout <= 0 {
		cfg.CheckWaitTimeout = DefaultCheckWaitTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	c := &Controller{
		cfg:      cfg,
		prompt:   deps.Prompt,
		checks:   deps.Checks,
		sessions: deps.Sessions,
		log:      cfg.Log,
		now:      cfg.Now,
		step:     StepSelectState,
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Step returns the current step.
func (c *Controller) Step() Step { return c.step }

// Draft returns a copy of the current draft.
func (c *Controller) Draft() domain.FormationDraft { return c.draft.Clone() }

// SessionID returns the id progress is saved under.
func (c *Controller) SessionID() string { return c.cfg.SessionID }

// Run drives the wizard until the user confirms or quits. Quitting, or
// cancelling ctx, yields an Abandoned outcome after a final save; other
// errors are returned after a best-effort save.
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	c.log.Info("wizard started", "step", c.step.String())
	for {
		if err := ctx.Err(); err != nil {
			return c.abandon(err), nil
		}

		var (
			out  Outcome
			done bool
			err  error
		)
		if c.step == StepReviewAndConfirm {
			out, done, err = c.review(ctx)
		} else {
			err = c.runStep(ctx)
		}

		switch {
		case isCancel(err):
			return c.abandon(err), nil
		case err != nil:
			c.log.Error("wizard failed", "step", c.step.String(), "error", err)
			c.cancelCheck()
			if serr := c.save(); serr != nil {
				c.log.Warn("final save failed", "error", serr)
			}
			return Outcome{}, err
		case done:
			return out, nil
		}
	}
}

func isCancel(err error) bool {
	return errors.Is(err, domain.ErrCancelled) || errors.Is(err, context.Canceled)
}

func (c *Controller) runStep(ctx context.Context) error {
	if !Applies(c.step, &c.draft) {
		c.step = NextStep(&c.draft)
		return nil
	}
	if c.step >= StepCollectRegisteredAgent && !c.checkArmed {
		c.checkArmed = true
		c.log.Debug("name check armed")
	}
	c.ensureNameCheck()

	field, _ := c.step.Field()
	before := c.draft.Clone()
	if err := c.collect(ctx, c.step); err != nil {
		return err
	}
	for _, dep := range Invalidated(field, &before, &c.draft) {
		if c.draft.Filled(dep) {
			c.log.Info("field invalidated", "field", string(dep), "by", string(field))
		}
		c.draft.Invalidate(dep, false)
		if affectsName(dep) {
			c.cancelCheck()
		}
	}
	c.ensureNameCheck()

	c.log.Info("step completed", "step", c.step.String())
	c.step = NextStep(&c.draft)
	c.checkpoint()
	return nil
}

// ensureNameCheck submits a check when armed and the current submission
// does not match the draft's legal name.
func (c *Controller) ensureNameCheck() {
	if !c.checkArmed || !c.draft.NameCheckReady() {
		return
	}
	name, state := c.draft.LegalName(), c.draft.State.Value
	if c.task != "" {
		st := c.checks.Status(c.task)
		if st.Status != domain.TaskSuperseded && st.Matches(name, state) {
			return
		}
	}
	c.submitNameCheck(name, state)
}

func (c *Controller) submitNameCheck(name string, state domain.Jurisdiction) {
	c.task = c.checks.Submit(name, state)
	c.log.Info("name check started", "task_id", string(c.task), "name", name, "state", string(state))
}

func (c *Controller) cancelCheck() {
	if c.task == "" {
		return
	}
	c.checks.Cancel(c.task)
	c.log.Debug("name check cancelled", "task_id", string(c.task))
	c.task = ""
}

// currentCheck returns the snapshot of the current submission. A snapshot
// that does not belong to the draft as it is now is discarded and a fresh
// check submitted in its place.
func (c *Controller) currentCheck() domain.NameCheckTask {
	c.ensureNameCheck()
	st := c.checks.Status(c.task)
	if err := c.verifyCheck(st); err != nil {
		c.log.Error("discarding name check result", "error", err)
		c.submitNameCheck(c.draft.LegalName(), c.draft.State.Value)
		st = c.checks.Status(c.task)
	}
	return st
}

func (c *Controller) verifyCheck(st domain.NameCheckTask) error {
	name := c.draft.LegalName()
	if st.ID != c.task || st.Status == domain.TaskSuperseded || !st.Matches(name, c.draft.State.Value) {
		return &domain.StateConflictError{
			Task:          st.ID,
			Current:       c.task,
			SubmittedName: st.SubmittedName,
			CurrentName:   name,
		}
	}
	return nil
}

func (c *Controller) view(st domain.NameCheckTask) NameCheckView {
	v := NameCheckView{
		Name:        st.SubmittedName,
		State:       st.SubmittedState,
		Status:      st.Status,
		Suggestions: st.Result.Suggestions,
	}
	if st.Err != nil {
		v.Error = st.Err.Error()
	}
	if !st.StartedAt.IsZero() {
		v.Elapsed = c.now().Sub(st.StartedAt)
	}
	return v
}

func (c *Controller) review(ctx context.Context) (Outcome, bool, error) {
	c.checkArmed = true
	st := c.currentCheck()
	action, err := c.prompt.Review(ctx, BuildSummary(&c.draft), c.view(st))
	if err != nil {
		return Outcome{}, false, err
	}

	switch action.Kind {
	case ReviewConfirm:
		return c.confirm(ctx)
	case ReviewEdit:
		if err := c.beginEdit(action.Field); err != nil {
			c.prompt.Notify(LevelWarn, err.Error())
		}
	case ReviewRefresh:
		if st.Status == domain.TaskFailed {
			c.log.Info("retrying failed name check", "task_id", string(st.ID))
			c.submitNameCheck(c.draft.LegalName(), c.draft.State.Value)
		}
	case ReviewQuit:
		return Outcome{}, false, domain.ErrCancelled
	default:
		return Outcome{}, false, fmt.Errorf("flow: unknown review action %d", action.Kind)
	}
	return Outcome{}, false, nil
}

// beginEdit reopens f, keeping its value as the prompt's prefill.
func (c *Controller) beginEdit(f domain.Field) error {
	s, ok := StepFor(f)
	if !ok || !Applies(s, &c.draft) {
		return fmt.Errorf("%s cannot be edited for a %s", f.Label(), c.draft.CompanyType.Value)
	}
	c.draft.Invalidate(f, true)
	if affectsName(f) {
		c.cancelCheck()
	}
	c.step = s
	c.log.Info("editing field", "field", string(f))
	return nil
}

// affectsName reports whether f is part of what the name check submits.
func affectsName(f domain.Field) bool {
	switch f {
	case domain.FieldState, domain.FieldEntityEnding, domain.FieldBaseName:
		return true
	}
	return false
}

func (c *Controller) confirm(ctx context.Context) (Outcome, bool, error) {
	if err := validate.Draft(&c.draft); err != nil {
		c.prompt.Notify(LevelWarn, "Cannot confirm yet: "+err.Error())
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			if err := c.beginEdit(domain.Field(ve.Field)); err != nil {
				c.log.Warn("cannot reopen invalid field", "field", ve.Field, "error", err)
			}
		}
		return Outcome{}, false, nil
	}

	st := c.currentCheck()
	if st.Status == domain.TaskPending {
		var (
			d   waitDecision
			err error
		)
		st, d, err = c.awaitNameCheck(ctx)
		if err != nil {
			return Outcome{}, false, err
		}
		switch {
		case d == waitBack:
			return Outcome{}, false, nil
		case d == waitOverride && st.Status == domain.TaskPending:
			return c.finish(st, true), true, nil
		}
	}

	switch st.Status {
	case domain.TaskAvailable:
		ok, err := c.prompt.Confirm(ctx, fmt.Sprintf("%s is available in %s. File the formation now?", st.SubmittedName, st.SubmittedState.Name()), true)
		if err != nil || !ok {
			return Outcome{}, false, err
		}
		return c.finish(st, false), true, nil
	case domain.TaskUnavailable:
		c.rejectName(st)
	case domain.TaskFailed:
		label := fmt.Sprintf("The availability of %s could not be verified (%v). Confirm anyway without a verified name?", st.SubmittedName, st.Err)
		ok, err := c.prompt.Confirm(ctx, label, false)
		if err != nil || !ok {
			return Outcome{}, false, err
		}
		return c.finish(st, true), true, nil
	}
	return Outcome{}, false, nil
}

// rejectName sends the user back to name entry with the rejected name
// prefilled.
func (c *Controller) rejectName(st domain.NameCheckTask) {
	msg := fmt.Sprintf("%s is not available in %s.", st.SubmittedName, st.SubmittedState.Name())
	if len(st.Result.Suggestions) > 0 {
		msg += " Available alternatives: " + strings.Join(st.Result.Suggestions, ", ") + "."
	}
	c.prompt.Notify(LevelWarn, msg)
	c.log.Info("name unavailable", "task_id", string(st.ID), "name", st.SubmittedName)

	c.draft.Invalidate(domain.FieldBaseName, true)
	c.cancelCheck()
	c.step = StepEnterBaseName
	c.checkpoint()
}

type waitDecision int

const (
	waitResolved waitDecision = iota
	waitOverride
	waitBack
)

var waitOptions = []string{"Keep waiting", "Confirm without a verified name", "Back to review"}

// awaitNameCheck blocks until the current check leaves pending, reporting
// progress every poll interval. After CheckWaitTimeout the user may keep
// waiting, override, or return to review.
func (c *Controller) awaitNameCheck(ctx context.Context) (domain.NameCheckTask, waitDecision, error) {
	done := c.checks.Done(c.task)
	deadline := time.NewTimer(c.cfg.CheckWaitTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(c.cfg.PollInterval)
	defer tick.Stop()

	c.log.Info("waiting for name check", "task_id", string(c.task))
	for {
		select {
		case <-ctx.Done():
			return domain.NameCheckTask{}, waitBack, ctx.Err()
		case <-done:
			st := c.currentCheck()
			if st.Status == domain.TaskPending {
				done = c.checks.Done(c.task)
				continue
			}
			return st, waitResolved, nil
		case <-tick.C:
			st := c.checks.Status(c.task)
			elapsed := c.now().Sub(st.StartedAt).Round(time.Second)
			c.prompt.Notify(LevelInfo, fmt.Sprintf("Checking availability of %s... %s", st.SubmittedName, elapsed))
		case <-deadline.C:
			q := Question{Key: "namecheck.wait", Label: "The name check is taking longer than expected."}
			i, err := c.prompt.Select(ctx, q, waitOptions, 0)
			if err != nil {
				return domain.NameCheckTask{}, waitBack, err
			}
			switch i {
			case 1:
				c.log.Warn("user chose to confirm without a name check result", "task_id", string(c.task))
				return c.checks.Status(c.task), waitOverride, nil
			case 2:
				return domain.NameCheckTask{}, waitBack, nil
			}
			deadline.Reset(c.cfg.CheckWaitTimeout)
		}
	}
}

func (c *Controller) finish(st domain.NameCheckTask, override bool) Outcome {
	if st.Status == domain.TaskPending {
		c.cancelCheck()
	}
	out := Outcome{
		Kind:                Confirmed,
		SessionID:           c.cfg.SessionID,
		Draft:               c.draft.Clone(),
		NameCheck:           st,
		NameCheckOverridden: override,
	}
	c.log.Info("formation confirmed", "name", c.draft.LegalName(), "check_status", string(st.Status), "override", override)

	switch {
	case c.sessions == nil:
	case c.cfg.KeepConfirmed:
		out.SaveErr = c.save()
	default:
		if err := c.sessions.Delete(c.cfg.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			c.log.Warn("could not delete confirmed session", "error", err)
			out.SaveErr = err
		}
	}
	return out
}

func (c *Controller) abandon(cause error) Outcome {
	c.cancelCheck()
	c.log.Info("wizard abandoned", "step", c.step.String(), "reason", cause.Error())
	out := Outcome{
		Kind:      Abandoned,
		SessionID: c.cfg.SessionID,
		Draft:     c.draft.Clone(),
		SaveErr:   c.save(),
	}
	if out.SaveErr != nil {
		c.log.Warn("final save failed", "error", out.SaveErr)
	}
	return out
}

// checkpoint saves progress. A failure is reported once and the wizard
// carries on in memory.
func (c *Controller) checkpoint() {
	err := c.save()
	switch {
	case err != nil:
		c.log.Warn("checkpoint failed", "step", c.step.String(), "error", err)
		if !c.saveFailed {
			c.prompt.Notify(LevelWarn, "Progress may not be saved: "+err.Error())
		}
		c.saveFailed = true
	case c.saveFailed:
		c.saveFailed = false
		c.prompt.Notify(LevelInfo, "Progress is being saved again.")
	}
}

func (c *Controller) save() error {
	if c.sessions == nil || c.cfg.SessionID == "" {
		return nil
	}
	payload, err := c.Snapshot()
	if err != nil {
		return err
	}
	return c.sessions.Save(c.cfg.SessionID, payload, int(c.step))
}
