package flow

import (
	"encoding/json"
	"fmt"

	"incorporator/internal/domain"
	"incorporator/internal/util/memzero"
)

const snapshotVersion = 1

// snapshot is the plaintext session payload.
type snapshot struct {
	V          int                   `json:"v"`
	Step       Step                  `json:"step"`
	CheckArmed bool                  `json:"check_armed"`
	Draft      domain.FormationDraft `json:"draft"`
}

// Snapshot serializes the draft and position for a session payload. Name
// check results are not persisted; a resumed wizard checks again.
func (c *Controller) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{
		V:          snapshotVersion,
		Step:       c.step,
		CheckArmed: c.checkArmed,
		Draft:      c.draft,
	})
}

// ResumeFrom opens rec and returns a controller positioned at the step the
// session was saved at. If the saved draft had reached the name check, a
// fresh check is submitted for its current name.
func ResumeFrom(rec domain.SessionRecord, opener Opener, cfg Config, deps Deps) (*Controller, error) {
	payload, err := opener.Open(rec)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(payload)

	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, &domain.DecryptionAuthError{SessionID: rec.ID, Reason: domain.DecryptMalformed, Err: err}
	}
	if snap.V != snapshotVersion {
		return nil, &domain.DecryptionAuthError{
			SessionID: rec.ID,
			Reason:    domain.DecryptMalformed,
			Err:       fmt.Errorf("unsupported session payload version %d", snap.V),
		}
	}

	cfg.SessionID = rec.ID
	c := New(cfg, deps)
	c.draft = snap.Draft
	c.checkArmed = snap.CheckArmed
	c.step = resumeStep(snap.Step, &c.draft)
	if rec.StepIndex != int(snap.Step) {
		c.log.Warn("session step index disagrees with payload", "record", rec.StepIndex, "payload", int(snap.Step))
	}
	c.log.Info("session resumed", "step", c.step.String(), "check_armed", c.checkArmed)
	c.ensureNameCheck()
	return c, nil
}

// resumeStep re-enters at the saved step when it still applies, otherwise
// at the first unfilled step.
func resumeStep(saved Step, d *domain.FormationDraft) Step {
	next := NextStep(d)
	switch {
	case !saved.Valid() || !Applies(saved, d):
		return next
	case saved == StepReviewAndConfirm && next != StepReviewAndConfirm:
		return next
	default:
		return saved
	}
}
