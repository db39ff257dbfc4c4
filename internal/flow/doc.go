// Package flow drives the company formation wizard.
//
// A Controller walks a fixed sequence of steps, each owning one field of the
// domain.FormationDraft. The next step is always the first applicable step
// whose field is unfilled, so editing a field from the review screen
// re-collects only that field (and any dependents an answer invalidated)
// before returning to review.
//
// The name availability check runs in the background through a
// domain.NameCheckCoordinator once the registered agent step is reached. The
// controller is the only reader of its results and applies them on its own
// goroutine, so a stale check can never overwrite the draft.
//
// Progress is checkpointed after every completed step through a Saver.
package flow
