package intake

import (
	"context"

	"github.com/parentalrights/complaint-portal-api/models"
)

// Wizard sequences a session through the fixed step order and hands a
// finished draft to the submission pipeline
type Wizard struct {
	Store    *Store
	Pipeline *Pipeline
}

// NewWizard creates a wizard over the given store and pipeline
func NewWizard(store *Store, pipeline *Pipeline) *Wizard {
	return &Wizard{Store: store, Pipeline: pipeline}
}

// Next advances the session one step if the current step's gate passes.
// A failed check leaves the step unchanged and carries the reason.
func (w *Wizard) Next(id string) (Step, Check, error) {
	var step Step
	var check Check
	err := w.Store.Do(id, func(sess *Session) error {
		check = CanAdvance(sess.Step, sess.Draft, sess.Identity.Email)
		if check.OK && sess.Step < LastStep {
			sess.Step++
		}
		step = sess.Step
		return nil
	})
	return step, check, err
}

// Back moves one step backward unconditionally, floored at the first step
func (w *Wizard) Back(id string) (Step, error) {
	var step Step
	err := w.Store.Do(id, func(sess *Session) error {
		if sess.Step > StepIdentity {
			sess.Step--
		}
		step = sess.Step
		return nil
	})
	return step, err
}

// Submit runs the pipeline for the session's draft. It is only permitted on
// the terminal step. On success the session resets to the first step with a
// cleared draft (identity fields re-prefilled); on failure the session is
// left exactly as it was so the user may retry.
func (w *Wizard) Submit(ctx context.Context, id string) (string, error) {
	var draft *Draft
	var step Step
	var ident models.Identity

	err := w.Store.Do(id, func(sess *Session) error {
		step = sess.Step
		draft = sess.Draft.Clone()
		ident = sess.Identity
		return nil
	})
	if err != nil {
		return "", err
	}
	if step != LastStep {
		return "", &ValidationError{Reason: "submission is only available from the final step"}
	}

	// The upload and create calls run outside the store lock; the snapshot
	// keeps concurrent field edits from tearing the submitted document.
	complaintID, err := w.Pipeline.Submit(ctx, draft, ident)
	if err != nil {
		return "", err
	}

	_ = w.Store.Do(id, func(sess *Session) error {
		d := NewDraft()
		d.FirstName = sess.Identity.FirstName
		d.LastName = sess.Identity.LastName
		d.Email = sess.Identity.Email
		sess.Draft = d
		sess.Step = StepIdentity
		return nil
	})
	return complaintID, nil
}
