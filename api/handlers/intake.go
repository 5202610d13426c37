package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/api"
	"github.com/parentalrights/complaint-portal-api/config"
	"github.com/parentalrights/complaint-portal-api/intake"
)

// Intake hosts the complaint wizard: session lifecycle, field updates,
// step transitions and final submission
type Intake struct {
	Store  *intake.Store
	Wizard *intake.Wizard
}

// intakeStateResponse is the wizard state returned by every intake endpoint
type intakeStateResponse struct {
	SessionID string    `json:"sessionId"`
	Step      int       `json:"step"`
	Draft     draftView `json:"draft"`
}

type attachmentView struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	SizeBytes int    `json:"sizeBytes"`
}

type draftView struct {
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Claimants       []string        `json:"claimants"`
	Defendants      []string        `json:"defendants"`
	Witnesses       []string        `json:"witnesses"`
	CaseNumbers     []string        `json:"caseNumbers"`
	LegalViolations []string        `json:"legalViolations"`
	Subject         string          `json:"subject"`
	Description     string          `json:"description"`
	File            *attachmentView `json:"file"`
	Consent         bool            `json:"consent"`
}

// viewOf snapshots the session under the store lock. The caller marshals
// after the lock is released, so the draft's slices must be deep-copied here
// or a concurrent update would write the same backing arrays mid-marshal.
func viewOf(sess *intake.Session) intakeStateResponse {
	d := sess.Draft.Clone()
	view := draftView{
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		Phone:           d.Phone,
		Claimants:       d.Claimants,
		Defendants:      d.Defendants,
		Witnesses:       d.Witnesses,
		CaseNumbers:     d.CaseNumbers,
		LegalViolations: d.LegalViolations,
		Subject:         d.Subject,
		Description:     d.Description,
		Consent:         d.Consent,
	}
	if d.File != nil {
		view.File = &attachmentView{Name: d.File.Name, MediaType: d.File.MediaType, SizeBytes: len(d.File.Data)}
	}
	return intakeStateResponse{SessionID: sess.ID, Step: int(sess.Step), Draft: view}
}

// OpenIntakeHandler starts a new wizard session, pre-populating the draft
// from the authenticated identity
func (i Intake) OpenIntakeHandler(w http.ResponseWriter, r *http.Request) {
	ident, _ := api.IdentityFromContext(r.Context())
	sess := i.Store.Open(ident)

	zap.S().Infow("intake session opened",
		"sessionId", sess.ID,
		"userId", ident.UserID,
	)
	i.writeState(w, sess.ID, http.StatusCreated)
}

// GetIntakeHandler returns the current wizard state
func (i Intake) GetIntakeHandler(w http.ResponseWriter, r *http.Request) {
	i.writeState(w, mux.Vars(r)["session_id"], http.StatusOK)
}

// intakeUpdateRequest is one field-update command. op selects the mutation;
// the remaining fields are op-specific.
type intakeUpdateRequest struct {
	Op        string `json:"op"`
	Field     string `json:"field,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Value     string `json:"value,omitempty"`
	Given     bool   `json:"given,omitempty"`
	Name      string `json:"name,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Data      []byte `json:"data,omitempty"`
}

// UpdateIntakeHandler applies one field-update command to the draft
func (i Intake) UpdateIntakeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	var req intakeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	err := i.Store.Do(sessionID, func(sess *intake.Session) error {
		return applyUpdate(sess.Draft, req)
	})
	if errors.Is(err, intake.ErrSessionNotFound) {
		config.ErrorStatus("intake session not found", http.StatusNotFound, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to apply field update", http.StatusBadRequest, w, err)
		return
	}
	i.writeState(w, sessionID, http.StatusOK)
}

func applyUpdate(d *intake.Draft, req intakeUpdateRequest) error {
	switch req.Op {
	case "set":
		f, found := intake.ScalarFieldByName(req.Field)
		if !found {
			return fmt.Errorf("unknown scalar field %q", req.Field)
		}
		d.SetScalar(f, req.Value)
		return nil
	case "setEntry":
		f, found := intake.ListFieldByName(req.Field)
		if !found {
			return fmt.Errorf("unknown list field %q", req.Field)
		}
		if req.Index == nil {
			return fmt.Errorf("index is required for setEntry")
		}
		return d.SetListEntry(f, *req.Index, req.Value)
	case "append":
		f, found := intake.ListFieldByName(req.Field)
		if !found {
			return fmt.Errorf("unknown list field %q", req.Field)
		}
		d.AppendListEntry(f)
		return nil
	case "toggleViolation":
		if !intake.IsViolationOption(req.Value) {
			return fmt.Errorf("unknown violation option %q", req.Value)
		}
		d.ToggleViolation(req.Value)
		return nil
	case "attach":
		if req.Name == "" || len(req.Data) == 0 {
			return fmt.Errorf("attach requires a name and file data")
		}
		d.Attach(req.Name, req.MediaType, req.Data)
		return nil
	case "consent":
		d.SetConsent(req.Given)
		return nil
	default:
		return fmt.Errorf("unknown op %q", req.Op)
	}
}

// NextIntakeHandler advances the wizard one step when the current step's
// gate passes; otherwise the step is unchanged and the reason is returned
func (i Intake) NextIntakeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	step, check, err := i.Wizard.Next(sessionID)
	if errors.Is(err, intake.ErrSessionNotFound) {
		config.ErrorStatus("intake session not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(map[string]interface{}{
		"step":   int(step),
		"ok":     check.OK,
		"reason": check.Reason,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// BackIntakeHandler moves the wizard one step backward
func (i Intake) BackIntakeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	step, err := i.Wizard.Back(sessionID)
	if errors.Is(err, intake.ErrSessionNotFound) {
		config.ErrorStatus("intake session not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(map[string]int{"step": int(step)})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// SubmitIntakeHandler runs the submission pipeline from the terminal step.
// Validation failures keep the draft so the user can fix and retry.
func (i Intake) SubmitIntakeHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	id, err := i.Wizard.Submit(r.Context(), sessionID)
	if errors.Is(err, intake.ErrSessionNotFound) {
		config.ErrorStatus("intake session not found", http.StatusNotFound, w, err)
		return
	}
	var verr *intake.ValidationError
	if errors.As(err, &verr) {
		config.ErrorStatus(verr.Reason, http.StatusBadRequest, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("submission failed", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]interface{}{"success": true, "id": id})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (i Intake) writeState(w http.ResponseWriter, sessionID string, status int) {
	var state intakeStateResponse
	err := i.Store.Do(sessionID, func(sess *intake.Session) error {
		state = viewOf(sess)
		return nil
	})
	if err != nil {
		config.ErrorStatus("intake session not found", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(state)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(status)
	w.Write(b)
}
