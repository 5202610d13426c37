package intake

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parentalrights/complaint-portal-api/models"
)

// ValidationError is a missing-required-field failure. It is recovered
// locally: the caller shows the reason and the draft stays put.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Uploader stores a draft attachment and returns its durable URL
type Uploader interface {
	Upload(ctx context.Context, file *Attachment) (string, error)
}

// Creator persists one complaint document and returns its generated id
type Creator interface {
	Create(ctx context.Context, complaint models.Complaint) (string, error)
}

// Pipeline turns a finished draft into a stored complaint: at most one
// upload attempt, then one document create. Steps run strictly in order and
// are not idempotent; a retry after a create failure uploads the attachment
// again.
type Pipeline struct {
	Uploader Uploader
	Creator  Creator
	now      func() time.Time
}

// NewPipeline wires a pipeline to its two collaborators
func NewPipeline(u Uploader, c Creator) *Pipeline {
	return &Pipeline{Uploader: u, Creator: c, now: time.Now}
}

// Submit runs the two-stage submission for one draft. The required-field and
// consent checks are re-applied here regardless of what the wizard already
// validated. On any failure no complaint id is returned and the caller keeps
// the draft for retry.
func (p *Pipeline) Submit(ctx context.Context, d *Draft, ident models.Identity) (string, error) {
	email := d.Email
	if email == "" {
		email = ident.Email
	}
	if d.FirstName == "" || d.LastName == "" || email == "" {
		return "", &ValidationError{Reason: "first name, last name and email are required"}
	}
	if !d.Consent {
		return "", &ValidationError{Reason: "you must consent before submitting"}
	}

	fileURL := ""
	if d.File != nil {
		url, err := p.Uploader.Upload(ctx, d.File)
		if err != nil {
			return "", fmt.Errorf("failed to upload attachment: %w", err)
		}
		fileURL = url
	}

	complaint := models.Complaint{
		UserID:          ident.UserID,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           email,
		Phone:           d.Phone,
		Claimants:       d.Claimants,
		Defendants:      d.Defendants,
		Witnesses:       d.Witnesses,
		CaseNumbers:     d.CaseNumbers,
		LegalViolations: d.LegalViolations,
		Subject:         d.Subject,
		Description:     d.Description,
		FileURL:         fileURL,
		ConsentGiven:    d.Consent,
		SubmittedAt:     primitive.NewDateTimeFromTime(p.now()),
	}

	id, err := p.Creator.Create(ctx, complaint)
	if err != nil {
		return "", fmt.Errorf("failed to create complaint: %w", err)
	}
	return id, nil
}
