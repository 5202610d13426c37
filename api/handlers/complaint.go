package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/api"
	"github.com/parentalrights/complaint-portal-api/config"
	"github.com/parentalrights/complaint-portal-api/databases"
	"github.com/parentalrights/complaint-portal-api/mailer"
	"github.com/parentalrights/complaint-portal-api/models"
)

// Complaint handles complaint document requests. Complaints are created
// exactly once per submission and never edited or deleted.
type Complaint struct {
	DB   databases.ComplaintDatabase
	Mail mailer.Mailer
	Feed *FeedHub
}

// CreateComplaintHandler accepts a complaint-shaped JSON body and creates
// one document in the content database, returning its generated identifier
func (c Complaint) CreateComplaintHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		config.ErrorStatus("method not allowed", http.StatusMethodNotAllowed, w, fmt.Errorf("got %s, want POST", r.Method))
		return
	}

	var complaint models.Complaint
	if err := json.NewDecoder(r.Body).Decode(&complaint); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	id, err := c.Create(r.Context(), complaint)
	if err != nil {
		config.ErrorStatus("failed to create complaint", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.ComplaintCreatedResponse{Success: true, ID: id})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// Create inserts one complaint document and returns its generated id. It
// also satisfies the submission pipeline's creator contract so the hosted
// wizard and the HTTP endpoint share one code path.
func (c Complaint) Create(ctx context.Context, complaint models.Complaint) (string, error) {
	complaint.ID = primitive.NewObjectID()
	if complaint.SubmittedAt == 0 {
		// a caller-supplied submittedAt is kept; the server only fills it
		// in when the body left it unset
		complaint.SubmittedAt = primitive.NewDateTimeFromTime(time.Now())
	}

	if _, err := c.DB.InsertOne(ctx, complaint); err != nil {
		return "", err
	}
	id := complaint.ID.Hex()

	zap.S().Infow("complaint created",
		"id", id,
		"userId", complaint.UserID,
	)

	if c.Feed != nil {
		c.Feed.Broadcast("complaint.submitted", map[string]string{"id": id})
	}
	if c.Mail != nil && complaint.Email != "" {
		go c.sendConfirmationEmail(complaint, id)
	}
	return id, nil
}

func (c Complaint) sendConfirmationEmail(complaint models.Complaint, id string) {
	name := fmt.Sprintf("%s %s", complaint.FirstName, complaint.LastName)
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your complaint %q and assigned it reference %s.\nOur team will review it and reach out if more information is needed.",
		complaint.FirstName, complaint.Subject, id,
	)
	if err := c.Mail.Send(complaint.Email, name, "We received your complaint", body); err != nil {
		zap.S().Errorw("failed to send confirmation email", "id", id, "error", err)
	}
}

// ComplaintByIDHandler returns a complaint by ID
func (c Complaint) ComplaintByIDHandler(w http.ResponseWriter, r *http.Request) {
	complaintID := mux.Vars(r)["complaint_id"]

	zap.S().Debugf("complaint_id: %v", complaintID)

	cID, err := primitive.ObjectIDFromHex(complaintID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get complaint by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ComplaintsByUserIDHandler returns all complaints filed by a user,
// newest first
func (c Complaint) ComplaintsByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	limit, page := pageParams(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(page * limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get complaints by user ID", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Complaint{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// pageParams reads limit/page query parameters, defaulting to 10 per page
// starting at page 0
func pageParams(r *http.Request) (limit int64, page int64) {
	l, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || l < 1 || l > 100 {
		l = 10
	}
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 0 {
		p = 0
	}
	return int64(l), int64(p)
}
