// Package scheduler runs the portal's periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/databases"
	"github.com/parentalrights/complaint-portal-api/intake"
	"github.com/parentalrights/complaint-portal-api/mailer"
)

// Scheduler handles periodic background jobs for the complaint portal
type Scheduler struct {
	cron       *cron.Cron
	Sessions   *intake.Store
	CDB        databases.ComplaintDatabase
	Mail       mailer.Mailer
	AdminEmail string
	SessionTTL time.Duration
}

// NewScheduler creates a new scheduler instance
func NewScheduler(sessions *intake.Store, cDB databases.ComplaintDatabase, m mailer.Mailer, adminEmail string, sessionTTL time.Duration) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Sessions:   sessions,
		CDB:        cDB,
		Mail:       m,
		AdminEmail: adminEmail,
		SessionTTL: sessionTTL,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Expire abandoned intake sessions every 15 minutes
	_, err := s.cron.AddFunc("*/15 * * * *", s.pruneIntakeSessions)
	if err != nil {
		zap.S().Errorw("failed to register session prune job", "error", err)
	}

	// Send the admin a complaint volume digest Mondays at 8 AM UTC
	_, err = s.cron.AddFunc("0 8 * * 1", s.sendWeeklyDigest)
	if err != nil {
		zap.S().Errorw("failed to register weekly digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Complaint portal scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Complaint portal scheduler stopped")
}

// pruneIntakeSessions drops wizard sessions idle past the configured TTL
func (s *Scheduler) pruneIntakeSessions() {
	removed := s.Sessions.Prune(s.SessionTTL)
	if removed > 0 {
		zap.S().Infow("pruned idle intake sessions", "removed", removed, "remaining", s.Sessions.Len())
	}
}

// sendWeeklyDigest emails the admin the count of complaints submitted over the
// last seven days
func (s *Scheduler) sendWeeklyDigest() {
	if s.AdminEmail == "" {
		zap.S().Debug("no admin email configured, skipping weekly digest")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	filter := bson.M{
		"submittedAt": bson.M{"$gte": primitive.NewDateTimeFromTime(weekAgo)},
	}
	count, err := s.CDB.CountDocuments(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to count complaints for weekly digest", "error", err)
		return
	}

	body := fmt.Sprintf(
		"Weekly intake summary\n\nComplaints submitted in the last 7 days: %d\n\nLog in to the portal dashboard to review new submissions.",
		count,
	)
	err = s.Mail.Send(s.AdminEmail, "Portal Admin", "Weekly complaint digest", body)
	if err != nil {
		zap.S().Errorw("failed to send weekly digest", "error", err)
		return
	}
	zap.S().Infow("weekly digest sent", "complaints", count)
}
