package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olaniyigeorge/iHR/models"
)

var ErrInterviewNotFound = errors.New("interview not found")

// InterviewReader is the slice of the store the builder needs to assemble a
// context snapshot
type InterviewReader interface {
	GetInterview(ctx context.Context, id string) (*models.Interview, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetStatementsByInterview(ctx context.Context, interviewID string) ([]models.Statement, error)
}

// SnapshotCache caches assembled contexts. Get misses return (nil, nil);
// Set never fails.
type SnapshotCache interface {
	Get(ctx context.Context, interviewID string) (*models.InterviewContext, error)
	Set(ctx context.Context, interviewID string, ictx *models.InterviewContext)
}

// ContextBuilder materializes interview context snapshots, consulting the
// cache before the store. A cache hit is returned verbatim; a miss rebuilds
// from the store and refreshes the cache.
type ContextBuilder struct {
	store InterviewReader
	cache SnapshotCache
}

func NewContextBuilder(store InterviewReader, cache SnapshotCache) *ContextBuilder {
	return &ContextBuilder{store: store, cache: cache}
}

// Build returns the context for an interview. ErrInterviewNotFound is
// reported when the interview does not exist; cache failures never surface.
func (b *ContextBuilder) Build(ctx context.Context, interviewID string) (*models.InterviewContext, error) {
	if cached, err := b.cache.Get(ctx, interviewID); err == nil && cached != nil {
		return cached, nil
	}

	interview, err := b.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}

	job, err := b.store.GetJob(ctx, interview.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("job %s not found for interview %s", interview.JobID, interviewID)
	}

	user, err := b.store.GetUserByID(ctx, interview.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s not found for interview %s", interview.UserID, interviewID)
	}

	statements, err := b.store.GetStatementsByInterview(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load statements: %w", err)
	}

	ictx := models.NewInterviewContext(interview, job, user, statements)
	b.cache.Set(ctx, interviewID, ictx)

	slog.Debug("Interview context built", "interview_id", interviewID, "statements", len(statements))
	return ictx, nil
}
