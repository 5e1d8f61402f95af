package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olaniyigeorge/iHR/models"
)

type fakeReader struct {
	interview  *models.Interview
	job        *models.Job
	user       *models.User
	statements []models.Statement
	err        error
}

func (f *fakeReader) GetInterview(ctx context.Context, id string) (*models.Interview, error) {
	return f.interview, f.err
}

func (f *fakeReader) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return f.job, nil
}

func (f *fakeReader) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return f.user, nil
}

func (f *fakeReader) GetStatementsByInterview(ctx context.Context, interviewID string) ([]models.Statement, error) {
	return f.statements, nil
}

type fakeCache struct {
	entries map[string]*models.InterviewContext
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*models.InterviewContext)}
}

func (f *fakeCache) Get(ctx context.Context, interviewID string) (*models.InterviewContext, error) {
	return f.entries[interviewID], nil
}

func (f *fakeCache) Set(ctx context.Context, interviewID string, ictx *models.InterviewContext) {
	f.sets++
	f.entries[interviewID] = ictx
}

func testFixtures() *fakeReader {
	return &fakeReader{
		interview: &models.Interview{
			ID:        "iv-1",
			HRPersona: models.DefaultPersona,
			UserID:    "user-1",
			JobID:     "job-1",
			Status:    models.StatusOngoing,
			StartTime: time.Now().Add(-time.Minute),
			Duration:  1800,
		},
		job:  &models.Job{ID: "job-1", Title: "Backend Engineer"},
		user: &models.User{ID: "user-1", Username: "demo", Email: "demo@example.com"},
		statements: []models.Statement{
			{ID: "st-1", InterviewID: "iv-1", Speaker: "USER-user-1", Content: "Hello"},
			{ID: "st-2", InterviewID: "iv-1", Speaker: models.DefaultPersona, Content: "Welcome"},
		},
	}
}

func TestBuildAssemblesSnapshotFromStore(t *testing.T) {
	reader := testFixtures()
	cache := newFakeCache()
	b := NewContextBuilder(reader, cache)

	ictx, err := b.Build(context.Background(), "iv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ictx.ID != "iv-1" || ictx.Job.Title != "Backend Engineer" || ictx.User.Username != "demo" {
		t.Errorf("snapshot missing fields: %+v", ictx)
	}
	if len(ictx.Statements) != 2 || ictx.Statements[0].ID != "st-1" {
		t.Errorf("statements not carried in order: %+v", ictx.Statements)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}
}

func TestBuildReturnsCachedSnapshotVerbatim(t *testing.T) {
	reader := testFixtures()
	cache := newFakeCache()
	cached := &models.InterviewContext{ID: "iv-1", CurrentScore: 42}
	cache.entries["iv-1"] = cached

	b := NewContextBuilder(reader, cache)
	ictx, err := b.Build(context.Background(), "iv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ictx != cached {
		t.Error("expected the cached snapshot to be returned verbatim")
	}
	if cache.sets != 0 {
		t.Errorf("cache hit must not rewrite the entry, got %d writes", cache.sets)
	}
}

func TestBuildUnknownInterview(t *testing.T) {
	reader := testFixtures()
	reader.interview = nil
	b := NewContextBuilder(reader, newFakeCache())

	_, err := b.Build(context.Background(), "missing")
	if !errors.Is(err, ErrInterviewNotFound) {
		t.Errorf("expected ErrInterviewNotFound, got %v", err)
	}
}

func TestBuildPropagatesStoreFailure(t *testing.T) {
	reader := testFixtures()
	reader.err = errors.New("connection refused")
	b := NewContextBuilder(reader, newFakeCache())

	_, err := b.Build(context.Background(), "iv-1")
	if err == nil || errors.Is(err, ErrInterviewNotFound) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
