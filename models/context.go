package models

import "time"

// InterviewContext is a point-in-time snapshot of an interview together with
// its job, the public view of its user, and the chronologically ordered
// transcript. It is assembled only by the conversation context builder and
// treated as immutable by everything downstream; a cached copy may lag the
// database by up to the cache TTL.
type InterviewContext struct {
	ID           string              `json:"id"`
	HRPersona    string              `json:"hr_ai"`
	Status       InterviewStatus     `json:"status"`
	Difficulty   InterviewDifficulty `json:"difficulty"`
	UserID       string              `json:"user_id"`
	User         UserPublic          `json:"user"`
	JobID        string              `json:"job_id"`
	Job          Job                 `json:"job"`
	Duration     int                 `json:"duration"`
	StartTime    time.Time           `json:"start_time"`
	EndTime      *time.Time          `json:"end_time,omitempty"`
	CurrentScore float64             `json:"current_score"`
	Insights     Insights            `json:"insights"`
	Statements   []Statement         `json:"statements"`
}

// NewInterviewContext assembles a snapshot from its persisted parts.
// Statements must already be in chronological order.
func NewInterviewContext(iv *Interview, job *Job, user *User, statements []Statement) *InterviewContext {
	return &InterviewContext{
		ID:           iv.ID,
		HRPersona:    iv.HRPersona,
		Status:       iv.Status,
		Difficulty:   iv.Difficulty,
		UserID:       iv.UserID,
		User:         user.Public(),
		JobID:        iv.JobID,
		Job:          *job,
		Duration:     iv.Duration,
		StartTime:    iv.StartTime,
		EndTime:      iv.EndTime,
		CurrentScore: iv.CurrentScore,
		Insights:     iv.Insights,
		Statements:   statements,
	}
}
