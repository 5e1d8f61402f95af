package models

import (
	"time"

	"gorm.io/gorm"
)

type InterviewStatus string

const (
	StatusScheduled InterviewStatus = "Scheduled"
	StatusOngoing   InterviewStatus = "Ongoing"
	StatusCompleted InterviewStatus = "Completed"
	StatusCancelled InterviewStatus = "Cancelled"
)

type InterviewDifficulty string

const (
	DifficultyBeginner     InterviewDifficulty = "Beginner"
	DifficultyIntermediate InterviewDifficulty = "Intermediate"
	DifficultyAdvanced     InterviewDifficulty = "Advanced"
)

// DefaultPersona is the display name used for the AI side of a conversation
const DefaultPersona = "iHR AI"

// Insights holds the growable strength/weakness lists accumulated over an
// interview. Repeats accumulate; entries are never de-duplicated.
type Insights struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Append merges another delta into the insights, preserving order
func (i *Insights) Append(delta Insights) {
	i.Strengths = append(i.Strengths, delta.Strengths...)
	i.Weaknesses = append(i.Weaknesses, delta.Weaknesses...)
}

// Interview is the aggregate root of a simulation session
type Interview struct {
	ID           string              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	HRPersona    string              `gorm:"column:hr_ai;default:'iHR AI'" json:"hr_ai"`
	UserID       string              `gorm:"type:uuid;not null;index" json:"user_id"`
	JobID        string              `gorm:"type:uuid;not null;index" json:"job_id"`
	Difficulty   InterviewDifficulty `gorm:"default:'Beginner'" json:"difficulty"`
	Status       InterviewStatus     `gorm:"not null;default:'Scheduled'" json:"status"`
	StartTime    time.Time           `gorm:"not null" json:"start_time"`
	EndTime      *time.Time          `json:"end_time,omitempty"`
	Duration     int                 `gorm:"default:1800" json:"duration"` // Duration in seconds
	CurrentScore float64             `gorm:"type:decimal(5,2);default:0" json:"current_score"`
	Insights     Insights            `gorm:"serializer:json" json:"insights"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	DeletedAt    gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Job        Job         `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Statements []Statement `gorm:"foreignKey:InterviewID" json:"statements,omitempty"`
}

// Finalized reports whether the interview has reached a terminal status.
// Completed and Cancelled interviews accept no further score or insight
// changes.
func (iv *Interview) Finalized() bool {
	return iv.Status == StatusCompleted || iv.Status == StatusCancelled
}
