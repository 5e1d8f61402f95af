package models

import (
	"time"

	"gorm.io/gorm"
)

// Statement is one utterance in an interview's transcript. Statements are
// append-only; a reply link may point at an earlier statement, never at
// itself or a not-yet-created one.
type Statement struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	InterviewID string         `gorm:"type:uuid;not null;index" json:"interview_id"`
	Speaker     string         `gorm:"not null" json:"speaker"` // "USER-{user_id}" or the AI persona name
	Content     string         `gorm:"type:text;not null" json:"content"`
	IsQuestion  bool           `gorm:"default:false" json:"is_question"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	RepliesToID *string        `gorm:"type:uuid" json:"replies_to_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Interview Interview  `gorm:"foreignKey:InterviewID" json:"-"`
	RepliesTo *Statement `gorm:"foreignKey:RepliesToID" json:"replies_to,omitempty"`
}
