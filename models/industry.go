package models

import (
	"time"

	"gorm.io/gorm"
)

// Industry is a named job category
type Industry struct {
	ID          string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Jobs []Job `gorm:"foreignKey:IndustryID" json:"jobs,omitempty"`
}

// Job is a role specification referenced by interviews
type Job struct {
	ID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title        string         `gorm:"not null;index" json:"title"`
	Description  string         `gorm:"type:text" json:"description,omitempty"`
	Requirements string         `gorm:"type:text" json:"requirements,omitempty"`
	Level        int            `gorm:"not null;check:level >= 1 AND level <= 10" json:"level"` // Difficulty 1-10
	IndustryID   string         `gorm:"type:uuid;not null;index" json:"industry_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Industry   Industry    `gorm:"foreignKey:IndustryID" json:"industry,omitempty"`
	Interviews []Interview `gorm:"foreignKey:JobID" json:"interviews,omitempty"`
}
