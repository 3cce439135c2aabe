package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result approval lifecycle.
const (
	ResultStatusDraft    = "draft"
	ResultStatusPending  = "pending_approval"
	ResultStatusApproved = "approved"
	ResultStatusRejected = "rejected"
)

// Academic terms.
const (
	TermFirst  = "First Term"
	TermSecond = "Second Term"
	TermThird  = "Third Term"
)

// Result is one row of the result ledger, unique per
// (student, subject, term, session). Total, Grade and Remark are derived
// from the raw scores on every write; they are never edited directly.
type Result struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_tuple;index" json:"student_id"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_result_tuple" json:"subject_id"`
	Term      string    `gorm:"size:20;not null;uniqueIndex:idx_result_tuple;index:idx_result_period" json:"term"`
	Session   string    `gorm:"size:9;not null;uniqueIndex:idx_result_tuple;index:idx_result_period" json:"session"`

	FirstCA  float64 `gorm:"not null" json:"first_ca"`
	SecondCA float64 `gorm:"not null" json:"second_ca"`
	Exam     float64 `gorm:"not null" json:"exam"`

	Total  float64 `gorm:"not null" json:"total"`
	Grade  string  `gorm:"size:1;not null" json:"grade"`
	Remark string  `gorm:"size:20;not null" json:"remark"`

	TeacherComment  string `gorm:"size:500" json:"teacher_comment,omitempty"`
	Status          string `gorm:"size:20;not null;default:draft;index" json:"status"`
	RejectionReason string `gorm:"size:500" json:"rejection_reason,omitempty"`

	UploadedByID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"uploaded_by_id"`
	LastEditedByID *uuid.UUID `gorm:"type:uuid" json:"last_edited_by_id,omitempty"`
	LastEditedAt   *time.Time `json:"last_edited_at,omitempty"`
	ApprovedByID   *uuid.UUID `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Student      *User    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Subject      *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	UploadedBy   *User    `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	LastEditedBy *User    `gorm:"foreignKey:LastEditedByID" json:"last_edited_by,omitempty"`
}

func (r *Result) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
