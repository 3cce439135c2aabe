package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report-card lifecycle. A rejected card returns to draft with the
// reviewer stamped; published is terminal.
const (
	ReportCardStatusDraft     = "draft"
	ReportCardStatusPublished = "published"
)

// ReportCard aggregates a student's results for one term into a single
// reviewable document, unique per (student, term, session). It references
// Result rows but does not own them: deleting a Result does not resync the
// card, regeneration does.
type ReportCard struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_report_card_tuple" json:"student_id"`
	Term      string    `gorm:"size:20;not null;uniqueIndex:idx_report_card_tuple;index:idx_report_card_period" json:"term"`
	Session   string    `gorm:"size:9;not null;uniqueIndex:idx_report_card_tuple;index:idx_report_card_period" json:"session"`

	Results []Result `gorm:"many2many:report_card_results" json:"results,omitempty"`

	TotalScore       float64 `gorm:"default:0" json:"total_score"`
	AverageScore     float64 `gorm:"default:0" json:"average_score"`
	OverallGrade     string  `gorm:"size:1" json:"overall_grade"`
	NumberOfSubjects int     `gorm:"default:0" json:"number_of_subjects"`

	ClassTeacherComment string `gorm:"size:500" json:"class_teacher_comment,omitempty"`
	ProprietressComment string `gorm:"size:1000" json:"proprietress_comment,omitempty"`

	Status       string     `gorm:"size:20;not null;default:draft;index" json:"status"`
	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`

	PDFURL         *string    `gorm:"type:text" json:"pdf_url,omitempty"`
	PDFGeneratedAt *time.Time `json:"pdf_generated_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Student    *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID" json:"reviewed_by,omitempty"`
}

func (rc *ReportCard) BeforeCreate(tx *gorm.DB) error {
	if rc.ID == uuid.Nil {
		rc.ID = uuid.New()
	}
	return nil
}
