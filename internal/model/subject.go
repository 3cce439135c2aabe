package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubjectTypeCore     = "core"
	SubjectTypeElective = "elective"
)

// Subject is a course offered by the school. ClassLevels lists every class
// the subject is offered to; Branch restricts senior-class enrollment
// ("all" places no restriction).
type Subject struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Code        string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	ClassLevels []string  `gorm:"serializer:json;not null" json:"class_levels"`
	Branch      string    `gorm:"size:20;not null;default:all" json:"branch"`
	Type        string    `gorm:"size:20;not null;default:core" json:"type"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Teachers []User `gorm:"many2many:subject_teachers" json:"teachers,omitempty"`
}

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// OffersClassLevel reports whether the subject is offered to the class.
func (s *Subject) OffersClassLevel(classLevel string) bool {
	for _, cl := range s.ClassLevels {
		if cl == classLevel {
			return true
		}
	}
	return false
}

// MatchesBranch reports whether a student in the given branch may take the
// subject. Subjects marked "all" match every branch.
func (s *Subject) MatchesBranch(branch string) bool {
	return s.Branch == BranchAll || s.Branch == branch
}

// Specialization is a teacher subject-area grouping maintained by admins.
type Specialization struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category    string    `gorm:"size:50;not null;index" json:"category"`
	Description string    `gorm:"size:200" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Specialization) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
