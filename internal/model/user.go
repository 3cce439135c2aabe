package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin        = "admin"
	RoleTeacher      = "teacher"
	RoleStudent      = "student"
	RoleParent       = "parent"
	RoleProprietress = "proprietress"
)

// Class levels and curriculum branches.
const (
	BranchJunior   = "junior"
	BranchScience  = "science"
	BranchArts     = "arts"
	BranchCommerce = "commerce"
	BranchAll      = "all"
)

// IsAdminRole reports whether the role carries administrator privileges.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleProprietress
}

// User is the core identity record. Role-specific attributes live in the
// variant tables (StudentProfile, TeacherProfile, parent_children) rather
// than as mutually-exclusive nullable columns.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;index" json:"role"`
	IsBanned     bool      `gorm:"default:false" json:"is_banned"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	StudentProfile *StudentProfile `gorm:"constraint:OnDelete:CASCADE" json:"student_profile,omitempty"`
	TeacherProfile *TeacherProfile `gorm:"constraint:OnDelete:CASCADE" json:"teacher_profile,omitempty"`

	// Children holds a parent's linked students.
	Children []*User `gorm:"many2many:parent_children;joinForeignKey:ParentID;joinReferences:ChildID" json:"children,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// StudentProfile carries the student-only attribute set.
type StudentProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	StudentID      string    `gorm:"size:20;uniqueIndex;not null" json:"student_id"`
	ClassLevel     string    `gorm:"size:10;not null" json:"class_level"`
	Branch         string    `gorm:"size:20;not null;default:junior" json:"branch"`
	CurrentSession string    `gorm:"size:9" json:"current_session"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Subjects []Subject `gorm:"many2many:student_subjects;joinForeignKey:StudentUserID" json:"subjects,omitempty"`
}

// TeacherProfile carries the teacher-only attribute set.
type TeacherProfile struct {
	UserID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	SpecializationID  *uuid.UUID      `gorm:"type:uuid" json:"specialization_id,omitempty"`
	Specialization    *Specialization `gorm:"constraint:OnDelete:SET NULL" json:"specialization,omitempty"`
	Qualifications    string          `gorm:"size:500" json:"qualifications,omitempty"`
	YearsOfExperience int             `gorm:"default:0" json:"years_of_experience"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
}
