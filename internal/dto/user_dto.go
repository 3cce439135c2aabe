package dto

import (
	"github.com/google/uuid"
)

type StudentListQuery struct {
	ClassLevel string `form:"class_level" binding:"omitempty,oneof=JSS1 JSS2 JSS3 SS1 SS2 SS3"`
	Branch     string `form:"branch" binding:"omitempty,oneof=junior science arts commerce"`
}

type StudentSearchQuery struct {
	Query string `form:"q" binding:"required,min=1"`
	Limit int64  `form:"limit" binding:"omitempty,gte=1,lte=50"`
}

type UpdateTeacherProfileInput struct {
	Name              string     `json:"name" binding:"omitempty,min=2,max=100"`
	SpecializationID  *uuid.UUID `json:"specialization_id,omitempty"`
	Qualifications    *string    `json:"qualifications,omitempty" binding:"omitempty,max=500"`
	YearsOfExperience *int       `json:"years_of_experience,omitempty" binding:"omitempty,gte=0"`
}

type UpdateParentProfileInput struct {
	Name string `json:"name" binding:"omitempty,min=2,max=100"`
}

type LinkChildInput struct {
	ParentID  uuid.UUID `json:"parent_id" binding:"required"`
	StudentID uuid.UUID `json:"student_id" binding:"required"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type TeacherStatsResponse struct {
	SubjectsTaught  int   `json:"subjects_taught"`
	TotalStudents   int64 `json:"total_students"`
	ResultsUploaded int64 `json:"results_uploaded"`
}

type SubjectWithStudentCount struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	ClassLevels  []string  `json:"class_levels"`
	Branch       string    `json:"branch"`
	Type         string    `json:"type"`
	StudentCount int64     `json:"student_count"`
}

type NotificationListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,gte=1,lte=100"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}
