package dto

import "github.com/google/uuid"

type CreateSubjectInput struct {
	Name        string   `json:"name" binding:"required,min=2,max=100"`
	Code        string   `json:"code" binding:"required,min=2,max=10"`
	ClassLevels []string `json:"class_levels" binding:"required,min=1,dive,oneof=JSS1 JSS2 JSS3 SS1 SS2 SS3"`
	Branch      string   `json:"branch" binding:"omitempty,oneof=junior science arts commerce all"`
	Type        string   `json:"type" binding:"omitempty,oneof=core elective"`
	Description string   `json:"description,omitempty" binding:"omitempty,max=500"`
}

type UpdateSubjectInput struct {
	Name        string   `json:"name" binding:"omitempty,min=2,max=100"`
	ClassLevels []string `json:"class_levels" binding:"omitempty,min=1,dive,oneof=JSS1 JSS2 JSS3 SS1 SS2 SS3"`
	Branch      string   `json:"branch" binding:"omitempty,oneof=junior science arts commerce all"`
	Type        string   `json:"type" binding:"omitempty,oneof=core elective"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=500"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type AssignTeacherInput struct {
	TeacherID uuid.UUID `json:"teacher_id" binding:"required"`
}

type AssignSubjectsInput struct {
	SubjectIDs []uuid.UUID `json:"subject_ids" binding:"required,min=1"`
}

type SubjectListQuery struct {
	Branch     string `form:"branch" binding:"omitempty,oneof=junior science arts commerce all"`
	ClassLevel string `form:"class_level" binding:"omitempty,oneof=JSS1 JSS2 JSS3 SS1 SS2 SS3"`
}
