package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateReportCardInput struct {
	StudentID           uuid.UUID `json:"student_id" binding:"required"`
	Term                string    `json:"term" binding:"required,oneof='First Term' 'Second Term' 'Third Term'"`
	Session             string    `json:"session" binding:"required"`
	ClassTeacherComment string    `json:"class_teacher_comment,omitempty" binding:"omitempty,max=500"`
}

type ReviewDecisionInput struct {
	Action              string `json:"action" binding:"required,oneof=approve reject"`
	ProprietressComment string `json:"proprietress_comment,omitempty" binding:"omitempty,max=500"`
}

type ReportCardQuery struct {
	Term    string `form:"term" binding:"omitempty,oneof='First Term' 'Second Term' 'Third Term'"`
	Session string `form:"session"`
	Status  string `form:"status" binding:"omitempty,oneof=draft published"`
}

type ReviewListQuery struct {
	Term    string `form:"term" binding:"required,oneof='First Term' 'Second Term' 'Third Term'"`
	Session string `form:"session" binding:"required"`
}

type ReportCardRow struct {
	Subject  string  `json:"subject"`
	FirstCA  float64 `json:"first_ca"`
	SecondCA float64 `json:"second_ca"`
	Exam     float64 `json:"exam"`
	Total    float64 `json:"total"`
	Grade    string  `json:"grade"`
	Remark   string  `json:"remark"`
}

type ReportCardResponse struct {
	ID                  uuid.UUID       `json:"id"`
	StudentName         string          `json:"student_name"`
	StudentID           string          `json:"student_id"`
	ClassLevel          string          `json:"class_level"`
	Term                string          `json:"term"`
	Session             string          `json:"session"`
	Rows                []ReportCardRow `json:"results"`
	TotalScore          float64         `json:"total_score"`
	AverageScore        float64         `json:"average_score"`
	OverallGrade        string          `json:"overall_grade"`
	NumberOfSubjects    int             `json:"number_of_subjects"`
	ClassTeacherComment string          `json:"class_teacher_comment,omitempty"`
	ProprietressComment string          `json:"proprietress_comment,omitempty"`
	Status              string          `json:"status"`
	PDFURL              *string         `json:"pdf_url,omitempty"`
	PublishedAt         *time.Time      `json:"published_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}
