package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadResultInput struct {
	StudentID      uuid.UUID `json:"student_id" binding:"required"`
	SubjectID      uuid.UUID `json:"subject_id" binding:"required"`
	Term           string    `json:"term" binding:"required,oneof='First Term' 'Second Term' 'Third Term'"`
	Session        string    `json:"session" binding:"required"`
	FirstCA        *float64  `json:"first_ca" binding:"required,gte=0,lte=20"`
	SecondCA       *float64  `json:"second_ca" binding:"required,gte=0,lte=10"`
	Exam           *float64  `json:"exam" binding:"required,gte=0,lte=70"`
	TeacherComment string    `json:"teacher_comment,omitempty" binding:"omitempty,max=500"`
}

type BulkResultItem struct {
	StudentID      string   `json:"student_id" binding:"required"`
	FirstCA        *float64 `json:"first_ca" binding:"required,gte=0,lte=20"`
	SecondCA       *float64 `json:"second_ca" binding:"required,gte=0,lte=10"`
	Exam           *float64 `json:"exam" binding:"required,gte=0,lte=70"`
	TeacherComment string   `json:"teacher_comment,omitempty" binding:"omitempty,max=500"`
}

type BulkUploadInput struct {
	SubjectID uuid.UUID        `json:"subject_id" binding:"required"`
	Term      string           `json:"term" binding:"required,oneof='First Term' 'Second Term' 'Third Term'"`
	Session   string           `json:"session" binding:"required"`
	Results   []BulkResultItem `json:"results" binding:"required,min=1,dive"`
}

type BulkUploadFailure struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

type BulkUploadResponse struct {
	Uploaded int                 `json:"uploaded"`
	Failed   int                 `json:"failed"`
	Failures []BulkUploadFailure `json:"failures,omitempty"`
}

type SubmitResultsInput struct {
	ResultIDs []uuid.UUID `json:"result_ids" binding:"required,min=1"`
}

type ApproveResultsInput struct {
	ResultIDs []uuid.UUID `json:"result_ids" binding:"required,min=1"`
}

type RejectResultsInput struct {
	ResultIDs []uuid.UUID `json:"result_ids" binding:"required,min=1"`
	Reason    string      `json:"reason" binding:"required,max=500"`
}

type BatchStatusResponse struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

type ResultListQuery struct {
	Term      string `form:"term" binding:"omitempty,oneof='First Term' 'Second Term' 'Third Term'"`
	Session   string `form:"session"`
	Status    string `form:"status" binding:"omitempty,oneof=draft pending_approval approved rejected"`
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
}

type RosterEntry struct {
	UserID     uuid.UUID       `json:"user_id"`
	Name       string          `json:"name"`
	StudentID  string          `json:"student_id"`
	ClassLevel string          `json:"class_level"`
	Branch     string          `json:"branch"`
	Email      string          `json:"email"`
	HasResult  bool            `json:"has_result"`
	Result     *ResultResponse `json:"result,omitempty"`
}

type SubjectRosterResponse struct {
	SubjectID           uuid.UUID     `json:"subject_id"`
	SubjectName         string        `json:"subject_name"`
	SubjectCode         string        `json:"subject_code"`
	Term                string        `json:"term,omitempty"`
	Session             string        `json:"session,omitempty"`
	TotalStudents       int           `json:"total_students"`
	StudentsWithResults int           `json:"students_with_results"`
	Students            []RosterEntry `json:"students"`
}

type StudentResultsSummary struct {
	TotalScore   float64 `json:"total_score"`
	AverageScore float64 `json:"average_score"`
	MaxPossible  int     `json:"max_possible"`
}

type StudentResultsResponse struct {
	StudentUserID    uuid.UUID             `json:"student_user_id"`
	StudentName      string                `json:"student_name"`
	Term             string                `json:"term,omitempty"`
	Session          string                `json:"session,omitempty"`
	NumberOfSubjects int                   `json:"number_of_subjects"`
	Summary          StudentResultsSummary `json:"summary"`
	Results          []ResultResponse      `json:"results"`
}

type GradeDistribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
	E int `json:"E"`
	F int `json:"F"`
}

type ClassSubjectStats struct {
	TotalStudents          int               `json:"total_students"`
	StudentsWithResults    int               `json:"students_with_results"`
	StudentsWithoutResults int               `json:"students_without_results"`
	AverageScore           float64           `json:"average_score"`
	HighestScore           float64           `json:"highest_score"`
	LowestScore            float64           `json:"lowest_score"`
	GradeDistribution      GradeDistribution `json:"grade_distribution"`
}

type ClassSubjectResultsResponse struct {
	ClassLevel string            `json:"class_level"`
	Term       string            `json:"term"`
	Session    string            `json:"session"`
	Statistics ClassSubjectStats `json:"statistics"`
	Results    []ResultResponse  `json:"results"`
}

type PendingGroup struct {
	SubjectID   uuid.UUID        `json:"subject_id"`
	SubjectName string           `json:"subject_name"`
	TeacherID   uuid.UUID        `json:"teacher_id"`
	TeacherName string           `json:"teacher_name"`
	Term        string           `json:"term"`
	Session     string           `json:"session"`
	Count       int              `json:"count"`
	Results     []ResultResponse `json:"results"`
}

type PendingResultsResponse struct {
	TotalPending int            `json:"total_pending"`
	Groups       []PendingGroup `json:"groups"`
}

type ResultResponse struct {
	ID              uuid.UUID  `json:"id"`
	StudentID       uuid.UUID  `json:"student_id"`
	StudentName     string     `json:"student_name,omitempty"`
	SubjectID       uuid.UUID  `json:"subject_id"`
	SubjectName     string     `json:"subject_name,omitempty"`
	Term            string     `json:"term"`
	Session         string     `json:"session"`
	FirstCA         float64    `json:"first_ca"`
	SecondCA        float64    `json:"second_ca"`
	Exam            float64    `json:"exam"`
	Total           float64    `json:"total"`
	Grade           string     `json:"grade"`
	Remark          string     `json:"remark"`
	TeacherComment  string     `json:"teacher_comment,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	UploadedBy      string     `json:"uploaded_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
