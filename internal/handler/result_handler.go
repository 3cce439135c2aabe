package handler

import (
	"net/http"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/repository"
	"delaurel.com/schoolportal/internal/service"
	"delaurel.com/schoolportal/pkg/response"
	"delaurel.com/schoolportal/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ResultHandler struct {
	resultService service.ResultService
}

func NewResultHandler(resultService service.ResultService) *ResultHandler {
	return &ResultHandler{
		resultService: resultService,
	}
}

// Upload creates or updates a single result row.
func (h *ResultHandler) Upload(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UploadResultInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, created, err := h.resultService.UploadResult(c.Request.Context(), teacherID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "result uploaded", "result": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "result updated", "result": result})
}

func (h *ResultHandler) BulkUpload(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.BulkUploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.resultService.BulkUpload(c.Request.Context(), teacherID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MyStudents returns the roster for one of the teacher's subjects,
// with results attached when term and session are given.
func (h *ResultHandler) MyStudents(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	subjectID, err := uuid.Parse(c.Query("subject_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id is required"})
		return
	}

	roster, err := h.resultService.SubjectRoster(c.Request.Context(), teacherID, subjectID, c.Query("term"), c.Query("session"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

func (h *ResultHandler) StudentResults(c *gin.Context) {
	requesterID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	requesterRole, err := response.GetUserRole(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	studentID, err := uuid.Parse(c.Query("student_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_id is required"})
		return
	}

	resp, err := h.resultService.StudentResults(c.Request.Context(), requesterID, requesterRole, studentID, repository.ResultFilter{
		Term:    c.Query("term"),
		Session: c.Query("session"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ResultHandler) ClassResults(c *gin.Context) {
	classLevel := c.Query("class_level")
	term := c.Query("term")
	session := c.Query("session")
	subjectID, err := uuid.Parse(c.Query("subject_id"))
	if classLevel == "" || term == "" || session == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_level, subject_id, term and session are required"})
		return
	}

	resp, err := h.resultService.ClassSubjectResults(c.Request.Context(), classLevel, subjectID, term, session)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ResultHandler) Delete(c *gin.Context) {
	requesterID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	requesterRole, err := response.GetUserRole(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	resultID, err := uuid.Parse(c.Param("resultId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result id"})
		return
	}

	if err := h.resultService.DeleteResult(c.Request.Context(), requesterID, requesterRole, resultID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "result deleted"})
}

func (h *ResultHandler) SubmitForApproval(c *gin.Context) {
	teacherID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.SubmitResultsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	count, err := h.resultService.SubmitForApproval(c.Request.Context(), teacherID, input.ResultIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "results submitted for approval", "status": dto.BatchStatusResponse{
		Updated: int(count),
		Skipped: len(input.ResultIDs) - int(count),
		Total:   len(input.ResultIDs),
	}})
}

func (h *ResultHandler) Pending(c *gin.Context) {
	resp, err := h.resultService.PendingResults(c.Request.Context(), c.Query("term"), c.Query("session"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ResultHandler) Approve(c *gin.Context) {
	approverID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.ApproveResultsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	count, err := h.resultService.ApproveResults(c.Request.Context(), approverID, input.ResultIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "results approved", "status": dto.BatchStatusResponse{
		Updated: int(count),
		Skipped: len(input.ResultIDs) - int(count),
		Total:   len(input.ResultIDs),
	}})
}

func (h *ResultHandler) Reject(c *gin.Context) {
	reviewerID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.RejectResultsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	count, err := h.resultService.RejectResults(c.Request.Context(), reviewerID, input.ResultIDs, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "results rejected and teacher notified", "status": dto.BatchStatusResponse{
		Updated: int(count),
		Skipped: len(input.ResultIDs) - int(count),
		Total:   len(input.ResultIDs),
	}})
}
