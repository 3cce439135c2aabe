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

type SubjectHandler struct {
	subjectService service.SubjectService
}

func NewSubjectHandler(subjectService service.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
	}
}

func (h *SubjectHandler) Create(c *gin.Context) {
	var input dto.CreateSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	subject, err := h.subjectService.CreateSubject(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "subject created", "subject": subject})
}

func (h *SubjectHandler) Update(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	var input dto.UpdateSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	subject, err := h.subjectService.UpdateSubject(c.Request.Context(), subjectID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subject updated", "subject": subject})
}

func (h *SubjectHandler) List(c *gin.Context) {
	var query dto.SubjectListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	subjects, err := h.subjectService.ListSubjects(c.Request.Context(), repository.SubjectFilter{
		Branch:     query.Branch,
		ClassLevel: query.ClassLevel,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(subjects), "subjects": subjects})
}

func (h *SubjectHandler) Get(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	subject, err := h.subjectService.GetSubject(c.Request.Context(), subjectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subject": subject})
}

// Available lists the subjects the signed-in student can be assigned.
func (h *SubjectHandler) Available(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	subjects, err := h.subjectService.AvailableSubjects(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(subjects), "subjects": subjects})
}

func (h *SubjectHandler) AssignTeacher(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("subjectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	var input dto.AssignTeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	alreadyAssigned, err := h.subjectService.AssignTeacher(c.Request.Context(), subjectID, input.TeacherID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "teacher assigned to subject"
	if alreadyAssigned {
		message = "teacher is already assigned to this subject"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// AssignToStudent replaces a student's subject list in one shot.
func (h *SubjectHandler) AssignToStudent(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	var input dto.AssignSubjectsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	student, err := h.subjectService.AssignSubjectsToStudent(c.Request.Context(), studentID, input.SubjectIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subjects assigned", "student": student})
}
