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

type ReportCardHandler struct {
	cardService service.ReportCardService
}

func NewReportCardHandler(cardService service.ReportCardService) *ReportCardHandler {
	return &ReportCardHandler{
		cardService: cardService,
	}
}

func (h *ReportCardHandler) Generate(c *gin.Context) {
	var input dto.GenerateReportCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	card, err := h.cardService.Generate(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "report card generated", "report_card": card})
}

func (h *ReportCardHandler) ForReview(c *gin.Context) {
	var query dto.ReviewListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	cards, err := h.cardService.ForReview(c.Request.Context(), repository.ReportCardFilter{
		Term:    query.Term,
		Session: query.Session,
		Status:  c.Query("status"),
	}, c.Query("class_level"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(cards), "report_cards": cards})
}

// Decide approves (publishes) or rejects a draft report card.
func (h *ReportCardHandler) Decide(c *gin.Context) {
	reviewerID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	cardID, err := uuid.Parse(c.Param("reportCardId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report card id"})
		return
	}

	var input dto.ReviewDecisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	card, err := h.cardService.Decide(c.Request.Context(), cardID, reviewerID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "report card rejected"
	if card.Status == "published" {
		message = "report card published"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "report_card": card})
}

func (h *ReportCardHandler) View(c *gin.Context) {
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
	term := c.Query("term")
	session := c.Query("session")
	if term == "" || session == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "term and session are required"})
		return
	}

	card, err := h.cardService.View(c.Request.Context(), requesterID, requesterRole, studentID, term, session)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report_card": card})
}
