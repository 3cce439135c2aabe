package handler

import (
	"net/http"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/service"
	"delaurel.com/schoolportal/pkg/response"
	"delaurel.com/schoolportal/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ParentHandler struct {
	parentService service.ParentService
}

func NewParentHandler(parentService service.ParentService) *ParentHandler {
	return &ParentHandler{
		parentService: parentService,
	}
}

// LinkChild attaches a student to a parent account. Admin only.
func (h *ParentHandler) LinkChild(c *gin.Context) {
	var input dto.LinkChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	parent, err := h.parentService.LinkChild(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "child linked", "parent": parent})
}

func (h *ParentHandler) UnlinkChild(c *gin.Context) {
	var input dto.LinkChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	parent, err := h.parentService.UnlinkChild(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "child unlinked", "parent": parent})
}

func (h *ParentHandler) MyChildren(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	children, err := h.parentService.MyChildren(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(children), "children": children})
}

func (h *ParentHandler) Profile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	parent, err := h.parentService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"parent": parent})
}

func (h *ParentHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateParentProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	parent, err := h.parentService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "parent": parent})
}
