package handler

import (
	"net/http"

	"delaurel.com/schoolportal/internal/dto"
	"delaurel.com/schoolportal/internal/service"
	"delaurel.com/schoolportal/pkg/response"
	"delaurel.com/schoolportal/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SpecializationHandler struct {
	specService service.SpecializationService
}

func NewSpecializationHandler(specService service.SpecializationService) *SpecializationHandler {
	return &SpecializationHandler{
		specService: specService,
	}
}

func (h *SpecializationHandler) Create(c *gin.Context) {
	var input dto.CreateSpecializationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	spec, err := h.specService.Create(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "specialization created", "specialization": spec})
}

func (h *SpecializationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("specializationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid specialization id"})
		return
	}

	var input dto.UpdateSpecializationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	spec, err := h.specService.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "specialization updated", "specialization": spec})
}

func (h *SpecializationHandler) List(c *gin.Context) {
	specs, err := h.specService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(specs), "specializations": specs})
}

func (h *SpecializationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("specializationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid specialization id"})
		return
	}

	spec, err := h.specService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"specialization": spec})
}

func (h *SpecializationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("specializationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid specialization id"})
		return
	}

	if err := h.specService.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "specialization deleted"})
}
