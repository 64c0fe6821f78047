package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramseva/api/internal/service"
	"github.com/gramseva/api/internal/validator"
)

type VerificationHandler struct {
	lifecycle *service.Lifecycle
}

func NewVerificationHandler(lifecycle *service.Lifecycle) *VerificationHandler {
	return &VerificationHandler{lifecycle: lifecycle}
}

// Create records a community verification for a resolved grievance
func (h *VerificationHandler) Create(c *gin.Context) {
	var input validator.VerificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	verifierID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	v, err := h.lifecycle.RecordVerification(c.Request.Context(), &input, verifierID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, v)
}

// ListByGrievance returns all verifications recorded for a grievance
func (h *VerificationHandler) ListByGrievance(c *gin.Context) {
	verifications, err := h.lifecycle.ListVerificationsFor(c.Request.Context(), c.Param("grievanceId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verifications)
}
