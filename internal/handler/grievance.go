package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramseva/api/internal/service"
	"github.com/gramseva/api/internal/validator"
)

type GrievanceHandler struct {
	lifecycle *service.Lifecycle
}

func NewGrievanceHandler(lifecycle *service.Lifecycle) *GrievanceHandler {
	return &GrievanceHandler{lifecycle: lifecycle}
}

// CreateGrievanceRequest is the grievance payload plus the complainant's
// contact fields, which are split out before validation.
type CreateGrievanceRequest struct {
	validator.GrievanceInput
	FullName     string `json:"fullName"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
}

type AcceptGrievanceRequest struct {
	ResolutionTimeline int `json:"resolutionTimeline"`
}

type UpdateStatusRequest struct {
	Status             string   `json:"status" binding:"required"`
	ResolutionNotes    string   `json:"resolutionNotes"`
	ResolutionEvidence []string `json:"resolutionEvidence"`
}

// List returns all grievances
func (h *GrievanceHandler) List(c *gin.Context) {
	grievances, err := h.lifecycle.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grievances)
}

// ListAssignable returns the officer work queue (pending or in_progress)
func (h *GrievanceHandler) ListAssignable(c *gin.Context) {
	grievances, err := h.lifecycle.ListAssignable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grievances)
}

// Get returns a single grievance by id
func (h *GrievanceHandler) Get(c *gin.Context) {
	g, err := h.lifecycle.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// Create registers a new grievance
func (h *GrievanceHandler) Create(c *gin.Context) {
	var req CreateGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.FullName == "" || req.MobileNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fullName and mobileNumber are required"})
		return
	}

	g, err := h.lifecycle.Create(c.Request.Context(), &req.GrievanceInput, req.FullName, req.MobileNumber, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, g)
}

// Accept assigns the acting officer to a grievance with a resolution timeline
func (h *GrievanceHandler) Accept(c *gin.Context) {
	var req AcceptGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resolutionTimeline must be a positive integer"})
		return
	}

	officerID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	g, err := h.lifecycle.Accept(c.Request.Context(), c.Param("id"), officerID.(string), req.ResolutionTimeline)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, g)
}

// UpdateStatus moves a grievance through the lifecycle
func (h *GrievanceHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	g, err := h.lifecycle.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.ResolutionNotes, req.ResolutionEvidence)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, g)
}
