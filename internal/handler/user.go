package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramseva/api/internal/service"
	"github.com/gramseva/api/internal/validator"
)

type UserHandler struct {
	lifecycle *service.Lifecycle
}

func NewUserHandler(lifecycle *service.Lifecycle) *UserHandler {
	return &UserHandler{lifecycle: lifecycle}
}

// Create registers a new user. The password is hashed before storage and
// the hash is never serialized back out.
func (h *UserHandler) Create(c *gin.Context) {
	var input validator.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.lifecycle.RegisterUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
