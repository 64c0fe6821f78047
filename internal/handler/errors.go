package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramseva/api/internal/service"
	"github.com/gramseva/api/internal/store"
	"github.com/gramseva/api/internal/validator"
)

// respondError maps service/store failures to HTTP responses. Validation
// failures carry the per-field violation list; everything unexpected is
// logged server-side and surfaced as a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *validator.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": verr.Violations,
		})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "the record was modified concurrently, retry the request"})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "a record with the same unique value already exists"})
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
