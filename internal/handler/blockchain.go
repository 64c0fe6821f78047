package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gramseva/api/internal/service"
)

type BlockchainHandler struct {
	lifecycle *service.Lifecycle
}

func NewBlockchainHandler(lifecycle *service.Lifecycle) *BlockchainHandler {
	return &BlockchainHandler{lifecycle: lifecycle}
}

// ListByGrievance returns the append-only ledger entries for a grievance
func (h *BlockchainHandler) ListByGrievance(c *gin.Context) {
	records, err := h.lifecycle.ListBlockchainRecordsFor(c.Request.Context(), c.Param("grievanceId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
