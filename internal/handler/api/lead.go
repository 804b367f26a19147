package api

import (
	"errors"
	"net/http"

	resdto "lead-ledger/internal/handler/dto/response"
	"lead-ledger/internal/handler/middleware"
	"lead-ledger/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LeadHandler struct {
	unlockCommands commands.UnlockCommands
}

func NewLeadHandler(unlockCommands commands.UnlockCommands) *LeadHandler {
	return &LeadHandler{
		unlockCommands: unlockCommands,
	}
}

// @Summary Unlock lead contact
// @Description Spend credits to reveal a lead's buyer contact; repeat unlocks are free
// @Tags leads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lead ID"
// @Success 200 {object} resdto.UnlockResponse
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /leads/{id}/unlock [post]
func (h *LeadHandler) Unlock(c *gin.Context) {
	dealerID, ok := middleware.GetDealerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lead ID format",
		})
		return
	}

	result, err := h.unlockCommands.Unlock(c.Request.Context(), dealerID, leadID)
	if err != nil {
		var insufficient *commands.InsufficientCreditsError
		switch {
		case errors.Is(err, commands.ErrLeadNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lead not found",
			})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":    "Insufficient credits",
				"required": insufficient.Required,
				"balance":  insufficient.Balance,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromUnlockResult(result))
}
