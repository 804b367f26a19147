package api

import (
	"errors"
	"net/http"
	"strconv"

	"lead-ledger/internal/domain/pricing"
	reqdto "lead-ledger/internal/handler/dto/request"
	resdto "lead-ledger/internal/handler/dto/response"
	"lead-ledger/internal/handler/middleware"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	subscriptionCommands commands.SubscriptionCommands
	subscriptionQueries  queries.SubscriptionQueries
}

func NewSubscriptionHandler(subscriptionCommands commands.SubscriptionCommands, subscriptionQueries queries.SubscriptionQueries) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionCommands: subscriptionCommands,
		subscriptionQueries:  subscriptionQueries,
	}
}

// @Summary Purchase lead subscription
// @Description Buy a filtered lead pack with credits, guarded by price reconciliation and an idempotency key
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.PurchaseSubscriptionRequest true "Purchase request"
// @Success 201 {object} resdto.PurchaseResponse
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	dealerID, ok := middleware.GetDealerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.PurchaseSubscriptionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.subscriptionCommands.Purchase(c.Request.Context(), dealerID, commands.PurchaseParams{
		Filters:        req.Filters.ToDomain(),
		Quantity:       req.Quantity,
		ExpectedTotal:  req.ExpectedTotal,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		h.mapPurchaseError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromPurchaseResult(result))
}

// @Summary List subscriptions
// @Description Subscriptions of the authenticated dealer, newest first
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} resdto.SubscriptionResponse
// @Failure 401 {object} map[string]string
// @Router /subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	dealerID, ok := middleware.GetDealerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	views, err := h.subscriptionQueries.ListByDealer(c.Request.Context(), dealerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.SubscriptionResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromSubscriptionView(v)
	}
	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) mapPurchaseError(c *gin.Context, err error) {
	var (
		belowMin     *pricing.BelowMinimumError
		mismatch     *commands.PriceMismatchError
		insufficient *commands.InsufficientCreditsError
	)
	switch {
	case errors.As(err, &belowMin):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        belowMin.Error(),
			"min_quantity": belowMin.MinQuantity,
		})
	case errors.Is(err, pricing.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity must be positive",
		})
	case errors.As(err, &mismatch):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Price has changed, refresh your quote",
			"expected_total": mismatch.ExpectedTotal,
			"current_total":  mismatch.CurrentTotal,
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":    "Insufficient credits",
			"required": insufficient.Required,
			"balance":  insufficient.Balance,
		})
	case errors.Is(err, commands.ErrIdempotencyKeyInUse):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Idempotency key is already in use",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errors.New("Idempotency-Key header is required")
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
