package api

import (
	"errors"
	"net/http"
	"strconv"

	"lead-ledger/internal/domain/pricing"
	"lead-ledger/internal/infra/gateway"
	reqdto "lead-ledger/internal/handler/dto/request"
	resdto "lead-ledger/internal/handler/dto/response"
	"lead-ledger/internal/handler/middleware"
	"lead-ledger/internal/usecase/commands"
	"lead-ledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	creditCommands commands.CreditCommands
	billingQueries queries.BillingQueries
}

func NewBillingHandler(creditCommands commands.CreditCommands, billingQueries queries.BillingQueries) *BillingHandler {
	return &BillingHandler{
		creditCommands: creditCommands,
		billingQueries: billingQueries,
	}
}

// @Summary Quote a lead purchase
// @Description Price a quantity of leads under optional filters without committing
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.QuoteRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Router /billing/quote [post]
func (h *BillingHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	breakdown, err := h.billingQueries.Quote(req.Filters.ToDomain(), req.Quantity)
	if err != nil {
		h.mapPricingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBreakdown(breakdown))
}

// @Summary Create credit top-up order
// @Description Open a payment gateway order for a credit top-up
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.TopUpOrderRequest true "Top-up request"
// @Success 201 {object} resdto.TopUpOrderResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /billing/orders [post]
func (h *BillingHandler) CreateTopUpOrder(c *gin.Context) {
	dealerID, ok := middleware.GetDealerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.TopUpOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.creditCommands.CreateTopUpOrder(c.Request.Context(), dealerID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrBelowMinimumPurchase):
			h.mapPricingError(c, err)
		case errors.Is(err, pricing.ErrInvalidQuantity):
			h.mapPricingError(c, err)
		case errors.Is(err, gateway.ErrPaymentSystemUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Payment system is temporarily unavailable, please try again later",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromTopUpOrderResult(result))
}

// @Summary Verify payment and apply credits
// @Description Verify the checkout callback signature and credit the account exactly once
// @Tags billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VerifyPaymentRequest true "Checkout callback payload"
// @Success 200 {object} resdto.PaymentAppliedResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /billing/verify [post]
func (h *BillingHandler) VerifyPayment(c *gin.Context) {
	var req reqdto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.creditCommands.ApplyPayment(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrInvalidSignature):
			middleware.CountPaymentRejected()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Payment signature verification failed",
			})
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, commands.ErrLedgerApplyFailed):
			// The payment went through; only the crediting failed. Never
			// tell the dealer the payment itself failed.
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":    "Payment received but credits could not be applied yet, contact support with your order id",
				"order_id": req.OrderID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	if result.AlreadyApplied {
		middleware.CountPaymentDuplicate()
	} else {
		middleware.CountPaymentApplied()
	}
	c.JSON(http.StatusOK, resdto.FromApplyPaymentResult(result))
}

// @Summary Get credit balance
// @Description Current credit balance of the authenticated dealer
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BalanceResponse
// @Failure 404 {object} map[string]string
// @Router /billing/balance [get]
func (h *BillingHandler) GetBalance(c *gin.Context) {
	dealerID, ok := middleware.GetDealerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.billingQueries.GetBalance(c.Request.Context(), dealerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Dealer account not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromBalanceView(view))
}

// @Summary List payments
// @Description Verified top-up payments of the authenticated dealer, newest first
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows to return"
// @Success 200 {array} resdto.PaymentRecordResponse
// @Failure 401 {object} map[string]string
// @Router /billing/payments [get]
func (h *BillingHandler) ListPayments(c *gin.Context) {
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

	views, err := h.billingQueries.ListPayments(c.Request.Context(), dealerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.PaymentRecordResponse, len(views))
	for i, v := range views {
		response[i] = resdto.FromPaymentView(v)
	}
	c.JSON(http.StatusOK, response)
}

func (h *BillingHandler) mapPricingError(c *gin.Context, err error) {
	var belowMin *pricing.BelowMinimumError
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
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
