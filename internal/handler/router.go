package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lead-ledger/internal/handler/api"
	"lead-ledger/internal/handler/middleware"
	"lead-ledger/internal/handler/webhook"
	"lead-ledger/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	billingHandler *api.BillingHandler,
	subscriptionHandler *api.SubscriptionHandler,
	leadHandler *api.LeadHandler,
	webhookHandler *webhook.RazorpayHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, billingHandler, subscriptionHandler, leadHandler, webhookHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.MetricsMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	billingHandler *api.BillingHandler,
	subscriptionHandler *api.SubscriptionHandler,
	leadHandler *api.LeadHandler,
	webhookHandler *webhook.RazorpayHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Gateway deliveries authenticate with the body HMAC, not a bearer token.
	engine.POST("/webhooks/razorpay", webhookHandler.Handle)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
				{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
			})
		}

		billing := apiGroup.Group("/billing")
		billing.Use(authMiddleware.RequireAuth())
		{
			addRoutes(billing, []route{
				{Method: http.MethodPost, Path: "/quote", Handler: billingHandler.Quote},
				{Method: http.MethodPost, Path: "/orders", Handler: billingHandler.CreateTopUpOrder},
				{Method: http.MethodPost, Path: "/verify", Handler: billingHandler.VerifyPayment},
				{Method: http.MethodGet, Path: "/balance", Handler: billingHandler.GetBalance},
				{Method: http.MethodGet, Path: "/payments", Handler: billingHandler.ListPayments},
			})
		}

		subscriptions := apiGroup.Group("/subscriptions")
		subscriptions.Use(authMiddleware.RequireAuth())
		{
			addRoutes(subscriptions, []route{
				{Method: http.MethodPost, Path: "", Handler: subscriptionHandler.Purchase},
				{Method: http.MethodGet, Path: "", Handler: subscriptionHandler.List},
			})
		}

		leads := apiGroup.Group("/leads")
		leads.Use(authMiddleware.RequireAuth())
		{
			addRoutes(leads, []route{
				{Method: http.MethodPost, Path: "/:id/unlock", Handler: leadHandler.Unlock},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
