package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_ledger_http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lead_ledger_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	paymentsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_ledger_payments_applied_total",
		Help: "Payments that passed verification and credited an account.",
	})

	paymentsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_ledger_payments_duplicate_total",
		Help: "Payment submissions acknowledged as already applied.",
	})

	paymentsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_ledger_payments_rejected_total",
		Help: "Payment submissions rejected for an invalid signature.",
	})
)

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func CountPaymentApplied()   { paymentsApplied.Inc() }
func CountPaymentDuplicate() { paymentsDuplicate.Inc() }
func CountPaymentRejected()  { paymentsRejected.Inc() }
