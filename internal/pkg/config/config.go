package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   gateway credentials, etc.), security settings
// - default: Values common across all environments (timeouts, rates, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Razorpay RazorpayConfig
	Billing  BillingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5*60*60 + 30*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// RazorpayConfig holds the gateway credentials. KeySecret signs payment
// callbacks; WebhookSecret signs asynchronous webhook bodies. They are
// distinct secrets on the Razorpay side.
type RazorpayConfig struct {
	KeyID         string        `envconfig:"RAZORPAY_KEY_ID" required:"true"`
	KeySecret     string        `envconfig:"RAZORPAY_KEY_SECRET" required:"true"`
	WebhookSecret string        `envconfig:"RAZORPAY_WEBHOOK_SECRET" required:"true"`
	BaseURL       string        `envconfig:"RAZORPAY_BASE_URL" default:"https://api.razorpay.com"`
	Timeout       time.Duration `envconfig:"RAZORPAY_TIMEOUT" default:"10s"`
}

// BillingConfig is owned by ops; the engine reads it and never writes it.
// LeadUnlockPrice is the per-lead base price in whole rupees.
// UnlockCostCredits is the credit cost of revealing one lead's contact.
type BillingConfig struct {
	LeadUnlockPrice        int64 `envconfig:"BILLING_LEAD_UNLOCK_PRICE" default:"250"`
	MinLeadsPurchase       int64 `envconfig:"BILLING_MIN_LEADS_PURCHASE" default:"100"`
	GSTRatePercent         int64 `envconfig:"BILLING_GST_RATE_PERCENT" default:"18"`
	FilterSurchargePercent int64 `envconfig:"BILLING_FILTER_SURCHARGE_PERCENT" default:"25"`
	UnlockCostCredits      int64 `envconfig:"BILLING_UNLOCK_COST_CREDITS" default:"1"`
	SignupBonusCredits     int64 `envconfig:"BILLING_SIGNUP_BONUS_CREDITS" default:"500"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Razorpay: RazorpayConfig{
			KeyID:         "rzp_test_key",
			KeySecret:     "rzp_test_secret",
			WebhookSecret: "rzp_test_webhook_secret",
			BaseURL:       "https://api.razorpay.com",
			Timeout:       10 * time.Second,
		},
		Billing: BillingConfig{
			LeadUnlockPrice:        250,
			MinLeadsPurchase:       100,
			GSTRatePercent:         18,
			FilterSurchargePercent: 25,
			UnlockCostCredits:      1,
			SignupBonusCredits:     500,
		},
	}
}
