package configs

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"campusevents_backend/internals/logger"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultBcryptCost = 12
)

type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	PublicBaseURL   string
	Prefix          string
}

func (o OSSConfig) Enabled() bool {
	return o.Endpoint != "" && o.AccessKeyID != "" && o.AccessKeySecret != "" && o.Bucket != ""
}

type AppConfig struct {
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	PaymentProvider       string
	Currency              string
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	MidtransServerKey     string
	MidtransUseProd       bool

	GoogleClientID string

	RedisURL           string
	ElasticsearchURL   string
	ElasticsearchIndex string

	OSS           OSSConfig
	UploadDir     string
	PublicBaseURL string

	CORSOrigins          []string
	TrustedProxies       []string
	BlacklistCleanupCron string
	AccessPublicPrefixes []string
}

// IsDevelopment gates internal error detail in responses.
func (c *AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, EnvDevelopment)
}

// DSN prefers DATABASE_URL; otherwise it is assembled from DB_* parts.
func (c *AppConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=campusevents",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env (outside Railway) and the process environment into an AppConfig.
func LoadEnv() *AppConfig {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			logger.L().Info("⚠️ no .env file found, using system environment")
		} else {
			logger.L().Info("✅ .env loaded")
		}
	} else {
		logger.L().Info("🚀 running on Railway, using system environment")
	}

	cfg := FromViper(newViper())

	if cfg.JWTSecret == "" {
		logger.L().Warn("❌ JWT_SECRET is not set")
	}
	if cfg.RazorpayWebhookSecret == "" {
		logger.L().Warn("❌ RAZORPAY_WEBHOOK_SECRET is not set, razorpay webhooks will be rejected")
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvProduction)
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("BCRYPT_COST", DefaultBcryptCost)
	v.SetDefault("PAYMENT_PROVIDER", "razorpay")
	v.SetDefault("PAYMENT_CURRENCY", "INR")
	v.SetDefault("MIDTRANS_USE_PROD", false)
	v.SetDefault("ELASTICSEARCH_INDEX", "campus-events")
	v.SetDefault("ALI_OSS_PREFIX", "colleges/logos")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("TOKEN_BLACKLIST_CLEANUP_CRON", "@every 6h")
	v.SetDefault("ACCESS_PUBLIC_PREFIXES", "/,/auth,/api,/health,/metrics,/uploads")
	return v
}

// FromViper maps a configured viper instance onto AppConfig. Tests build their own viper.
func FromViper(v *viper.Viper) *AppConfig {
	cfg := &AppConfig{
		AppEnv:   strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:     strings.TrimSpace(v.GetString("PORT")),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),

		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),

		JWTSecret:  strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTTTL:     v.GetDuration("JWT_TTL"),
		BcryptCost: v.GetInt("BCRYPT_COST"),

		PaymentProvider:       strings.ToLower(strings.TrimSpace(v.GetString("PAYMENT_PROVIDER"))),
		Currency:              strings.ToUpper(strings.TrimSpace(v.GetString("PAYMENT_CURRENCY"))),
		RazorpayKeyID:         strings.TrimSpace(v.GetString("RAZORPAY_KEY_ID")),
		RazorpayKeySecret:     strings.TrimSpace(v.GetString("RAZORPAY_KEY_SECRET")),
		RazorpayWebhookSecret: strings.TrimSpace(v.GetString("RAZORPAY_WEBHOOK_SECRET")),
		MidtransServerKey:     strings.TrimSpace(v.GetString("MIDTRANS_SERVER_KEY")),
		MidtransUseProd:       v.GetBool("MIDTRANS_USE_PROD"),

		GoogleClientID: strings.TrimSpace(v.GetString("GOOGLE_CLIENT_ID")),

		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		ElasticsearchURL:   strings.TrimSpace(v.GetString("ELASTICSEARCH_URL")),
		ElasticsearchIndex: strings.TrimSpace(v.GetString("ELASTICSEARCH_INDEX")),

		OSS: OSSConfig{
			Endpoint:        strings.TrimSpace(v.GetString("ALI_OSS_ENDPOINT")),
			AccessKeyID:     strings.TrimSpace(v.GetString("ALI_OSS_ACCESS_KEY")),
			AccessKeySecret: strings.TrimSpace(v.GetString("ALI_OSS_SECRET_KEY")),
			Bucket:          strings.TrimSpace(v.GetString("ALI_OSS_BUCKET")),
			PublicBaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("ALI_OSS_PUBLIC_BASE_URL")), "/"),
			Prefix:          strings.Trim(v.GetString("ALI_OSS_PREFIX"), "/ "),
		},
		UploadDir:     strings.TrimSpace(v.GetString("UPLOAD_DIR")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("PUBLIC_BASE_URL")), "/"),

		CORSOrigins:          SplitList(v.GetString("CORS_ORIGINS")),
		TrustedProxies:       SplitList(v.GetString("TRUSTED_PROXIES")),
		BlacklistCleanupCron: strings.TrimSpace(v.GetString("TOKEN_BLACKLIST_CLEANUP_CRON")),
		AccessPublicPrefixes: SplitList(v.GetString("ACCESS_PUBLIC_PREFIXES")),
	}

	// bcrypt only accepts 4..31
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		logger.L().Warn("BCRYPT_COST out of range, falling back to default",
			zap.Int("got", cfg.BcryptCost), zap.Int("default", DefaultBcryptCost))
		cfg.BcryptCost = DefaultBcryptCost
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 24 * time.Hour
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	return cfg
}

// Validate rejects settings the server cannot start with.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	// credentialed CORS cannot use a wildcard origin
	if len(c.CORSOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ORIGINS must list at least one origin"))
	}
	for _, o := range c.CORSOrigins {
		if strings.Contains(o, "*") {
			errs = append(errs, fmt.Errorf("CORS_ORIGINS: wildcard origin %q is not allowed with credentials", o))
		}
	}
	if c.PaymentProvider == "midtrans" && c.Currency != "IDR" {
		errs = append(errs, fmt.Errorf("PAYMENT_CURRENCY must be IDR for midtrans (got %q)", c.Currency))
	}
	for _, p := range c.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is neither an IP nor a CIDR", p))
			}
		}
	}
	return errors.Join(errs...)
}

// SplitList splits a comma separated env value, dropping blanks.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
