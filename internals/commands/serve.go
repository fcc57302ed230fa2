package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"campusevents_backend/internals/configs"
	database "campusevents_backend/internals/databases"
	"campusevents_backend/internals/features/campus/events/search"
	"campusevents_backend/internals/features/finance/payments/gateway"
	scheduler "campusevents_backend/internals/features/users/auth/scheduler"
	helper "campusevents_backend/internals/helpers"
	helperOSS "campusevents_backend/internals/helpers/oss"
	"campusevents_backend/internals/logger"
	"campusevents_backend/internals/middlewares"
	routes "campusevents_backend/internals/route"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		defer logger.Sync()
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "run schema migration before serving")
}

func serve(cfg *configs.AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 🔌 DB connect + pool + warm-up
	db, err := connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if serveMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}
	database.WarmUpQueries(db)

	deps := routes.Deps{Config: cfg, DB: db}

	// optional collaborators; each one missing just disables its feature
	if rs, err := middlewares.NewRedisStorage(cfg.RedisURL, "campusevents:limiter:"); err != nil {
		logger.L().Warn("redis unavailable, rate limits stay in memory", zap.Error(err))
	} else if rs != nil {
		defer rs.Close()
		deps.Store = rs
	}

	if blob, err := helperOSS.NewBlobService(cfg); err != nil {
		logger.L().Warn("upload storage unavailable, logo upload disabled", zap.Error(err))
	} else {
		deps.Blob = blob
	}

	switch gw, err := gateway.FromConfig(cfg); {
	case errors.Is(err, gateway.ErrNotConfigured):
		logger.L().Warn("payment gateway not configured, paid events cannot take registrations",
			zap.String("provider", cfg.PaymentProvider))
	case err != nil:
		return err
	default:
		deps.Gateway = gw
	}

	if cfg.ElasticsearchURL != "" {
		if idx, err := openIndex(cfg); err != nil {
			logger.L().Warn("search index unavailable, using SQL search", zap.Error(err))
		} else {
			deps.Index = idx
		}
	}

	app := newFiberApp(cfg)
	middlewares.SetupMiddlewares(app, cfg, deps.Store)
	authSvc := routes.SetupRoutes(app, deps)

	// ⏱ scheduler after the DB is ready
	if cfg.BlacklistCleanupCron != "" {
		cron, err := scheduler.StartBlacklistCleanupScheduler(cfg.BlacklistCleanupCron, authSvc)
		if err != nil {
			return err
		}
		defer cron.Stop()
	}

	// 🔒 keep-alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	errc := make(chan error, 1)
	go func() {
		logger.L().Info("✅ listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		errc <- app.Listen("0.0.0.0:" + cfg.Port)
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}

func openIndex(cfg *configs.AppConfig) (*search.ElasticIndex, error) {
	idx, err := search.NewElasticIndex(cfg.ElasticsearchURL, cfg.ElasticsearchIndex)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := idx.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

// newFiberApp builds the server. X-Forwarded-For is only honoured from
// TRUSTED_PROXIES; without any, c.IP() is the socket peer.
func newFiberApp(cfg *configs.AppConfig) *fiber.App {
	fc := fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		BodyLimit:             int(helperOSS.MaxUploadSize) + 1<<20,
		ErrorHandler:          helper.ErrorHandler(cfg.IsDevelopment()),
	}
	if len(cfg.TrustedProxies) > 0 {
		fc.ProxyHeader = fiber.HeaderXForwardedFor
		fc.EnableTrustedProxyCheck = true
		fc.TrustedProxies = cfg.TrustedProxies
	}
	return fiber.New(fc)
}
