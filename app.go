package main

import (
	"context"
	"os"

	"personashop/internal/cache"
	"personashop/internal/config"
	"personashop/internal/database"
	"personashop/internal/notify"
	"personashop/internal/repositories"
	"personashop/internal/server"
	"personashop/internal/services"
	"personashop/internal/style"
	"personashop/internal/telemetry"
	"personashop/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// application is the fully wired service.
type application struct {
	logger   *zap.Logger
	storage  fiber.Storage
	mq       *rabbitmq.Client
	users    repositories.UserRepository
	products repositories.ProductRepository
	notifier *notify.OrderNotifier
	http     *fiber.App
}

func gormLogLevel(level string) gormlogger.LogLevel {
	if level == "debug" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

// openDatabase connects and migrates the schema.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN, gormLogLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		closeDatabase(db)
		return nil, err
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func newStorage(cfg *config.Config, logger *zap.Logger) (fiber.Storage, error) {
	if !cfg.RedisEnabled() {
		logger.Info("Using in-memory storage for carts, sessions and rate limits")
		return cache.NewMemoryStorage(), nil
	}
	store, err := cache.NewRedisStorage(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   "personashop:",
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return store, nil
}

func newAnalyzer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (style.Analyzer, error) {
	if cfg.GenAIAPIKey == "" {
		logger.Warn("GENAI_API_KEY not set, style analysis will use the fallback description")
		return nil, nil
	}
	client, err := style.NewGenAIAnalyzer(ctx, cfg.GenAIAPIKey, cfg.GenAIModel)
	if err != nil {
		return nil, err
	}
	return style.NewResilientAnalyzer(client, logger), nil
}

func newSender(cfg *config.Config) (notify.Sender, error) {
	if !cfg.MailEnabled() {
		return nil, nil
	}
	mailer, err := notify.NewMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if err != nil {
		return nil, err
	}
	return mailer, nil
}

// newApplication wires repositories, services and the HTTP app on top of db.
func newApplication(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*application, error) {
	a := &application{logger: logger}

	store, err := newStorage(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.storage = store

	analyzer, err := newAnalyzer(ctx, cfg, logger)
	if err != nil {
		a.close()
		return nil, err
	}
	sender, err := newSender(cfg)
	if err != nil {
		a.close()
		return nil, err
	}

	a.users = repositories.NewGORMUserRepository(db)
	a.products = repositories.NewGORMProductRepository(db)
	profiles := repositories.NewGORMStyleProfileRepository(db)
	orders := repositories.NewGORMOrderRepository(db)
	carts := repositories.NewStorageCartRepository(store, cfg.CartTTL)
	a.notifier = notify.NewOrderNotifier(a.users, sender, logger)

	var publisher services.OrderPublisher = a.notifier
	if cfg.EventsEnabled() {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger)
		if err != nil {
			a.close()
			return nil, err
		}
		a.mq = mq
		publisher = mq
	}

	authService := services.NewAuthService(a.users, store, cfg.JWTSecret, cfg.JWTTTL, logger)
	a.http = server.New(server.Deps{
		DB:              db,
		Storage:         store,
		Metrics:         telemetry.NewMetrics(),
		Logger:          logger,
		AccessLog:       os.Stdout,
		AuthService:     authService,
		ProductService:  services.NewProductService(a.products, profiles, store, logger),
		StyleService:    services.NewStyleService(profiles, analyzer, logger),
		CartService:     services.NewCartService(carts, a.products, logger),
		OrderService:    services.NewOrderService(orders, a.products, carts, publisher, logger),
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
	})
	return a, nil
}

// consumeOrderEvents feeds broker events to the notifier until ctx is done.
func (a *application) consumeOrderEvents(ctx context.Context) {
	if a.mq == nil {
		return
	}
	a.logger.Info("Starting RabbitMQ consumer for orders")
	if err := a.mq.ConsumeOrderEvents(ctx, a.notifier.HandleOrderEvent); err != nil {
		a.logger.Error("RabbitMQ consumer stopped", zap.Error(err))
	}
}

func (a *application) close() {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			a.logger.Warn("Error closing RabbitMQ client", zap.Error(err))
		}
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			a.logger.Warn("Error closing storage", zap.Error(err))
		}
	}
}

func describe(cfg *config.Config) []zap.Field {
	return []zap.Field{
		zap.String("port", cfg.AppPort),
		zap.String("database", cfg.DatabaseDriver),
		zap.Bool("redis", cfg.RedisEnabled()),
		zap.Bool("events", cfg.EventsEnabled()),
		zap.Bool("mail", cfg.MailEnabled()),
		zap.Bool("style_ai", cfg.GenAIAPIKey != ""),
	}
}
