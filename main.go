// Package main is the entry point for the push notification campaign service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/handlers"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/middleware"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/router"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/scheduler"
	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Application holds all application dependencies
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	db        *gorm.DB
	rc        *redis.Client
	stopFuncs []func()
}

func main() {
	log.Println("Starting push notification campaign service...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	// Start server in a goroutine so shutdown signals can be handled
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started successfully on %s", address)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	for _, stop := range app.stopFuncs {
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if app.rc != nil {
		if err := app.rc.Close(); err != nil {
			log.Printf("Failed to close redis client: %v", err)
		}
	}

	if sqlDB, err := app.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}

	log.Println("Server shutdown complete")
}

// initializeApplication wires repositories, services, flows, handlers, and the router
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache initialization failed: %w", err)
	}

	var stopFuncs []func()
	if rc != nil {
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(rc))
	}

	// Repositories
	campaignRepo := repository.NewCampaignRepository(db)
	subscriberRepo := repository.NewSubscriberRepository(db)
	deliveryRepo := repository.NewDeliveryRecordRepository(db)
	landingRepo := repository.NewLandingPageRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	// Services
	tokenService, err := services.NewTokenService(cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("token service initialization failed: %w", err)
	}

	pushSender, err := services.NewWebPushClient(services.WebPushConfig{
		Subject:         cfg.WebPush.Subject,
		VAPIDPublicKey:  cfg.WebPush.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.WebPush.VAPIDPrivateKey,
		TTL:             cfg.WebPush.TTL,
		SendTimeout:     cfg.WebPush.SendTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("web push client initialization failed: %w", err)
	}

	payloadBuilder := services.NewPayloadBuilder(cfg.WebPush.TrackingBaseURL)
	eventBus := services.NewEventBus(cfg.Dispatch.EventBufferSize)

	// Business flows
	dispatchFlow := businessflow.NewDispatchFlow(campaignRepo, subscriberRepo, deliveryRepo, payloadBuilder, pushSender, eventBus, cfg.Dispatch)
	campaignFlow := businessflow.NewCampaignFlow(campaignRepo, subscriberRepo, landingRepo, templateRepo, dispatchFlow, payloadBuilder, eventBus, db, rc, &cfg.Cache)
	subscriberFlow := businessflow.NewSubscriberFlow(subscriberRepo, landingRepo, db)
	trackingFlow := businessflow.NewTrackingFlow(campaignRepo, deliveryRepo, eventBus)
	landingFlow := businessflow.NewLandingPageFlow(landingRepo)
	templateFlow := businessflow.NewTemplateFlow(templateRepo)
	loginFlow := businessflow.NewLoginAdminFlow(tokenService, cfg.Admin)

	// Scheduler runs scheduled campaigns. Constructed even when the periodic
	// sweep is disabled so the HTTP trigger still works.
	campaignScheduler := scheduler.NewCampaignScheduler(campaignRepo, dispatchFlow, cfg.Scheduler)
	if cfg.Scheduler.Enabled {
		stopFuncs = append(stopFuncs, campaignScheduler.Start(context.Background()))
		log.Printf("Campaign scheduler started with interval %s", cfg.Scheduler.Interval)
	}

	// Handlers
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)
	subscriberHandler := handlers.NewSubscriberHandler(subscriberFlow)
	trackingHandler := handlers.NewTrackingHandler(trackingFlow)
	streamHandler := handlers.NewStreamHandler(eventBus)
	landingHandler := handlers.NewLandingPageHandler(landingFlow)
	templateHandler := handlers.NewTemplateHandler(templateFlow)
	authAdminHandler := handlers.NewAuthAdminHandler(loginFlow)
	schedulerHandler := handlers.NewSchedulerHandler(campaignScheduler, cfg.Scheduler.TriggerSecret)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewFiberRouter(
		cfg,
		campaignHandler,
		subscriberHandler,
		trackingHandler,
		streamHandler,
		landingHandler,
		templateHandler,
		authAdminHandler,
		schedulerHandler,
		authMiddleware,
	)

	return &Application{
		router:    appRouter,
		config:    cfg,
		db:        db,
		rc:        rc,
		stopFuncs: stopFuncs,
	}, nil
}

// initializeDatabase opens the PostgreSQL connection, configures the pool, and
// runs schema migration
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.SlowQueryLog {
		gormLogger = logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             cfg.SlowQueryTime,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Campaign{},
		&models.Subscriber{},
		&models.DeliveryRecord{},
		&models.LandingPage{},
		&models.Template{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Println("Database connection established successfully")
	return db, nil
}

// initializeCache connects to Redis when caching is enabled. Returns nil when
// disabled; callers treat a nil client as cache-off.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		log.Println("Cache disabled, continuing without Redis")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	if cfg.RedisDB > 0 {
		opt.DB = cfg.RedisDB
	}

	rc := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Println("Redis connection established successfully")
	return rc, nil
}

// startCacheHealthMonitor pings Redis periodically and logs failures. Returns
// a stop function.
func startCacheHealthMonitor(rc *redis.Client) func() {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
				if err := rc.Ping(pingCtx).Err(); err != nil {
					log.Printf("Redis health check failed: %v", err)
				}
				pingCancel()
			}
		}
	}()

	return cancel
}
