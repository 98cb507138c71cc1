package main

import (
	"workshop_manager/internal/auth"
	"workshop_manager/internal/config"
	"workshop_manager/internal/database"
	"workshop_manager/internal/handlers"
	"workshop_manager/internal/middleware"
	"workshop_manager/internal/migrations"
	"workshop_manager/internal/redis"
	"workshop_manager/internal/repository"
	"workshop_manager/internal/rules"
	"workshop_manager/internal/services"
	"workshop_manager/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.JSONFormatter{})

	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer redisClient.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)

	var sender services.MessageSender
	if cfg.WhatsAppEnabled {
		sender = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		log.WithField("url", cfg.WhatsAppAPIURL).Info("WhatsApp notifications enabled")
	}
	notifier := services.NewNotificationService(sender)

	store := repository.NewStore(db)
	engine := rules.NewEngine(nil)

	svc := handlers.Services{
		Accounts:   services.NewAccountService(store, redisClient, tokens, cfg.SessionTimeout),
		Customers:  services.NewCustomerService(store),
		Staff:      services.NewStaffService(store),
		WorkOrders: services.NewWorkOrderService(store, engine, notifier),
		LogEntries: services.NewLogEntryService(store, engine),
		Budgets:    services.NewBudgetService(store),
		Inventory:  services.NewInventoryService(store),
		Alerts:     services.NewAlertService(store),
		Reports:    services.NewReportService(store, cfg.DashboardRecentLimit, nil),
	}

	handler := handlers.NewHandler(svc, redisClient, handlers.Options{
		VerboseAuthErrors: cfg.AuthVerboseErrors,
		FlashTTL:          cfg.FlashTTL,
		SecureCookies:     cfg.SecureCookies,
	})

	router := gin.Default()
	handler.RegisterRoutes(router, middleware.NewAuthMiddleware(tokens, redisClient))

	log.Infof("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
