package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	controllers "storefront-service/internal/controllers/http"
	"storefront-service/internal/infra"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/telegram"
	"storefront-service/internal/metrics"
	"storefront-service/internal/notify"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"
	"storefront-service/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	db, err := mmysql.NewMySQL(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	repo := mysqlrepo.NewOrderRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer redisClient.Close()

	catalogClient := infra.NewCatalogClient(cfg.CatalogURL, cfg.ClientTimeout)
	catalogClient.SetRedisClient(redisClient)

	usersClient := infra.NewUsersClient(cfg.UsersURL, cfg.ClientTimeout)

	settingsClient := infra.NewSettingsClient(cfg.SettingsURL, cfg.ClientTimeout)
	settingsClient.SetRedisClient(redisClient)

	storeMetrics := metrics.New("orders")

	hub := notify.NewHub()
	dispatcher := notify.NewDispatcher(hub, usersClient, repo, storeMetrics, logger, cfg.NotifyTimeout)

	if cfg.RabbitURL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.EventExchange)
		if err != nil {
			logger.Fatal("failed to init publisher", zap.Error(err))
		}
		defer publisher.Close()
		dispatcher.SetPublisher(publisher)
	} else {
		logger.Warn("RABBITMQ_URL not set, event stream disabled")
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Warn("telegram bot unavailable", zap.Error(err))
		} else {
			dispatcher.SetTelegramSender(bot)
			logger.Info("telegram bot connected")
		}
	} else {
		logger.Warn("telegram bot not configured")
	}

	service := services.NewOrderService(repo, catalogClient, dispatcher, storeMetrics, logger)
	handler := controllers.NewHandler(service, hub, settingsClient, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(controllers.RequestLogger(logger))

	handler.RegisterRoutes(r, usersClient)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "storefront-service"})
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		logger.Info("starting storefront service", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}
