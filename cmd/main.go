package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-review-api/internal/config"
	"restaurant-review-api/internal/infrastructure/database/postgres"
	"restaurant-review-api/internal/infrastructure/events"
	"restaurant-review-api/internal/infrastructure/notification"
	"restaurant-review-api/internal/logger"
	"restaurant-review-api/internal/routes"
	"restaurant-review-api/internal/usecase/favorite"
	"restaurant-review-api/internal/usecase/ingredient"
	"restaurant-review-api/internal/usecase/review"
	"restaurant-review-api/internal/usecase/saved"
	"restaurant-review-api/internal/usecase/user"
	"restaurant-review-api/pkg/mqtt"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", cfg.Server.Environment),
	)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	notifier, err := notification.NewNotifier(cfg.SMTP, cfg.Reset.TokenTTL())
	if err != nil {
		logger.Fatal("Failed to configure mail delivery", zap.Error(err))
	}

	publisher, disconnect := newEventPublisher(cfg.MQTT)
	defer disconnect()

	userRepository := postgres.NewUserRepository(db)
	resetTokenRepository := postgres.NewResetTokenRepository(db)
	ingredientRepository := postgres.NewIngredientRepository(db)
	restaurantRepository := postgres.NewRestaurantRepository(db)
	favoriteRepository := postgres.NewFavoriteRepository(db)
	savedRepository := postgres.NewSavedRepository(db)
	reviewRepository := postgres.NewReviewRepository(db)

	userService := user.NewService(
		userRepository,
		resetTokenRepository,
		ingredientRepository,
		notifier,
		publisher,
		cfg,
	)
	ingredientService := ingredient.NewService(ingredientRepository)
	favoriteService := favorite.NewService(favoriteRepository, restaurantRepository)
	savedService := saved.NewService(savedRepository, restaurantRepository)
	reviewService := review.NewService(reviewRepository, restaurantRepository)

	if err := userService.StartResetTokenAuditJob(ctx, cfg.Reset.AuditCron); err != nil {
		logger.Fatal("Failed to start reset token audit job", zap.Error(err))
	}

	router := routes.SetupRoutes(ctx, cfg, db, routes.Services{
		Users:       userService,
		Ingredients: ingredientService,
		Favorites:   favoriteService,
		Saved:       savedService,
		Reviews:     reviewService,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown Server ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", zap.Error(err))
	}

	log.Println("Server exited properly")
}

// newEventPublisher connects to the broker when one is configured. A broker
// that cannot be reached is logged and events are dropped, the API still
// starts.
func newEventPublisher(cfg config.MQTTConfig) (user.EventPublisher, func()) {
	if !cfg.Enabled() {
		logger.Info("MQTT broker not configured, auth events disabled")
		return events.NoopPublisher{}, func() {}
	}

	client := mqtt.NewClient(&mqtt.Config{
		Broker:               cfg.Broker,
		ClientID:             cfg.ClientID,
		Username:             cfg.Username,
		Password:             cfg.Password,
		CleanSession:         true,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	})
	if err := client.Connect(); err != nil {
		logger.Error("Failed to connect to MQTT broker, auth events disabled",
			zap.String("broker", cfg.Broker),
			zap.Error(err),
		)
		return events.NoopPublisher{}, func() {}
	}

	return events.NewMQTTPublisher(client, cfg.TopicPrefix), client.Disconnect
}
