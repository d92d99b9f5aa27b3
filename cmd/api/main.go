package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rkapoor/telecare-api/internal/config"
	appointmentHandler "github.com/rkapoor/telecare-api/internal/handler/appointment"
	chatHandler "github.com/rkapoor/telecare-api/internal/handler/chat"
	doctorHandler "github.com/rkapoor/telecare-api/internal/handler/doctor"
	notificationHandler "github.com/rkapoor/telecare-api/internal/handler/notification"
	presenceHandler "github.com/rkapoor/telecare-api/internal/handler/presence"
	signalingHandler "github.com/rkapoor/telecare-api/internal/handler/signaling"
	streamHandler "github.com/rkapoor/telecare-api/internal/handler/stream"
	"github.com/rkapoor/telecare-api/internal/middleware"
	"github.com/rkapoor/telecare-api/internal/registry"
	"github.com/rkapoor/telecare-api/internal/repository/postgres"
	"github.com/rkapoor/telecare-api/internal/router"
	appointmentService "github.com/rkapoor/telecare-api/internal/service/appointment"
	chatService "github.com/rkapoor/telecare-api/internal/service/chat"
	doctorService "github.com/rkapoor/telecare-api/internal/service/doctor"
	notificationService "github.com/rkapoor/telecare-api/internal/service/notification"
	"github.com/rkapoor/telecare-api/internal/service/presence"
	"github.com/rkapoor/telecare-api/internal/service/signaling"
	"github.com/rkapoor/telecare-api/pkg/auth"
	"github.com/rkapoor/telecare-api/pkg/logger"
	"github.com/rkapoor/telecare-api/pkg/messaging"
	"github.com/rkapoor/telecare-api/pkg/messaging/membus"
	redisbroker "github.com/rkapoor/telecare-api/pkg/messaging/redis"
	"github.com/rkapoor/telecare-api/pkg/metrics"
	"github.com/rkapoor/telecare-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("telecare", "api")

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)

	// Event bus: in-process by default, Redis pub/sub when fan-out must
	// cross processes.
	var broker messaging.Broker
	switch cfg.Broker.Kind {
	case "redis":
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
	default:
		broker = membus.NewBus(appLogger.Zerolog(), membus.WithMetrics(appMetrics))
	}
	defer broker.Close()

	// Services
	slotRegistry := registry.NewRegistry(appointmentRepo)
	notificationSvc := notificationService.NewService(notificationRepo, broker, appMetrics, appLogger)
	appointmentSvc := appointmentService.NewService(appointmentRepo, slotRegistry, notificationSvc, appMetrics, appLogger)
	chatSvc := chatService.NewService(chatRepo, broker, appMetrics, appLogger)
	presenceTracker := presence.NewTracker(time.Duration(cfg.Presence.OnlineWindowSeconds) * time.Second)
	signalingRelay := signaling.NewRelay(broker, appMetrics, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, appointmentRepo)

	// Transport
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(authMiddleware, router.Config{
		RateLimit: 100,
		RateBurst: 200,
	})
	r.Setup(
		appointmentHandler.NewHandler(appointmentSvc),
		notificationHandler.NewHandler(notificationSvc),
		chatHandler.NewHandler(chatSvc),
		presenceHandler.NewHandler(presenceTracker),
		signalingHandler.NewHandler(signalingRelay),
		doctorHandler.NewHandler(doctorSvc),
		streamHandler.NewHandler(broker),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
