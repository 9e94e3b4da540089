package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"vamo_backend/internal/api"
	"vamo_backend/internal/mailer"
	"vamo_backend/internal/middleware"
	"vamo_backend/internal/notify"
	"vamo_backend/internal/repository"
	"vamo_backend/internal/service"
	"vamo_backend/pkg/auth"
	"vamo_backend/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	smtpMailer := mailer.New(cfg.SMTP)
	sessionAuth := auth.NewSessionAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userService := service.NewUserService(repo, smtpMailer)
	challengeService := service.NewChallengeService(repo)
	evidenceService := service.NewEvidenceService(repo)
	leadService := service.NewLeadService(repo)
	customerService := service.NewCustomerService(repo)
	snapshotService := service.NewSnapshotService(challengeService, evidenceService, leadService, customerService)

	hub := notify.NewHub()

	middleware.InitPrometheus()
	authLimiter := middleware.NewRateLimiter(rate.Every(time.Second), 10)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Monitor())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/metrics", middleware.MetricsHandler())

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, sessionAuth, authLimiter.Middleware())
	api.NewChallengeRoutes(a, challengeService, snapshotService, hub, sessionAuth)
	api.NewEvidenceRoutes(a, evidenceService, snapshotService, hub, sessionAuth)
	api.NewLeadRoutes(a, leadService, snapshotService, hub, sessionAuth)
	api.NewCustomerRoutes(a, customerService, snapshotService, hub, sessionAuth)
	api.NewStateRoutes(a, snapshotService, sessionAuth)
	api.NewWSRoutes(a, hub, sessionAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
