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
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/loyalty-admin-api/internal/config"
	"github.com/jwalitptl/loyalty-admin-api/internal/email"
	"github.com/jwalitptl/loyalty-admin-api/internal/handler"
	accountHandler "github.com/jwalitptl/loyalty-admin-api/internal/handler/account"
	adminHandler "github.com/jwalitptl/loyalty-admin-api/internal/handler/admin"
	authHandler "github.com/jwalitptl/loyalty-admin-api/internal/handler/auth"
	customerHandler "github.com/jwalitptl/loyalty-admin-api/internal/handler/customer"
	planHandler "github.com/jwalitptl/loyalty-admin-api/internal/handler/plan"
	userHandler "github.com/jwalitptl/loyalty-admin-api/internal/handler/user"
	"github.com/jwalitptl/loyalty-admin-api/internal/middleware"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository/postgres"
	"github.com/jwalitptl/loyalty-admin-api/internal/router"
	accountService "github.com/jwalitptl/loyalty-admin-api/internal/service/account"
	authService "github.com/jwalitptl/loyalty-admin-api/internal/service/auth"
	customerService "github.com/jwalitptl/loyalty-admin-api/internal/service/customer"
	planService "github.com/jwalitptl/loyalty-admin-api/internal/service/plan"
	userService "github.com/jwalitptl/loyalty-admin-api/internal/service/user"
	viewasService "github.com/jwalitptl/loyalty-admin-api/internal/service/viewas"
	"github.com/jwalitptl/loyalty-admin-api/pkg/logger"
	"github.com/jwalitptl/loyalty-admin-api/pkg/metrics"
	"github.com/jwalitptl/loyalty-admin-api/pkg/security"
)

func main() {
	logger.Setup(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	base := postgres.NewBaseRepository(db)
	accountRepo := postgres.NewAccountRepository(base)
	planRepo := postgres.NewPlanRepository(base)
	userRepo := postgres.NewUserRepository(base)
	sessionRepo := postgres.NewViewAsSessionRepository(base)
	customerRepo := postgres.NewCustomerRepository(base)

	// Shared infrastructure
	m := metrics.NewMetrics("loyalty_admin", "api")
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	emailSvc := email.NewService(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})

	// Services
	accountSvc := accountService.NewService(accountRepo, planRepo, hasher, emailSvc, m)
	planSvc := planService.NewService(planRepo)
	userSvc := userService.NewService(userRepo, accountRepo, hasher, emailSvc)
	customerSvc := customerService.NewService(customerRepo, accountRepo)
	viewasSvc := viewasService.NewService(sessionRepo, accountRepo, userRepo, m)
	authSvc := authService.NewService(userRepo, hasher, authService.Config{
		Secret:      cfg.JWT.Secret,
		ExpiryHours: cfg.JWT.ExpiryHours,
	})

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler()

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		accountHandler.NewHandler(accountSvc),
		planHandler.NewHandler(planSvc),
		userHandler.NewHandler(userSvc),
		customerHandler.NewHandler(customerSvc),
		adminHandler.NewHandler(viewasSvc),
		h,
		router.RouterConfig{
			RateLimitRPS:  cfg.RateLimit.RPS,
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: cfg.Metrics.Prefix,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

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
