package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/skillswap/skillswap-go/internal/config"
	"github.com/skillswap/skillswap-go/internal/crypto"
	"github.com/skillswap/skillswap-go/internal/handler"
	"github.com/skillswap/skillswap-go/internal/middleware"
	"github.com/skillswap/skillswap-go/internal/repository"
	"github.com/skillswap/skillswap-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database initialization failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	tokens := crypto.NewTokenService(cfg.TokenSecret, cfg.TokenIssuer, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	exchangeRepo := repository.NewExchangeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo)
	authService := service.NewAuthService(userRepo, tokens)
	skillService := service.NewSkillService(skillRepo)
	exchangeService := service.NewExchangeService(exchangeRepo, skillRepo, notificationService)

	authHandler := handler.NewAuthHandler(authService)
	skillHandler := handler.NewSkillHandler(skillService)
	exchangeHandler := handler.NewExchangeHandler(exchangeService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	})

	r.Get("/api/v1/skills", skillHandler.HandleList)
	r.Get("/api/v1/skills/{skill_id}", skillHandler.HandleGet)
	r.Get("/api/v1/users/{user_id}", authHandler.HandleGetUser)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tokens, userRepo))

		r.Get("/api/v1/auth/me", authHandler.HandleMe)
		r.Put("/api/v1/users/{user_id}", authHandler.HandleUpdateUser)

		r.Post("/api/v1/skills", skillHandler.HandleCreate)
		r.Get("/api/v1/skills/my-skills", skillHandler.HandleMySkills)
		r.Put("/api/v1/skills/{skill_id}", skillHandler.HandleUpdate)
		r.Delete("/api/v1/skills/{skill_id}", skillHandler.HandleDelete)

		r.Post("/api/v1/exchanges", exchangeHandler.HandleCreate)
		r.Get("/api/v1/exchanges", exchangeHandler.HandleList)
		r.Get("/api/v1/exchanges/{request_id}", exchangeHandler.HandleGet)
		r.Patch("/api/v1/exchanges/{request_id}", exchangeHandler.HandleTransition)
		r.Delete("/api/v1/exchanges/{request_id}", exchangeHandler.HandleCancel)

		r.Get("/api/v1/notifications", notificationHandler.HandleList)
		r.Get("/api/v1/notifications/unread-count", notificationHandler.HandleUnreadCount)
		r.Put("/api/v1/notifications/{notification_id}/read", notificationHandler.HandleMarkRead)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
