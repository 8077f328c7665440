package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"resumehub/internal/audit"
	"resumehub/internal/config"
	"resumehub/internal/database"
	"resumehub/internal/middleware"
	"resumehub/internal/modules/session"
	"resumehub/internal/pkg/token"
	"resumehub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	cfg, err := config.LoadSessionRuntimeConfig()
	if err != nil {
		log.Fatalf("session config: %v", err)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	revokedRepo := repository.NewRevokedCredentialRepository(db)

	tokens := token.New(token.Config{
		AccessSecret:  cfg.AccessSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})

	auditor := audit.NewDispatcher(audit.LogSink{}, 64)
	defer auditor.Close()

	sessions := session.NewService(tokens, revokedRepo, userRepo, auditor)
	sessionHandler := session.NewHandler(sessions, cfg.CookieSecure, cfg.CookieSameSite, cfg.CookiePath, cfg.RefreshTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitor := session.NewJanitor(revokedRepo, cfg.JanitorInterval)
	go janitor.Run(ctx)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		sessionHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.SessionGate(sessions, cfg))
		{
			sessionHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
