package main

import (
	"context"
	"log"
	"os"
	"time"

	"resumehub/internal/database"
	"resumehub/internal/repository"
)

// One-shot revocation sweep for cron deployments. The API also runs an
// in-process janitor; both paths call the same PurgeExpired.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := repository.NewRevokedCredentialRepository(db)
	n, err := repo.PurgeExpired(context.Background(), time.Now().UTC())
	if err != nil {
		log.Fatalf("cleanup revoked_credentials failed: %v", err)
	}

	log.Printf("session cleanup completed: revoked_credentials=%d", n)
}
