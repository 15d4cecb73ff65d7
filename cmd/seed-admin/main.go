// Command seed-admin creates the initial administrator account if it
// does not exist yet. Run once against a migrated database:
//
//	ADMIN_EMAIL=admin@store.test ADMIN_PASSWORD=change-me go run ./cmd/seed-admin
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"farm-order-service/config"
	"farm-order-service/internal/auth"
	"farm-order-service/internal/models"
	"farm-order-service/internal/store"
)

func main() {
	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	if len(password) < 8 {
		log.Fatal("ADMIN_PASSWORD must be at least 8 characters")
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.GetAdminByEmail(ctx, email); err == nil {
		log.Printf("Admin already exists: %s", email)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Fatalf("Failed to look up admin: %v", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.StoreAdmin{
		Email:        email,
		FirstName:    "Super",
		LastName:     "Admin",
		PasswordHash: hash,
	}
	if err := db.CreateAdmin(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin created with email: %s", email)
}
