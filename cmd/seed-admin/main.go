package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/playpool/billiards/internal/admin"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/database"
	"github.com/playpool/billiards/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		conn, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("failed to connect to database", "err", err)
		}
		defer conn.Close()
		db = conn
	} else {
		store, err := storage.OpenLocal(cfg.LocalScoresPath)
		if err != nil {
			log.Fatal("failed to open local store", "err", err)
		}
		defer store.Close()
		db = store.DB()
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "admin"
		log.Info("using default admin name", "name", name)
	}

	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		token = "change-me-in-production"
		log.Warn("using default admin token, set ADMIN_TOKEN in production")
	}

	displayName := os.Getenv("ADMIN_DISPLAY_NAME")
	if displayName == "" {
		displayName = "Admin"
	}

	roles := []string{"super_admin"}
	if r := os.Getenv("ADMIN_ROLES"); r != "" {
		roles = strings.Split(r, ",")
	}

	if err := admin.CreateAdminAccount(ctx, db, name, displayName, token, roles); err != nil {
		log.Fatal("failed to create admin account", "err", err)
	}

	log.Info("admin account created/updated", "name", name, "display_name", displayName, "roles", roles)
	log.Info("authenticate admin requests with X-Admin-Name and X-Admin-Token headers")
}
