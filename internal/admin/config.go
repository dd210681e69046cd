package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playpool/billiards/internal/config"
	"github.com/playpool/billiards/internal/models"
)

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(ctx context.Context, db *sqlx.DB) ([]models.RuntimeConfig, error) {
	configs := []models.RuntimeConfig{}
	err := db.SelectContext(ctx, &configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(ctx context.Context, db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.GetContext(ctx, &cfg, db.Rebind(
		`SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key = ?`), key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateRuntimeConfigValue validates value against the key's type and stores it
func UpdateRuntimeConfigValue(ctx context.Context, db *sqlx.DB, key, value, adminName string) error {
	existing, err := GetRuntimeConfigValue(ctx, db, key)
	if err != nil {
		return fmt.Errorf("config key not found: %s", key)
	}

	switch existing.ValueType {
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if n <= 0 {
			return fmt.Errorf("value must be positive: %s", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}

	_, err = db.ExecContext(ctx, db.Rebind(
		`UPDATE runtime_config SET value = ?, updated_by = ?, updated_at = ? WHERE key = ?`),
		value, adminName, time.Now().UTC(), key)
	return err
}

// ApplyRuntimeConfigToConfig loads runtime config from DB and applies overrides to cfg.
// Running sessions keep the frame rate they started with.
func ApplyRuntimeConfigToConfig(ctx context.Context, db *sqlx.DB, cfg *config.Config) error {
	configs, err := GetAllRuntimeConfig(ctx, db)
	if err != nil {
		return err
	}

	for _, c := range configs {
		v, err := strconv.Atoi(c.Value)
		if err != nil || v <= 0 {
			continue
		}
		switch c.Key {
		case "frame_rate":
			cfg.FrameRate = v
		case "session_idle_seconds":
			cfg.SessionIdleSeconds = v
		case "session_expiry_minutes":
			cfg.SessionExpiryMinutes = v
		case "max_sessions":
			cfg.MaxSessions = v
		}
	}

	logger.Info("applied runtime config overrides", "count", len(configs))
	return nil
}
