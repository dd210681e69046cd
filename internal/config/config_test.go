package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "DATABASE_URL", "REDIS_URL", "FRAME_RATE", "MAX_SESSIONS"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Errorf("expected optional backends to default empty, got %q %q", cfg.DatabaseURL, cfg.RedisURL)
	}
	if cfg.FrameRate != 60 {
		t.Errorf("FrameRate = %d", cfg.FrameRate)
	}
	if cfg.MaxSessions != 200 {
		t.Errorf("MaxSessions = %d", cfg.MaxSessions)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FRAME_RATE", "120")
	t.Setenv("MAX_SESSIONS", "not-a-number")
	t.Setenv("MIGRATE_ON_START", "true")
	cfg := Load()

	if cfg.FrameRate != 120 {
		t.Errorf("FrameRate = %d", cfg.FrameRate)
	}
	if cfg.MaxSessions != 200 {
		t.Errorf("bad int should fall back to default, got %d", cfg.MaxSessions)
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart should be true")
	}
}
