package database

import (
	"context"
	"testing"
	"time"

	"github.com/wheelz27/sharp-sniper/internal/config"
)

// SetupTestDB creates a test database connection and verifies it
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.LoadWithDefaults("../../config/config.yaml.test")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	if err := db.Ping(ctx); err != nil {
		t.Skipf("failed to ping test database: %v", err)
	}

	if _, err := db.pool.Exec(ctx, pickSchema); err != nil {
		db.Close()
		t.Fatalf("failed to ensure pick schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
