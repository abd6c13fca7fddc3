package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDatabaseConfigDefaults(t *testing.T) {
	for _, key := range []string{"MONGO_URI", "MONGO_MAX_POOL_SIZE", "MONGO_MIN_POOL_SIZE",
		"MONGO_MAX_CONN_IDLE_TIME", "MONGO_DB", "MONGO_RETRY_WRITES"} {
		t.Setenv(key, "") // register restore, then clear entirely
		os.Unsetenv(key)
	}

	cfg := LoadDatabaseConfig()

	if cfg.URI != "mongodb://localhost:27017" {
		t.Errorf("unexpected default URI: %q", cfg.URI)
	}
	if cfg.MaxPoolSize != 100 || cfg.MinPoolSize != 10 {
		t.Errorf("unexpected default pool sizes: %d/%d", cfg.MaxPoolSize, cfg.MinPoolSize)
	}
	if cfg.MaxConnIdleTime != 60*time.Second {
		t.Errorf("unexpected default idle time: %v", cfg.MaxConnIdleTime)
	}
	if cfg.DatabaseName != "notesync" {
		t.Errorf("unexpected default database name: %q", cfg.DatabaseName)
	}
	if !cfg.RetryWrites {
		t.Error("retry writes should default to true")
	}
}

func TestLoadDatabaseConfigFromEnv(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("MONGO_MAX_POOL_SIZE", "50")
	t.Setenv("MONGO_DB", "notesync_staging")

	cfg := LoadDatabaseConfig()

	if cfg.URI != "mongodb://db.internal:27017" {
		t.Errorf("URI not read from environment: %q", cfg.URI)
	}
	if cfg.MaxPoolSize != 50 {
		t.Errorf("pool size not read from environment: %d", cfg.MaxPoolSize)
	}
	if cfg.DatabaseName != "notesync_staging" {
		t.Errorf("database name not read from environment: %q", cfg.DatabaseName)
	}
}

func TestLoadChangeFeedConfigDefaults(t *testing.T) {
	for _, key := range []string{"REDIS_URL", "NOTIFIER_CAPACITY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := LoadChangeFeedConfig()

	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("unexpected default Redis URL: %q", cfg.RedisURL)
	}
	if cfg.NotifierCapacity != 64 {
		t.Errorf("unexpected default notifier capacity: %d", cfg.NotifierCapacity)
	}
}
