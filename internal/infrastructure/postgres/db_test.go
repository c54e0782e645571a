package postgres

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewPoolWithConfigDefaults(t *testing.T) {
	ctx := context.Background()

	// using invalid URL should return error
	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx := context.Background()
	cfg := PoolConfig{
		DatabaseURL: "postgres://invalid:5432/db",
		MaxConns:    1,
		MinConns:    0,
	}

	_, err := NewPoolWithConfig(ctx, cfg)
	if err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestNewPoolWithConfigStopsRetryingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := NewPoolWithConfig(ctx, PoolConfig{
		DatabaseURL:  "postgres://invalid:5432/db",
		PingAttempts: 10,
		PingInterval: time.Second,
	})
	if err == nil {
		t.Fatalf("expected error with cancelled context")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("expected cancellation to cut the retries short")
	}
}

func TestRunMigrationsMissingSource(t *testing.T) {
	err := RunMigrations("postgres://invalid:5432/db", "/nonexistent/migrations", zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestNewMigratorVersionMissingSource(t *testing.T) {
	m := NewMigrator("postgres://invalid:5432/db", "/nonexistent/migrations", zerolog.Nop())
	if _, _, err := m.Version(); err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestMigrateLogger(t *testing.T) {
	var buf bytes.Buffer
	l := migrateLogger{logger: zerolog.New(&buf).Level(zerolog.DebugLevel)}

	if !l.Verbose() {
		t.Fatalf("expected debug logger to be verbose")
	}
	l.Printf("Start buffering %d/u create_sales\n", 1)
	if got := buf.String(); !bytes.Contains([]byte(got), []byte(`"message":"Start buffering 1/u create_sales"`)) {
		t.Fatalf("unexpected log output: %s", got)
	}

	quiet := migrateLogger{logger: zerolog.New(&buf).Level(zerolog.InfoLevel)}
	if quiet.Verbose() {
		t.Fatalf("expected info logger not to be verbose")
	}
}
