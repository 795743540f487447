// Package testutil provides shared test utilities for tsschema
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var suppressedLogger = log.New(io.Discard, "", 0)

// getTimescaleImage returns the TimescaleDB image to use for testing.
// It reads from the TSSCHEMA_TIMESCALE_IMAGE environment variable,
// defaulting to the PostgreSQL 17 build if not set.
func getTimescaleImage() string {
	if image := os.Getenv("TSSCHEMA_TIMESCALE_IMAGE"); image != "" {
		return image
	}
	return "timescale/timescaledb:latest-pg17"
}

// ContainerInfo holds TimescaleDB container connection details
type ContainerInfo struct {
	Container testcontainers.Container
	Host      string
	Port      int
	DSN       string
	Conn      *sql.DB
}

// SetupTimescaleContainer creates a new TimescaleDB test container with the
// extension installed in the test database
func SetupTimescaleContainer(ctx context.Context, t *testing.T) *ContainerInfo {
	t.Helper()

	container, err := postgres.Run(ctx,
		getTimescaleImage(),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
		testcontainers.WithLogger(suppressedLogger),
	)
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if _, err := conn.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS timescaledb"); err != nil {
		t.Fatalf("Failed to create timescaledb extension: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return &ContainerInfo{
		Container: container,
		Host:      host,
		Port:      port.Int(),
		DSN:       dsn,
		Conn:      conn,
	}
}

// Terminate cleans up the container and connection
func (ci *ContainerInfo) Terminate(ctx context.Context, t *testing.T) {
	ci.Conn.Close()
	if err := ci.Container.Terminate(ctx); err != nil {
		t.Logf("Failed to terminate container: %v", err)
	}
}

// ExecAll runs statements one at a time and fails the test on the first error
func (ci *ContainerInfo) ExecAll(ctx context.Context, t *testing.T, stmts []string) {
	t.Helper()
	for _, stmt := range stmts {
		if _, err := ci.Conn.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to execute statement:\n%s\nError: %v", stmt, err)
		}
	}
}
