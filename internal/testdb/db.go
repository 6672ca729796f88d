package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/estate-api/internal/platform/postgres"
	"github.com/phrazzld/estate-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// Environment variables consulted by GetTestDatabaseURL, in order.
const (
	EnvTestDatabaseURL = "ESTATE_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// TestTimeout bounds connection checks and migrations.
const TestTimeout = 30 * time.Second

var migrateOnce sync.Map

// GetTestDatabaseURL returns the first non-empty database URL variable.
func GetTestDatabaseURL() string {
	for _, key := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Open connects to the test database and applies all migrations once per
// URL and process. The test is skipped when no URL is configured.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dsn := GetTestDatabaseURL()
	if dsn == "" {
		t.Skipf("%s or %s not set", EnvTestDatabaseURL, EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("test database unreachable: %s", redact.Error(err))
	}

	once, _ := migrateOnce.LoadOrStore(dsn, &sync.Once{})
	var migrateErr error
	once.(*sync.Once).Do(func() {
		migrateErr = postgres.Migrate(ctx, db, "up")
	})
	require.NoError(t, migrateErr, "failed to migrate test database")

	return db
}

// WithTx runs fn in a transaction that is rolled back afterwards, including
// when fn panics or fails the test.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin test transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %s", redact.Error(err))
		}
	}()

	fn(t, tx)
}
