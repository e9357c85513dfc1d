package testutils

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirasaad/accounts/infra"
	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// NicolasInput returns the reference valid account input.
func NicolasInput() account.Input {
	return account.Input{
		Name:        "Nicolas",
		Email:       "nicolas@domain.com",
		PhoneNumber: "611-611-6111",
		Address:     "1 Main St",
		City:        "Ottawa",
		PostalCode:  "K1S0A8",
		Country:     "Canada",
	}
}

// NewSQLiteDB opens a migrated SQLite database in a per-test directory.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	cfg := &config.DB{
		Driver: infra.DriverSQLite,
		Url:    filepath.Join(t.TempDir(), "db.sqlite"),
	}
	db, err := infra.NewDBConnection(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewPostgresDB starts a Postgres container and returns a migrated
// connection to it. The test is skipped when no container provider is
// available.
func NewPostgresDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pg, err := startPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDBConnection(&config.DB{Driver: infra.DriverPostgres, Url: dsn}, "test")
	require.NoError(t, err)
	return db, dsn
}

// startPostgresContainer starts a Postgres container using Testcontainers
func startPostgresContainer(ctx context.Context) (*tcpostgres.PostgresContainer, error) {
	return tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
}

// MakeRequest runs one request against app. A non-empty body is sent as
// JSON.
func MakeRequest(t testing.TB, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
