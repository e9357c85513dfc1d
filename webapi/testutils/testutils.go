package testutils

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/amirasaad/accounts/infra"
	infra_cache "github.com/amirasaad/accounts/infra/cache"
	infra_eventbus "github.com/amirasaad/accounts/infra/eventbus"
	"github.com/amirasaad/accounts/pkg/app"
	"github.com/amirasaad/accounts/pkg/config"
	pkgtestutils "github.com/amirasaad/accounts/pkg/testutils"
	"github.com/amirasaad/accounts/webapi"
	"github.com/amirasaad/accounts/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// TestConfig returns an application config suitable for HTTP tests.
func TestConfig() *config.App {
	return &config.App{
		Env:        "test",
		Cache:      &config.Cache{Driver: "memory", TTL: time.Minute, Prefix: "accounts:"},
		EventBus:   &config.EventBus{Driver: "memory"},
		RateLimit:  &config.RateLimit{MaxRequests: 1000, Window: time.Minute},
		Validation: &config.Validation{PhoneRegion: "CA"},
	}
}

// SetupTestApp builds the Fiber app over db with an in-memory cache and
// event bus.
func SetupTestApp(t testing.TB, db *gorm.DB, cfg *config.App) (*fiber.App, *app.App, *infra_eventbus.MemoryEventBus) {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infra_eventbus.NewWithMemory(logger)
	memCache := infra_cache.NewMemoryCache()
	t.Cleanup(memCache.Close)

	application := app.New(&app.Deps{
		Uow:      infra.NewUoW(db),
		Cache:    memCache,
		EventBus: bus,
		Logger:   logger,
	}, cfg)
	return webapi.SetupApp(application), application, bus
}

// SetupSQLiteApp is SetupTestApp over a fresh SQLite database.
func SetupSQLiteApp(t testing.TB) (*fiber.App, *app.App, *infra_eventbus.MemoryEventBus) {
	t.Helper()
	return SetupTestApp(t, pkgtestutils.NewSQLiteDB(t), nil)
}

// DecodeJSON decodes the response body into T and closes it.
func DecodeJSON[T any](t testing.TB, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// DecodeProblem decodes a problem details response and closes the body.
func DecodeProblem(t testing.TB, resp *http.Response) common.ProblemDetails {
	t.Helper()
	require.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	return DecodeJSON[common.ProblemDetails](t, resp)
}

// E2ETestSuite provides a test suite with a real Postgres database using
// Testcontainers.
type E2ETestSuite struct {
	suite.Suite
	db  *gorm.DB
	app *fiber.App
	bus *infra_eventbus.MemoryEventBus
}

func (s *E2ETestSuite) SetupSuite() {
	s.db, _ = pkgtestutils.NewPostgresDB(s.T())
}

func (s *E2ETestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(`TRUNCATE TABLE "Accounts" RESTART IDENTITY`).Error)
	s.app, _, s.bus = SetupTestApp(s.T(), s.db, nil)
}

// MakeRequest runs one request against the suite's app.
func (s *E2ETestSuite) MakeRequest(method, path, body string) *http.Response {
	return pkgtestutils.MakeRequest(s.T(), s.app, method, path, body)
}

// Bus returns the in-memory bus the suite's app emits on.
func (s *E2ETestSuite) Bus() *infra_eventbus.MemoryEventBus {
	return s.bus
}
