package infra

import (
	"errors"
	"fmt"
	"time"

	accountrepo "github.com/amirasaad/accounts/infra/repository/account"
	"github.com/amirasaad/accounts/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewDBConnection opens the configured database and creates the accounts
// table when it does not exist yet.
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	dialector, err := dialectorFor(cnf)
	if err != nil {
		return nil, err
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if dialector.Name() == DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(1 * time.Hour)
	}

	if err := Migrate(connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// Migrate creates or updates the accounts table. It is idempotent.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&accountrepo.Account{}); err != nil {
		return fmt.Errorf("migrate accounts table: %w", err)
	}
	return nil
}

func dialectorFor(cnf *config.DB) (gorm.Dialector, error) {
	switch cnf.Driver {
	case DriverSQLite, "":
		return sqlite.Open(cnf.Url), nil
	case DriverPostgres:
		return postgres.Open(cnf.Url), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cnf.Driver)
	}
}
