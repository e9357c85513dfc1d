package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/accounts/infra"
	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/domain/account"
	accountsvc "github.com/amirasaad/accounts/pkg/service/account"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// ErrInvalidParameters is returned by validate when any check failed.
var ErrInvalidParameters = errors.New("account parameters are invalid")

type cli struct {
	envFile  string
	dbDriver string
	dbURL    string
	region   string
	asJSON   bool
	verbose  bool

	db      *gorm.DB
	service *accountsvc.Service
	out     *printer
}

func Execute() error {
	return NewRootCmd(os.Stdout, os.Stderr).Execute()
}

// NewRootCmd builds the accounts command tree writing results to out and
// logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "accounts",
		Short:         "Manage the accounts registry from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "environment file to load")
	root.PersistentFlags().StringVar(&c.dbDriver, "db-driver", "", "database driver, sqlite or postgres (default from DATABASE_DRIVER)")
	root.PersistentFlags().StringVar(&c.dbURL, "db-url", "", "database URL (default from DATABASE_URL)")
	root.PersistentFlags().StringVar(&c.region, "phone-region", "", "phone number region (default from VALIDATION_PHONE_REGION)")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print JSON even on a terminal")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		createCmd(c),
		validateCmd(c),
		getCmd(c),
		findByNameCmd(c),
		findByEmailCmd(c),
		listCmd(c),
	)
	// open the database once flags are validated and close it whatever the
	// command returns
	for _, sub := range root.Commands() {
		run := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) (err error) {
			if err := c.setup(out, errOut); err != nil {
				return err
			}
			defer func() {
				if cerr := c.teardown(); err == nil {
					err = cerr
				}
			}()
			return run(cmd, args)
		}
	}
	return root
}

func (c *cli) setup(out, errOut io.Writer) error {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}
	if c.dbDriver != "" {
		cfg.DB.Driver = c.dbDriver
	}
	if c.dbURL != "" {
		cfg.DB.Url = c.dbURL
	}
	region := cfg.Validation.PhoneRegion
	if c.region != "" {
		region = c.region
	}

	// CLI runs never log SQL
	db, err := infra.NewDBConnection(cfg.DB, "cli")
	if err != nil {
		return err
	}
	c.db = db
	c.service = accountsvc.New(
		infra.NewUoW(db),
		logger,
		accountsvc.WithValidator(account.NewValidator(region)),
	)
	c.out = newPrinter(out, c.asJSON)
	return nil
}

func (c *cli) teardown() error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	c.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
