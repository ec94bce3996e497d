package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/pflag"
)

const (
	dsnFlag           = "dsn"
	migrationPathFlag = "migrations-path"
	downFlag          = "down"

	dsnEnvName = "STOREFRONT_SQL_DB"
)

func main() {
	dsn, migrationsPath, down := getFlagsValues()
	validateFlags(dsn, migrationsPath)
	makeMigrations(dsn, migrationsPath, down)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (dsn, migrations string, down bool) {
	dsnArg := pflag.StringP(dsnFlag, "d", os.Getenv(dsnEnvName), "postgres DSN")
	migrationsPath := pflag.StringP(migrationPathFlag, "m", "migrations", "")
	downArg := pflag.Bool(downFlag, false, "roll back every migration")
	pflag.Parse()
	return *dsnArg, *migrationsPath, *downArg
}

func validateFlags(dsn, migrationsPath string) {
	var errs []error

	if dsn == "" {
		errs = append(errs, fmt.Errorf("--%s flag or %s: required", dsnFlag, dsnEnvName))
	}

	if migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}

	if len(errs) != 0 {
		slog.Error("too few args", "err", errors.Join(errs...))
		fallDown()
	}
}

// toMigrateURL switches a postgres DSN to the pgx v5 migrate driver.
func toMigrateURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return "pgx5://" + dsn
}

func makeMigrations(dsn, migrationsPath string, down bool) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		toMigrateURL(dsn),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	apply, action := m.Up, "applied"
	if down {
		apply, action = m.Down, "rolled back"
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migrations %s", action)
}

func fallDown() {
	os.Exit(2)
}
