package postgresql

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"content_hub/migrations"
)

// RunMigrations applies all pending embedded migrations.
func RunMigrations(dsn string) (retErr error) {
	const op = "storage.postgresql.RunMigrations"

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("%s: source: %w", op, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if retErr == nil {
			retErr = errors.Join(sourceErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
