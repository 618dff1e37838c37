package postgres

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ApplyMigrations aplica todas las migraciones pendientes. Es seguro
// invocarla en cada arranque: si no hay migraciones nuevas no es un error.
func ApplyMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("crear instancia de migrate: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if _, dirty, err := m.Version(); err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("leer versión de esquema: %w", err)
	} else if dirty {
		return fmt.Errorf("el esquema quedó en estado dirty; revisar la última migración")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}
