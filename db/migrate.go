package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Tables lists every table the application needs, in creation order
var Tables = []string{"products", "sales", "sale_items", "creditors", "expenses", "restock_items", "payments"}

// prepareSchema brings the schema up to the latest migration and checks that
// every table answers a query.
func (d *Database) prepareSchema(ctx context.Context) error {
	if err := d.migrateUp(ctx); err != nil {
		return err
	}
	return d.probeTables(ctx)
}

func (d *Database) migrateUp(ctx context.Context) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to load migrations")
	}

	var (
		driver   database.Driver
		closeMig bool
	)
	switch d.driver {
	case DriverSQLite:
		// The migrate driver wraps our only connection; closing it would
		// close the database, so it is left open.
		driver, err = migratesqlite.WithInstance(d.DB.DB, &migratesqlite.Config{})
	case DriverPostgres:
		var conn *sql.DB
		conn, err = sql.Open(DriverPostgres, d.dsn)
		if err == nil {
			driver, err = migratepgx.WithInstance(conn, &migratepgx.Config{})
			if err != nil {
				conn.Close()
			}
		}
		closeMig = true
	}
	if err != nil {
		return errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, d.driver, driver)
	if err != nil {
		return errors.Wrap(err, "failed to create migrator")
	}
	if closeMig {
		defer m.Close()
	}

	if d.driver == DriverPostgres {
		if _, _, verr := m.Version(); errors.Is(verr, migrate.ErrNilVersion) {
			d.created = true
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.WithError(err).Error("❌ Migrate: failed to apply migrations")
		return errors.Wrap(err, "failed to apply migrations")
	}

	version, dirty, _ := m.Version()
	log.WithFields(log.Fields{"version": version, "dirty": dirty}).Debug("📦 Migrate: schema up to date")
	return nil
}

func (d *Database) probeTables(ctx context.Context) error {
	for _, table := range Tables {
		rows, err := d.QueryContext(ctx, "SELECT 1 FROM "+table+" LIMIT 1")
		if err != nil {
			return errors.Wrapf(err, "table %s is not usable", table)
		}
		rows.Close()
	}
	return nil
}
