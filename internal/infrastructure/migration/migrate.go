// Package migration applies the SQL schema in migrations/ with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator drives golang-migrate against one postgres database
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// Status describes the schema version of the connected database
type Status struct {
	Version uint
	Dirty   bool
	Pending []string
}

// migrateLogger forwards golang-migrate's progress lines to zap
type migrateLogger struct {
	log *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimRight(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return false }

// New opens the migration source at dir against db
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migrations in %s: %w", dir, err)
	}
	log = log.Named("migrate")
	m.Log = migrateLogger{log: log.Sugar()}
	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration
func (m *Migrator) Up() error {
	return m.apply("up", m.m.Up)
}

// Down reverts every applied migration
func (m *Migrator) Down() error {
	return m.apply("down", m.m.Down)
}

// Steps moves n migrations forward, or back when n is negative
func (m *Migrator) Steps(n int) error {
	return m.apply(fmt.Sprintf("step %+d", n), func() error { return m.m.Steps(n) })
}

// GoTo moves the schema to version, in whichever direction it lies
func (m *Migrator) GoTo(version uint) error {
	return m.apply(fmt.Sprintf("goto %d", version), func() error { return m.m.Migrate(version) })
}

// apply runs op and logs the resulting version. An up-to-date schema is
// not an error.
func (m *Migrator) apply(name string, op func() error) error {
	from, _, err := m.Version()
	if err != nil {
		return err
	}

	switch err := op(); {
	case errors.Is(err, migrate.ErrNoChange):
		m.log.Info("schema already current", zap.String("op", name), zap.Uint("version", from))
		return nil
	case err != nil:
		return fmt.Errorf("migrate %s: %w", name, err)
	}

	to, dirty, err := m.Version()
	if err != nil {
		return err
	}
	m.log.Info("schema migrated",
		zap.String("op", name),
		zap.Uint("from", from),
		zap.Uint("to", to),
		zap.Bool("dirty", dirty),
	)
	return nil
}

// Version returns the applied version, or 0 on an empty database
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Status reports the applied version and the migrations in dir newer than it
func (m *Migrator) Status(dir string) (Status, error) {
	version, dirty, err := m.Version()
	if err != nil {
		return Status{}, err
	}
	all, err := ListMigrations(dir)
	if err != nil {
		return Status{}, err
	}
	return Status{Version: version, Dirty: dirty, Pending: PendingAfter(all, version)}, nil
}

// Force records version as applied and clears the dirty flag without
// running anything. Use it after repairing a failed migration by hand.
func (m *Migrator) Force(version int) error {
	m.log.Warn("forcing schema version", zap.Int("version", version))
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and the database handle
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	return errors.Join(sourceErr, dbErr)
}
