package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"ghuman-groceries/localstorage"
)

const (
	// DriverSQLite is the embedded engine whose image is mirrored into local storage
	DriverSQLite = "sqlite"
	// DriverPostgres talks to an external PostgreSQL server; no image is mirrored
	DriverPostgres = "pgx"

	workingFileName = "working.db"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options selects and configures the engine
type Options struct {
	Driver  string // DriverSQLite (default) or DriverPostgres
	DSN     string // PostgreSQL connection string
	WorkDir string // directory for the SQLite working file and snapshots
}

// Database holds the database connection and its local storage mirror
type Database struct {
	*sqlx.DB

	driver   string
	dsn      string
	workDir  string
	storage  localstorage.Storage
	created  bool
	restored bool
}

// Open opens the database described by opts. For SQLite the previously
// persisted image is loaded from storage; a missing image yields an empty
// database and a corrupt one is discarded in favour of a fresh schema.
func Open(ctx context.Context, opts Options, storage localstorage.Storage) (*Database, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverSQLite:
		return openSQLite(ctx, opts, storage)
	case DriverPostgres:
		return openPostgres(ctx, opts, storage)
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}
}

func openSQLite(ctx context.Context, opts Options, storage localstorage.Storage) (*Database, error) {
	if opts.WorkDir == "" {
		return nil, errors.New("work directory is required for the sqlite driver")
	}
	if err := os.MkdirAll(opts.WorkDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create work directory")
	}

	d := &Database{
		driver:  DriverSQLite,
		workDir: opts.WorkDir,
		storage: storage,
	}

	loaded, err := d.loadImage()
	if err != nil {
		return nil, err
	}

	if err := d.start(ctx); err != nil {
		if !loaded {
			return nil, err
		}
		// The stored image could not be brought up to date. Drop it and
		// start over; the unreadable image is lost.
		log.WithError(err).Warn("⚠️  Open: stored database image is unusable, recreating schema")
		if err := d.resetWorkingFile(); err != nil {
			return nil, err
		}
		d.created = true
		d.restored = false
		if err := d.start(ctx); err != nil {
			return nil, err
		}
	}

	if d.created {
		if err := d.Persist(ctx); err != nil {
			d.DB.Close()
			return nil, err
		}
	}

	log.WithFields(log.Fields{"restored": d.restored, "created": d.created}).Info("✅ Open: database ready")
	return d, nil
}

func openPostgres(ctx context.Context, opts Options, storage localstorage.Storage) (*Database, error) {
	if opts.DSN == "" {
		return nil, errors.New("connection string is required for the pgx driver")
	}

	conn, err := sqlx.ConnectContext(ctx, DriverPostgres, opts.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	d := &Database{DB: conn, driver: DriverPostgres, dsn: opts.DSN, storage: storage}
	if err := d.prepareSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	log.WithField("created", d.created).Info("✅ Open: database connection established")
	return d, nil
}

func (d *Database) workingPath() string {
	return filepath.Join(d.workDir, workingFileName)
}

// loadImage writes the persisted image into the working file. It returns
// false when there was nothing usable to load.
func (d *Database) loadImage() (bool, error) {
	if err := d.resetWorkingFile(); err != nil {
		return false, err
	}

	encoded, ok, err := d.storage.GetItem(localstorage.KeyDatabaseImage)
	if err != nil {
		return false, errors.Wrap(err, "failed to read database image")
	}
	if !ok {
		log.Info("📦 Open: no stored database image, creating a new database")
		d.created = true
		return false, nil
	}

	image, err := DecodeImage(encoded)
	if err != nil {
		log.WithError(err).Warn("⚠️  Open: stored database image is corrupt, creating a new database")
		d.created = true
		return false, nil
	}

	if err := os.WriteFile(d.workingPath(), image, 0o644); err != nil {
		return false, errors.Wrap(err, "failed to write working database file")
	}

	log.WithField("bytes", len(image)).Info("📦 Open: loaded database image from local storage")
	d.restored = true
	return true, nil
}

func (d *Database) resetWorkingFile() error {
	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		if err := os.Remove(d.workingPath() + suffix); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to remove working database file")
		}
	}
	return nil
}

// start connects to the working file and migrates it
func (d *Database) start(ctx context.Context) error {
	if err := d.connect(ctx); err != nil {
		return err
	}
	if err := d.prepareSchema(ctx); err != nil {
		d.DB.Close()
		d.DB = nil
		return err
	}
	return nil
}

func (d *Database) connect(ctx context.Context) error {
	conn, err := sqlx.Open(DriverSQLite, d.workingPath())
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	// One connection: every statement sees the same state and VACUUM INTO
	// never races a writer.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to ping database")
	}
	d.DB = conn
	return nil
}

// Driver returns the engine name
func (d *Database) Driver() string {
	return d.driver
}

// Created reports whether Open had to create the database from nothing
func (d *Database) Created() bool {
	return d.created
}

// Persist writes the full database image to local storage. It is a no-op for
// engines that are durable on their own.
func (d *Database) Persist(ctx context.Context) error {
	if d.driver != DriverSQLite {
		return nil
	}

	snapshot := filepath.Join(d.workDir, fmt.Sprintf("snapshot-%s.db", uuid.NewString()))
	defer os.Remove(snapshot)

	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(snapshot, "'", "''"))
	if _, err := d.ExecContext(ctx, query); err != nil {
		log.WithError(err).Error("❌ Persist: failed to snapshot database")
		return errors.Wrap(err, "failed to snapshot database")
	}

	image, err := os.ReadFile(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to read database snapshot")
	}

	if err := d.storage.SetItem(localstorage.KeyDatabaseImage, EncodeImage(image)); err != nil {
		log.WithError(err).Error("❌ Persist: failed to write database image")
		return errors.Wrap(err, "failed to write database image")
	}

	log.WithField("bytes", len(image)).Debug("💾 Persist: database image saved")
	return nil
}

// WithTx runs fn inside a transaction. Any error rolls the transaction back.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// Close closes the database connection and removes the working file. The
// image in local storage is the durable copy.
func (d *Database) Close() error {
	if d.DB == nil {
		return nil
	}
	err := d.DB.Close()
	if d.driver == DriverSQLite {
		if rmErr := d.resetWorkingFile(); rmErr != nil && err == nil {
			err = rmErr
		}
	}
	return err
}
