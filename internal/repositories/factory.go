package repositories

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values for Options.Driver.
const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultSQLiteFile is used by the sqlite driver when neither DSN nor SQLiteFile is set.
const DefaultSQLiteFile = "data/pataverde.db"

// Options selects and configures a dataset repository.
type Options struct {
	Driver   string
	DataFile   string // json only: path of the document
	SQLiteFile string // sqlite database file when DSN is empty
	DSN        string
	Fs         afero.Fs // json only; defaults to the OS filesystem
}

// NewDatasetRepository builds the repository named by opts.Driver.
func NewDatasetRepository(opts Options) (DatasetRepository, error) {
	switch opts.Driver {
	case "", DriverJSON:
		fs := opts.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		return NewJSONFileRepository(fs, opts.DataFile), nil
	case DriverMemory:
		return NewMemoryDatasetRepository(), nil
	case DriverSQLite, DriverPostgres:
		db, err := openGORM(opts)
		if err != nil {
			return nil, err
		}
		repo := NewGORMDatasetRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func openGORM(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = opts.SQLiteFile
			if dsn == "" {
				dsn = DefaultSQLiteFile
			}
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
				}
			}
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres store requires DATABASE_DSN")
		}
		dialector = postgres.Open(opts.DSN)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", opts.Driver, err)
	}
	return db, nil
}
