package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"railannouncements/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

//go:embed schema.sql
var schema string

type DatabaseOptions struct {
	ForeignKeysEnabled bool
	JournalMode        string
	BusyTimeout        int
	Synchronous        string
	CacheSize          int
}

func DefaultDatabaseOptions() DatabaseOptions {
	return DatabaseOptions{
		ForeignKeysEnabled: true,
		JournalMode:        "WAL", // readers don't block the save endpoint
		BusyTimeout:        5000,
		Synchronous:        "NORMAL",
		CacheSize:          2000,
	}
}

func buildDSN(dbPath string, opts DatabaseOptions) string {
	return fmt.Sprintf(
		"file:%s?_foreign_keys=%v&_journal_mode=%s&_busy_timeout=%d&_synchronous=%s&_cache_size=%d",
		dbPath,
		opts.ForeignKeysEnabled,
		opts.JournalMode,
		opts.BusyTimeout,
		opts.Synchronous,
		opts.CacheSize,
	)
}

// OpenDatabase opens the preset database, creating its directory and applying
// the embedded schema.
func OpenDatabase(dbCfg config.DatabaseConfig, opts DatabaseOptions, logger *log.Logger) (*sql.DB, error) {
	if err := ensureDataDirectory(dbCfg.Path); err != nil {
		return nil, err
	}

	dbConn, err := sql.Open(driverName, buildDSN(dbCfg.Path, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Printf("db: opened | path: %s", dbCfg.Path)

	if err := applyMigrations(dbConn, logger); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := verifyJournalMode(dbConn, logger); err != nil {
		logger.Printf("db: warning | %v", err)
	}

	configureConnectionPool(dbConn, dbCfg, logger)
	return dbConn, nil
}

func ensureDataDirectory(dbPath string) error {
	dataDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func configureConnectionPool(dbConn *sql.DB, dbCfg config.DatabaseConfig, logger *log.Logger) {
	dbConn.SetMaxOpenConns(dbCfg.MaxOpenConnections)
	dbConn.SetMaxIdleConns(dbCfg.MaxIdleConnections)
	dbConn.SetConnMaxLifetime(dbCfg.ConnectionMaxLifetime)
	dbConn.SetConnMaxIdleTime(dbCfg.ConnectionMaxIdleTime)

	logger.Printf("db: connection pool configured | max_open: %d | max_idle: %d | max_lifetime: %v | max_idle_time: %v",
		dbCfg.MaxOpenConnections,
		dbCfg.MaxIdleConnections,
		dbCfg.ConnectionMaxLifetime,
		dbCfg.ConnectionMaxIdleTime)
}

func applyMigrations(dbConn *sql.DB, logger *log.Logger) error {
	if _, err := dbConn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	logger.Println("db: migrations applied")
	return nil
}

func verifyJournalMode(dbConn *sql.DB, logger *log.Logger) error {
	var journalMode string
	if err := dbConn.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}

	logger.Printf("db: journal mode | mode: %s", journalMode)
	return nil
}
