package repository

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
)

// sessionDSN parses a MySQL DSN and forces the options the session store
// depends on. expires_at is scanned into time.Time, which needs parseTime.
func sessionDSN(dsn string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg, nil
}

// NewDB opens the connection pool backing the MySQL session store.
func NewDB(dsn string) (*sql.DB, error) {
	cfg, err := sessionDSN(dsn)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		slog.Warn("session store database unreachable", "addr", cfg.Addr, "db", cfg.DBName, "error", err)
		return nil, err
	}

	return db, nil
}
