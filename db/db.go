package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"

	"github.com/padraicbc/batstats/config"
	"github.com/padraicbc/batstats/models"
)

// Setup opens the configured database and exits the process if it is unreachable.
func Setup(cfg *config.Config) *bun.DB {
	db, err := Open(context.Background(), cfg)
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	return db
}

// Open connects to PostgreSQL or SQLite depending on cfg.DBDriver and pings it.
func Open(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB
	switch cfg.DBDriver {
	case config.DriverSQLite:
		var err error
		if db, err = OpenSQLite(cfg.SQLitePath); err != nil {
			return nil, err
		}
	default:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// OpenSQLite opens a SQLite database through the pure-Go modernc driver.
// A single connection is used so writes serialize and ":memory:" databases
// stay visible to every query.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateTables creates all tables.
func CreateTables(ctx context.Context, db bun.IDB) error {
	tables := []interface{}{
		(*models.Player)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []struct {
		name    string
		columns []string
	}{
		{"players_hits_idx", []string{"hits"}},
		{"players_home_run_idx", []string{"home_run"}},
	}
	for _, ix := range indexes {
		_, err := db.NewCreateIndex().
			Model((*models.Player)(nil)).
			Index(ix.name).
			Column(ix.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("creating index %s: %w", ix.name, err)
		}
	}

	return nil
}
