// RangeDB stores the readings received by range_collector.
// It should only be written to by range_collector but can be read by any
// service.
package rangedb

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/NotCoffee418/dbmigrator"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type DB struct {
	*sql.DB
}

// NewDB opens the sqlite database at path and applies pending migrations.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Verify connection, this also creates the file
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open range db %s: %w", path, err)
	}

	// Apply migrations
	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(
		db,
		migrationFS,
		"migrations",
	)

	if _, err := db.Exec("SELECT 1 FROM aggregate_range_hourly LIMIT 1"); err != nil {
		db.Close()
		return nil, fmt.Errorf("range db %s is not migrated: %w", path, err)
	}
	return &DB{db}, nil
}
