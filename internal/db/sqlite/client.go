package sqlite

import (
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/tecsopro/tecsobot/internal/infra"
	"github.com/tecsopro/tecsobot/resources"
)

type sqliteClient struct {
	db    *sqlx.DB
	mutex sync.RWMutex
}

func NewSQLiteClient(dbPath string) *sqliteClient {
	dbx, err := sqlx.Open("sqlite", filepath.Join(infra.GetWorkDir(), dbPath))
	if err != nil {
		log.WithError(err).Fatalln("cant open db")
	}
	dbx.SetMaxOpenConns(42)

	migrationsSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: resources.FS,
		Root:       "migrations",
	}
	n, err := migrate.Exec(dbx.DB, "sqlite3", migrationsSource, migrate.Up)
	if err != nil {
		log.WithError(err).Fatalln("migrate up failed")
	}
	if n > 0 {
		log.Infof("applied %d migrations", n)
	}

	return &sqliteClient{db: dbx}
}

// NewSQLiteClientAt opens a client on an explicit path, without the work-dir
// indirection. Used by tests.
func NewSQLiteClientAt(path string) (*sqliteClient, error) {
	dbx, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	migrationsSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: resources.FS,
		Root:       "migrations",
	}
	if _, err := migrate.Exec(dbx.DB, "sqlite3", migrationsSource, migrate.Up); err != nil {
		return nil, err
	}
	return &sqliteClient{db: dbx}, nil
}

func (c *sqliteClient) Close() error {
	return c.db.Close()
}
