package database

import (
	"database/sql"
	"fmt"

	"github.com/besufkad2328-dev/SEED/pkg/utils"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Схема для однофайлового режима
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS state_snapshots (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	last_update TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	telegram_id INTEGER NOT NULL UNIQUE,
	username TEXT NOT NULL DEFAULT '',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	state_key TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL DEFAULT 'user',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// NewSQLite открывает файл базы и создает таблицы
func NewSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite пишет из одного соединения
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	utils.Log.Info("SQLite database ready", zap.String("path", path))
	return db, nil
}
