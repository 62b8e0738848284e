package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

type sqliteStateRepo struct {
	db *sql.DB
}

// NewSQLiteStateRepo - реализация поверх database/sql и modernc sqlite
func NewSQLiteStateRepo(db *sql.DB) StateRepository {
	return &sqliteStateRepo{db: db}
}

func (r *sqliteStateRepo) Get(ctx context.Context, key string) (*models.StateSnapshot, error) {
	var (
		payload                          string
		lastUpdate, createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, last_update, created_at, updated_at FROM state_snapshots WHERE key = ?`, key,
	).Scan(&payload, &lastUpdate, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	snapshot := &models.StateSnapshot{Key: key, Payload: []byte(payload)}
	if snapshot.LastUpdate, err = parseTime(lastUpdate); err != nil {
		return nil, err
	}
	if snapshot.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if snapshot.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *sqliteStateRepo) Put(ctx context.Context, snapshot *models.StateSnapshot) error {
	now := time.Now().UTC()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO state_snapshots (key, payload, last_update, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			last_update = excluded.last_update,
			updated_at = excluded.updated_at`,
		snapshot.Key,
		string(snapshot.Payload),
		formatTime(snapshot.LastUpdate),
		formatTime(snapshot.CreatedAt),
		formatTime(snapshot.UpdatedAt),
	)
	return err
}

func (r *sqliteStateRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM state_snapshots WHERE key = ?`, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteStateRepo) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM state_snapshots ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
