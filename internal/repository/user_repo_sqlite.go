package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/besufkad2328-dev/SEED/internal/models"
)

type sqliteUserRepo struct {
	db *sql.DB
}

func NewSQLiteUserRepo(db *sql.DB) UserRepository {
	return &sqliteUserRepo{db: db}
}

const userColumns = `id, telegram_id, username, first_name, last_name, state_key, role, created_at, updated_at`

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = "user"
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (telegram_id, username, first_name, last_name, state_key, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.TelegramID, user.Username, user.FirstName, user.LastName, user.StateKey, user.Role,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return user, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user, err
	}
	user.ID = uint(id)
	return user, nil
}

func (r *sqliteUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = ?`, telegramID)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return user, err
}

func (r *sqliteUserRepo) FindAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *sqliteUserRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user                 models.User
		id                   int64
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &user.TelegramID, &user.Username, &user.FirstName, &user.LastName,
		&user.StateKey, &user.Role, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	user.ID = uint(id)

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}
