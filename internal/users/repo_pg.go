package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, display_name, handle, avatar_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  display_name = EXCLUDED.display_name,
  handle = COALESCE(users.handle, EXCLUDED.handle),
  avatar_url = EXCLUDED.avatar_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		nullableString(user.Email),
		user.DisplayName,
		nullableString(user.Handle),
		nullableString(user.AvatarURL),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, display_name, handle, avatar_url, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	var email sql.NullString
	var handle sql.NullString
	var avatarURL sql.NullString
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&email,
		&user.DisplayName,
		&handle,
		&avatarURL,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if email.Valid {
		user.Email = email.String
	}
	if handle.Valid {
		user.Handle = handle.String
	}
	if avatarURL.Valid {
		user.AvatarURL = avatarURL.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func (r *PGRepo) HandleTaken(ctx context.Context, handle, exceptUserID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE handle = $1 AND id <> $2)`
	var taken bool
	if err := r.DB.QueryRowContext(ctx, query, handle, exceptUserID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
