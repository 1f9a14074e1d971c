package shares

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docshare-backend/document/model"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShare(row rowScanner) (Share, error) {
	var share Share
	var kind string
	var expiresAt sql.NullTime
	if err := row.Scan(
		&share.ID,
		&share.UserID,
		&kind,
		&share.TargetID,
		&share.Token,
		&share.CreatedAt,
		&expiresAt,
	); err != nil {
		return Share{}, err
	}
	share.Kind = model.Kind(kind)
	if expiresAt.Valid {
		t := expiresAt.Time
		share.ExpiresAt = &t
	}
	return share, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// Create inserts a new share.
func (r *PGRepo) Create(ctx context.Context, share Share) error {
	const query = `
INSERT INTO shares (id, user_id, kind, target_id, token, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		share.ID,
		share.UserID,
		string(share.Kind),
		share.TargetID,
		share.Token,
		share.CreatedAt,
		nullableTime(share.ExpiresAt),
	)
	return err
}

// GetByToken resolves a token through the SECURITY DEFINER function so that
// anonymous callers never need row access to the shares table.
func (r *PGRepo) GetByToken(ctx context.Context, token string) (Share, error) {
	const query = `
SELECT id, user_id, kind, target_id, token, created_at, expires_at
FROM get_share_by_token($1)`
	share, err := scanShare(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Share{}, ErrNotFound
		}
		return Share{}, err
	}
	return share, nil
}

// ListByUser lists shares ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Share, error) {
	const query = `
SELECT id, user_id, kind, target_id, token, created_at, expires_at
FROM shares
WHERE user_id = $1
ORDER BY created_at DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Share{}
	for rows.Next() {
		share, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, share)
	}
	return out, rows.Err()
}

// Delete removes a share owned by userID.
func (r *PGRepo) Delete(ctx context.Context, userID, shareID string) error {
	const query = `DELETE FROM shares WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, shareID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateExpiration sets or clears the expiry of a share owned by userID.
func (r *PGRepo) UpdateExpiration(ctx context.Context, userID, shareID string, expiresAt *time.Time) (Share, error) {
	const query = `
UPDATE shares
SET expires_at = $1
WHERE id = $2 AND user_id = $3
RETURNING id, user_id, kind, target_id, token, created_at, expires_at`
	share, err := scanShare(r.DB.QueryRowContext(ctx, query, nullableTime(expiresAt), shareID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Share{}, ErrNotFound
		}
		return Share{}, err
	}
	return share, nil
}

var _ Repo = (*PGRepo)(nil)
