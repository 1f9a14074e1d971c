package shares

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var shareColumns = []string{"id", "user_id", "kind", "target_id", "token", "created_at", "expires_at"}

func TestPGRepoGetByTokenUsesPrivilegedFunction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	token := strings.Repeat("ab", 32)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM get_share_by_token\\(\\$1\\)").
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows(shareColumns).AddRow("share-1", "google:1", "brand", "doc-1", token, now, nil))

	share, err := repo.GetByToken(context.Background(), token)
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if share.ID != "share-1" || share.ExpiresAt != nil || share.Kind != "brand" {
		t.Fatalf("unexpected share: %+v", share)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByTokenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("FROM get_share_by_token").
		WillReturnRows(sqlmock.NewRows(shareColumns))

	if _, err := repo.GetByToken(context.Background(), strings.Repeat("0", 64)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoCreateWritesNullExpiry(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	share := Share{ID: "share-1", UserID: "google:1", Kind: "cv", TargetID: "doc-1", Token: "tok", CreatedAt: now}
	mock.ExpectExec("INSERT INTO shares").
		WithArgs("share-1", "google:1", "cv", "doc-1", "tok", now, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), share); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserNewestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	expires := now.Add(time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM shares WHERE user_id = \\$1 ORDER BY created_at DESC, id").
		WithArgs("google:1").
		WillReturnRows(sqlmock.NewRows(shareColumns).
			AddRow("share-2", "google:1", "cv", "doc-2", "t2", now, expires).
			AddRow("share-1", "google:1", "brand", "doc-1", "t1", now.Add(-time.Hour), nil))

	listed, err := repo.ListByUser(context.Background(), "google:1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "share-2" || listed[0].ExpiresAt == nil || !listed[0].ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected listing: %+v", listed)
	}
}

func TestPGRepoMutationsAreOwnerScoped(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("DELETE FROM shares WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("share-1", "google:2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("UPDATE shares SET expires_at = \\$1 WHERE id = \\$2 AND user_id = \\$3 RETURNING").
		WithArgs(nil, "share-1", "google:2").
		WillReturnRows(sqlmock.NewRows(shareColumns))

	if err := repo.Delete(context.Background(), "google:2", "share-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting, got %v", err)
	}
	if _, err := repo.UpdateExpiration(context.Background(), "google:2", "share-1", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
