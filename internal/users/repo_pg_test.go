package users

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertKeepsExistingHandle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("INSERT INTO users (.+) ON CONFLICT \\(id\\) DO UPDATE SET (.+) handle = COALESCE\\(users.handle, EXCLUDED.handle\\)").
		WithArgs("google:1", "ada@example.com", "Ada", "ada", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Upsert(context.Background(), User{ID: "google:1", Email: "ada@example.com", DisplayName: "Ada", Handle: "ada"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDMapsNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "email", "display_name", "handle", "avatar_url", "created_at", "updated_at"}).
		AddRow("google:1", nil, "Ada", "ada", nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("google:1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "google:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Handle != "ada" || user.Email != "" || user.AvatarURL != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestPGRepoHandleTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ada", "google:2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.HandleTaken(context.Background(), "ada", "google:2")
	if err != nil {
		t.Fatalf("HandleTaken: %v", err)
	}
	if !taken {
		t.Fatalf("expected handle to be taken")
	}
}
