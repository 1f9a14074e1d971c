package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

type Repo interface {
	// Upsert inserts or refreshes a user. An existing handle is never replaced.
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	// HandleTaken reports whether another user already holds handle.
	HandleTaken(ctx context.Context, handle, exceptUserID string) (bool, error)
}
