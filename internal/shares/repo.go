package shares

import (
	"context"
	"time"
)

// Repo persists share records. Every method except GetByToken is scoped to
// the owning user.
type Repo interface {
	Create(ctx context.Context, share Share) error
	// GetByToken is the privileged lookup used by anonymous resolution.
	GetByToken(ctx context.Context, token string) (Share, error)
	ListByUser(ctx context.Context, userID string) ([]Share, error)
	Delete(ctx context.Context, userID, shareID string) error
	UpdateExpiration(ctx context.Context, userID, shareID string, expiresAt *time.Time) (Share, error)
}
