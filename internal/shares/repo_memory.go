package shares

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Share
	byToken map[string]string // token -> share id
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Share),
		byToken: make(map[string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, share Share) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byToken[share.Token]; exists {
		return ErrInvalidInput
	}
	r.byID[share.ID] = share
	r.byToken[share.Token] = share.ID
	return nil
}

func (r *MemoryRepo) GetByToken(ctx context.Context, token string) (Share, error) {
	if err := ctx.Err(); err != nil {
		return Share{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byToken[token]
	if !ok {
		return Share{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Share, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Share{}
	for _, share := range r.byID {
		if share.UserID == userID {
			out = append(out, share)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, shareID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.byID[shareID]
	if !ok || share.UserID != userID {
		return ErrNotFound
	}
	delete(r.byID, shareID)
	delete(r.byToken, share.Token)
	return nil
}

func (r *MemoryRepo) UpdateExpiration(ctx context.Context, userID, shareID string, expiresAt *time.Time) (Share, error) {
	if err := ctx.Err(); err != nil {
		return Share{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.byID[shareID]
	if !ok || share.UserID != userID {
		return Share{}, ErrNotFound
	}
	share.ExpiresAt = expiresAt
	r.byID[shareID] = share
	return share, nil
}

var _ Repo = (*MemoryRepo)(nil)
