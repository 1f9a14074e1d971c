package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docshare-backend/internal/shared/util"
)

const maxHandleAttempts = 50

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromAuth persists the OAuth identity and returns the stored user with
// its handle. New users get a handle derived from their name or email.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" {
		return User{}, errors.New("user id is required")
	}
	user.DisplayName = strings.TrimSpace(user.DisplayName)
	if user.DisplayName == "" {
		user.DisplayName = emailLocalPart(user.Email)
	}

	existing, err := s.Repo.GetByID(ctx, user.ID)
	switch {
	case err == nil && existing.Handle != "":
		user.Handle = existing.Handle
	case err == nil || errors.Is(err, ErrNotFound):
		handle, err := s.assignHandle(ctx, user)
		if err != nil {
			return User{}, err
		}
		user.Handle = handle
	default:
		return User{}, err
	}

	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// GetProfile returns the public profile of userID.
func (s *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return user.Profile(), nil
}

func (s *Service) assignHandle(ctx context.Context, user User) (string, error) {
	base := util.Slugify(user.DisplayName, "")
	if base == "" {
		base = util.Slugify(emailLocalPart(user.Email), "user")
	}
	for i := 1; i <= maxHandleAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := s.Repo.HandleTaken(ctx, candidate, user.ID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	// Fall back to a suffix derived from the user id.
	return base + "-" + util.HashUserKey(user.ID)[:8], nil
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}
