package account

import (
	"context"
	"errors"
	"strings"

	"docshare-backend/internal/shared/telemetry"
)

// DocumentClaimer reassigns guest-owned documents.
type DocumentClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

type Service struct {
	Documents DocumentClaimer
}

type ClaimResult struct {
	MigratedDocuments int `json:"migratedDocuments"`
}

func NewService(documents DocumentClaimer) *Service {
	return &Service{Documents: documents}
}

func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}
	if s.Documents == nil {
		return ClaimResult{}, errors.New("documents claimer not configured")
	}

	docCount, err := s.Documents.ClaimGuest(ctx, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	if docCount > 0 {
		telemetry.Info("account.guest_claimed", map[string]any{
			"user_id":   authedUserID,
			"documents": docCount,
		})
	}
	return ClaimResult{MigratedDocuments: docCount}, nil
}
