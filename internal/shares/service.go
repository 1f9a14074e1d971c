package shares

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docshare-backend/document/model"
	"docshare-backend/internal/documents"
	"docshare-backend/internal/shared/metrics"
	"docshare-backend/internal/shared/telemetry"
	"docshare-backend/internal/users"
)

// DocumentSource reads stored documents. Get is owner-scoped; Lookup is not.
type DocumentSource interface {
	Get(ctx context.Context, userID, documentID string) (documents.Document, error)
	Lookup(ctx context.Context, documentID string) (documents.Document, error)
}

// ProfileSource reads public owner profiles.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (users.Profile, error)
}

// Service issues, resolves, lists and revokes share links.
type Service struct {
	Repo      Repo
	Documents DocumentSource
	Profiles  ProfileSource
	// Origin is the app origin that public share URLs are rooted at.
	Origin   string
	Now      func() time.Time
	NewToken func() (string, error)
}

// NewService constructs a Service.
func NewService(repo Repo, docs DocumentSource, profiles ProfileSource, origin string) *Service {
	return &Service{
		Repo:      repo,
		Documents: docs,
		Profiles:  profiles,
		Origin:    strings.TrimRight(origin, "/"),
		Now:       time.Now,
		NewToken:  GenerateToken,
	}
}

// ShareURL returns the public resolution URL for token.
func (s *Service) ShareURL(token string) string {
	return s.Origin + "/share/" + token
}

// ShareBrand mints a share link for a brand document owned by the caller.
func (s *Service) ShareBrand(ctx context.Context, caller Caller, documentID string, opts ShareOptions) (ShareResult, error) {
	return s.share(ctx, caller, model.KindBrand, documentID, opts)
}

// ShareCV mints a share link for a CV owned by the caller.
func (s *Service) ShareCV(ctx context.Context, caller Caller, documentID string, opts ShareOptions) (ShareResult, error) {
	return s.share(ctx, caller, model.KindCV, documentID, opts)
}

func (s *Service) share(ctx context.Context, caller Caller, kind model.Kind, documentID string, opts ShareOptions) (ShareResult, error) {
	if !caller.authenticated() {
		return ShareResult{}, ErrAuthRequired
	}
	now := s.now()
	if opts.ExpiresAt != nil && !opts.ExpiresAt.After(now) {
		return ShareResult{}, fmt.Errorf("%w: expiresAt must be in the future", ErrInvalidInput)
	}

	doc, err := s.Documents.Get(ctx, caller.UserID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return ShareResult{}, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
		}
		return ShareResult{}, err
	}
	if doc.Kind != kind {
		return ShareResult{}, fmt.Errorf("%w: document %s is not a %s", ErrNotFound, documentID, kind)
	}

	newToken := s.NewToken
	if newToken == nil {
		newToken = GenerateToken
	}
	token, err := newToken()
	if err != nil {
		return ShareResult{}, err
	}

	share := Share{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Kind:      kind,
		TargetID:  doc.ID,
		Token:     token,
		CreatedAt: now,
		ExpiresAt: utc(opts.ExpiresAt),
	}
	if err := s.Repo.Create(ctx, share); err != nil {
		return ShareResult{}, err
	}

	metrics.IncShareCreated()
	telemetry.Info("shares.created", map[string]any{
		"share_id":    share.ID,
		"user_id":     share.UserID,
		"kind":        string(kind),
		"document_id": share.TargetID,
		"expires":     share.ExpiresAt != nil,
	})

	return ShareResult{
		ID:        share.ID,
		Token:     token,
		URL:       s.ShareURL(token),
		ExpiresAt: share.ExpiresAt,
	}, nil
}

// GetSharedContent resolves token to its document and owner. It returns nil
// for malformed, unknown and expired tokens, and for shares whose document or
// owner can no longer be read.
func (s *Service) GetSharedContent(ctx context.Context, token string) *SharedContent {
	if !wellFormedToken(token) {
		metrics.IncShareResolved(false)
		return nil
	}
	content, err := s.resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			telemetry.Warn("shares.resolve.failed", map[string]any{"error": err})
		}
		metrics.IncShareResolved(false)
		return nil
	}
	metrics.IncShareResolved(true)
	return content
}

func (s *Service) resolve(ctx context.Context, token string) (*SharedContent, error) {
	share, err := s.Repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !IsShareValid(share, s.now()) {
		return nil, ErrNotFound
	}

	doc, err := s.Documents.Lookup(ctx, share.TargetID)
	if err != nil {
		return nil, fmt.Errorf("share %s: load document: %w", share.ID, err)
	}
	profile, err := s.Profiles.GetProfile(ctx, share.UserID)
	if err != nil {
		return nil, fmt.Errorf("share %s: load owner: %w", share.ID, err)
	}

	content := &SharedContent{
		Kind: share.Kind,
		Owner: Owner{
			DisplayName: profile.DisplayName,
			Handle:      profile.Handle,
			AvatarURL:   profile.AvatarURL,
		},
		CreatedAt: share.CreatedAt,
		ExpiresAt: share.ExpiresAt,
	}
	switch share.Kind {
	case model.KindBrand:
		brand, err := doc.Brand()
		if err != nil {
			return nil, fmt.Errorf("share %s: %w", share.ID, err)
		}
		content.Brand = &brand
	case model.KindCV:
		cv, err := doc.CV()
		if err != nil {
			return nil, fmt.Errorf("share %s: %w", share.ID, err)
		}
		content.CV = &cv
	default:
		return nil, fmt.Errorf("share %s: unknown kind %q", share.ID, share.Kind)
	}
	return content, nil
}

// GetUserShares lists the caller's shares newest first. Titles are resolved
// best effort; a failed lookup yields a placeholder instead of an error.
func (s *Service) GetUserShares(ctx context.Context, caller Caller) ([]ListedShare, error) {
	if !caller.authenticated() {
		return nil, ErrAuthRequired
	}
	records, err := s.Repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]ListedShare, 0, len(records))
	for _, share := range records {
		out = append(out, ListedShare{Share: share, Title: s.title(ctx, caller.UserID, share)})
	}
	return out, nil
}

func (s *Service) title(ctx context.Context, userID string, share Share) string {
	doc, err := s.Documents.Get(ctx, userID, share.TargetID)
	if err != nil {
		if !errors.Is(err, documents.ErrNotFound) {
			telemetry.Warn("shares.title.failed", map[string]any{"share_id": share.ID, "error": err})
		}
		return untitled(share.Kind)
	}
	if title := strings.TrimSpace(doc.Title); title != "" {
		return title
	}
	return untitled(share.Kind)
}

// DeleteShare revokes a share owned by the caller.
func (s *Service) DeleteShare(ctx context.Context, caller Caller, shareID string) error {
	if !caller.authenticated() {
		return ErrAuthRequired
	}
	if _, err := uuid.Parse(shareID); err != nil {
		return ErrNotFound
	}
	if err := s.Repo.Delete(ctx, caller.UserID, shareID); err != nil {
		return err
	}
	telemetry.Info("shares.deleted", map[string]any{"share_id": shareID, "user_id": caller.UserID})
	return nil
}

// UpdateShareExpiration sets or clears the expiry of a share owned by the caller.
func (s *Service) UpdateShareExpiration(ctx context.Context, caller Caller, shareID string, expiresAt *time.Time) (Share, error) {
	if !caller.authenticated() {
		return Share{}, ErrAuthRequired
	}
	if _, err := uuid.Parse(shareID); err != nil {
		return Share{}, ErrNotFound
	}
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return Share{}, fmt.Errorf("%w: expiresAt must be in the future", ErrInvalidInput)
	}
	return s.Repo.UpdateExpiration(ctx, caller.UserID, shareID, utc(expiresAt))
}

// ExpirationPresets returns the expiry menu relative to the service clock.
func (s *Service) ExpirationPresets() []ExpirationPreset {
	return ExpirationPresets(s.now())
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
