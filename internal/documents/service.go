package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docshare-backend/document/model"
)

// Service contains business logic for documents.
type Service struct {
	Repo DocumentsRepo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo DocumentsRepo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// CreateBrand validates and stores a brand kit.
func (s *Service) CreateBrand(ctx context.Context, userID string, brand model.BrandDocument) (Document, error) {
	if err := brand.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.create(ctx, userID, model.KindBrand, strings.TrimSpace(brand.Title), brand)
}

// CreateCV validates and stores a CV.
func (s *Service) CreateCV(ctx context.Context, userID string, cv model.CVDocument) (Document, error) {
	if err := cv.Validate(); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.create(ctx, userID, model.KindCV, strings.TrimSpace(cv.Name), cv)
}

func (s *Service) create(ctx context.Context, userID string, kind model.Kind, title string, body any) (Document, error) {
	if userID == "" {
		return Document{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Document{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}

	now := s.now()
	doc := Document{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns a document owned by userID.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if _, err := uuid.Parse(documentID); err != nil {
		return Document{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// Lookup returns a document for any owner. Callers must already hold a
// capability for it, such as a share token.
func (s *Service) Lookup(ctx context.Context, documentID string) (Document, error) {
	if _, err := uuid.Parse(documentID); err != nil {
		return Document{}, ErrNotFound
	}
	return s.Repo.Get(ctx, documentID)
}

// List returns a page of the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, kind model.Kind, limit, offset int) ([]Document, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	return s.Repo.ListByUser(ctx, userID, kind, limit, offset)
}

// Delete removes a document owned by userID.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	if _, err := uuid.Parse(documentID); err != nil {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, userID, documentID)
}

// ClaimGuest moves a guest's documents to a signed-in user.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if guestUserID == "" || authedUserID == "" {
		return 0, ErrInvalidInput
	}
	return s.Repo.ClaimGuest(ctx, guestUserID, authedUserID)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
