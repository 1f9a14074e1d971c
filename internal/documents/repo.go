package documents

import (
	"context"

	"docshare-backend/document/model"
)

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	// Get fetches a document regardless of owner. Only share resolution uses it.
	Get(ctx context.Context, documentID string) (Document, error)
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	// ListByUser returns newest first. An empty kind lists both kinds.
	ListByUser(ctx context.Context, userID string, kind model.Kind, limit, offset int) ([]Document, error)
	Delete(ctx context.Context, userID, documentID string) error
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}
