package documents

import (
	"encoding/json"
	"fmt"
	"time"

	"docshare-backend/document/model"
)

// Document is a stored brand kit or CV owned by a user. Payload holds the
// JSON encoding of the kind's document shape.
type Document struct {
	ID        string
	UserID    string
	Kind      model.Kind
	Title     string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Brand maps the stored payload back to a BrandDocument.
func (d Document) Brand() (model.BrandDocument, error) {
	var out model.BrandDocument
	if d.Kind != model.KindBrand {
		return out, fmt.Errorf("%w: document %s is %q, not brand", ErrKindMismatch, d.ID, d.Kind)
	}
	if err := json.Unmarshal(d.Payload, &out); err != nil {
		return out, fmt.Errorf("decode brand payload: %w", err)
	}
	return out, nil
}

// CV maps the stored payload back to a CVDocument.
func (d Document) CV() (model.CVDocument, error) {
	var out model.CVDocument
	if d.Kind != model.KindCV {
		return out, fmt.Errorf("%w: document %s is %q, not cv", ErrKindMismatch, d.ID, d.Kind)
	}
	if err := json.Unmarshal(d.Payload, &out); err != nil {
		return out, fmt.Errorf("decode cv payload: %w", err)
	}
	return out, nil
}
