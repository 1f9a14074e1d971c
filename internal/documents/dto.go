package documents

import (
	"encoding/json"
	"time"
)

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string          `json:"documentId"`
	Kind       string          `json:"kind"`
	Title      string          `json:"title"`
	Document   json.RawMessage `json:"document,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func toResponse(doc Document, withBody bool) DocumentResponse {
	resp := DocumentResponse{
		DocumentID: doc.ID,
		Kind:       string(doc.Kind),
		Title:      doc.Title,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
	if withBody {
		resp.Document = doc.Payload
	}
	return resp
}
