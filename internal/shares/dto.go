package shares

import "time"

type createShareRequest struct {
	Kind      string     `json:"kind"`
	TargetID  string     `json:"targetId"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type updateShareRequest struct {
	ExpiresAt *time.Time `json:"expiresAt"`
}

// ShareResponse is the owner-facing representation of a share.
type ShareResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	TargetID  string     `json:"targetId"`
	Title     string     `json:"title,omitempty"`
	URL       string     `json:"url"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (s *Service) toResponse(share Share, title string, now time.Time) ShareResponse {
	return ShareResponse{
		ID:        share.ID,
		Kind:      string(share.Kind),
		TargetID:  share.TargetID,
		Title:     title,
		URL:       s.ShareURL(share.Token),
		Active:    IsShareValid(share, now),
		CreatedAt: share.CreatedAt,
		ExpiresAt: share.ExpiresAt,
	}
}
