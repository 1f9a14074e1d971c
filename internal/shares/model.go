package shares

import (
	"time"

	"docshare-backend/document/model"
)

// Share grants read access to one stored document to anyone holding Token.
// A nil ExpiresAt never expires. Whether a share is active is computed at
// read time and never stored.
type Share struct {
	ID        string
	UserID    string
	Kind      model.Kind
	TargetID  string
	Token     string
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Caller is the identity performing an owner-scoped operation.
type Caller struct {
	UserID string
	Guest  bool
}

func (c Caller) authenticated() bool {
	return c.UserID != "" && !c.Guest
}

// ShareOptions tunes a new share.
type ShareOptions struct {
	ExpiresAt *time.Time
}

// ShareResult is returned to the owner after minting a share.
type ShareResult struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// Owner is the public profile shown next to shared content.
type Owner struct {
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// SharedContent is what a token resolves to. Exactly one of Brand and CV is set,
// matching Kind.
type SharedContent struct {
	Kind      model.Kind           `json:"kind"`
	Brand     *model.BrandDocument `json:"brand,omitempty"`
	CV        *model.CVDocument    `json:"cv,omitempty"`
	Owner     Owner                `json:"owner"`
	CreatedAt time.Time            `json:"createdAt"`
	ExpiresAt *time.Time           `json:"expiresAt"`
}

// Title returns the shared document's display title.
func (s SharedContent) Title() string {
	switch {
	case s.Brand != nil:
		return s.Brand.Title
	case s.CV != nil:
		return s.CV.Name
	default:
		return ""
	}
}

// ListedShare is a share plus the best-effort title of its target.
type ListedShare struct {
	Share
	Title string
}

// IsShareValid reports whether s may be resolved at now.
func IsShareValid(s Share, now time.Time) bool {
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// ExpirationPreset is one entry of the expiry picker. A nil ExpiresAt means never.
type ExpirationPreset struct {
	Label     string     `json:"label"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// ExpirationPresets returns the fixed expiry menu relative to now.
func ExpirationPresets(now time.Time) []ExpirationPreset {
	at := func(t time.Time) *time.Time { return &t }
	return []ExpirationPreset{
		{Label: "Never", ExpiresAt: nil},
		{Label: "1 Hour", ExpiresAt: at(now.Add(time.Hour))},
		{Label: "1 Day", ExpiresAt: at(now.AddDate(0, 0, 1))},
		{Label: "1 Week", ExpiresAt: at(now.AddDate(0, 0, 7))},
		{Label: "1 Month", ExpiresAt: at(now.AddDate(0, 1, 0))},
		{Label: "3 Months", ExpiresAt: at(now.AddDate(0, 3, 0))},
	}
}

func untitled(kind model.Kind) string {
	if kind == model.KindCV {
		return "Untitled CV"
	}
	return "Untitled Brand"
}
