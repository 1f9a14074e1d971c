package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Kind discriminates the two document shapes.
type Kind string

const (
	KindBrand Kind = "brand"
	KindCV    Kind = "cv"
)

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	return k == KindBrand || k == KindCV
}

// BrandDocument is a personal brand kit. Palette order is significant: the
// first entry is the primary brand color.
type BrandDocument struct {
	Title            string         `json:"title"`
	Tagline          string         `json:"tagline"`
	Voice            []string       `json:"voice"`
	SignaturePhrases []string       `json:"signaturePhrases"`
	Strengths        []string       `json:"strengths"`
	Weaknesses       []string       `json:"weaknesses"`
	Palette          []PaletteColor `json:"palette"`
	Fonts            FontPair       `json:"fonts"`
	Bio              string         `json:"bio"`
	Examples         []UsageExample `json:"examples"`
	Preset           string         `json:"preset"`
}

// PaletteColor is a named swatch.
type PaletteColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// FontPair names the heading and body typefaces.
type FontPair struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// UsageExample shows the brand voice in a given context.
type UsageExample struct {
	Context string `json:"context"`
	Text    string `json:"text"`
}

// PrimaryColor returns the first palette entry's hex, or "" when the palette is empty.
func (d BrandDocument) PrimaryColor() string {
	if len(d.Palette) == 0 {
		return ""
	}
	return d.Palette[0].Hex
}

// Validate enforces required fields and formatting rules for BrandDocument.
func (d BrandDocument) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("title is required")
	}
	for i, c := range d.Palette {
		if !hexPattern.MatchString(strings.TrimSpace(c.Hex)) {
			return fmt.Errorf("palette[%d].hex must be #rgb or #rrggbb", i)
		}
	}
	return nil
}

// CVDocument is a curriculum vitae. Experience order is significant.
type CVDocument struct {
	Name       string       `json:"name"`
	Role       string       `json:"role"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Skills     []string     `json:"skills"`
	Links      []Link       `json:"links"`
	Preset     string       `json:"preset"`
}

// Experience is one work history entry.
type Experience struct {
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	DateRange    string   `json:"dateRange"`
	Bullets      []string `json:"bullets"`
}

// Link is a labelled URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Validate enforces required fields and formatting rules for CVDocument.
func (d CVDocument) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	for i, link := range d.Links {
		if !isFullURL(strings.TrimSpace(link.URL)) {
			return fmt.Errorf("links[%d].url must be a full URL", i)
		}
	}
	return nil
}

var hexPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is a #rgb or #rrggbb color.
func IsHexColor(s string) bool {
	return hexPattern.MatchString(s)
}

func isFullURL(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
