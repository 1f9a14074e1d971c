package model

import "testing"

func TestBrandValidate(t *testing.T) {
	doc := BrandDocument{
		Title:   "Acme",
		Palette: []PaletteColor{{Name: "Ink", Hex: "#112233"}, {Name: "Paper", Hex: "#fff"}},
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected valid brand, got %v", err)
	}
	if doc.PrimaryColor() != "#112233" {
		t.Fatalf("primary color should be first palette entry, got %q", doc.PrimaryColor())
	}

	doc.Palette = append(doc.Palette, PaletteColor{Name: "Bad", Hex: "blue"})
	if err := doc.Validate(); err == nil {
		t.Fatalf("expected invalid hex to fail")
	}

	if err := (BrandDocument{}).Validate(); err == nil {
		t.Fatalf("expected missing title to fail")
	}
}

func TestCVValidate(t *testing.T) {
	doc := CVDocument{
		Name:  "John Doe",
		Links: []Link{{Label: "Site", URL: "https://example.com"}},
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected valid cv, got %v", err)
	}

	doc.Links = []Link{{Label: "Bad", URL: "example.com"}}
	if err := doc.Validate(); err == nil {
		t.Fatalf("expected relative url to fail")
	}

	if err := (CVDocument{}).Validate(); err == nil {
		t.Fatalf("expected missing name to fail")
	}
}

func TestKindValid(t *testing.T) {
	if !KindBrand.Valid() || !KindCV.Valid() {
		t.Fatalf("expected brand and cv to be valid kinds")
	}
	if Kind("memo").Valid() {
		t.Fatalf("unexpected valid kind")
	}
}
