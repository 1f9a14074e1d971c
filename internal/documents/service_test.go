package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"docshare-backend/document/model"
)

func TestServiceCreateBrandRoundTripsPayload(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	brand := model.BrandDocument{
		Title: "  Ada Studio ",
		Palette: []model.PaletteColor{
			{Name: "Ink", Hex: "#112233"},
			{Name: "Paper", Hex: "#fff"},
		},
	}
	doc, err := svc.CreateBrand(ctx, "google:1", brand)
	if err != nil {
		t.Fatalf("CreateBrand: %v", err)
	}
	if doc.Title != "Ada Studio" || doc.Kind != model.KindBrand {
		t.Fatalf("unexpected document: %+v", doc)
	}

	stored, err := svc.Get(ctx, "google:1", doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got, err := stored.Brand()
	if err != nil {
		t.Fatalf("Brand: %v", err)
	}
	if got.PrimaryColor() != "#112233" || got.Palette[1].Name != "Paper" {
		t.Fatalf("palette order lost: %+v", got.Palette)
	}
}

func TestServiceRejectsInvalidDocuments(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.CreateBrand(ctx, "google:1", model.BrandDocument{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for untitled brand, got %v", err)
	}
	cv := model.CVDocument{Name: "Grace", Links: []model.Link{{Label: "site", URL: "example.com"}}}
	if _, err := svc.CreateCV(ctx, "google:1", cv); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for relative link, got %v", err)
	}
	if _, err := svc.List(ctx, "google:1", model.Kind("poster"), 10, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown kind, got %v", err)
	}
}

func TestServiceScopesByOwner(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	doc, err := svc.CreateCV(ctx, "google:1", model.CVDocument{Name: "Grace"})
	if err != nil {
		t.Fatalf("CreateCV: %v", err)
	}
	if _, err := svc.Get(ctx, "google:2", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
	if err := svc.Delete(ctx, "google:2", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting other owner's document, got %v", err)
	}
	if _, err := svc.Lookup(ctx, doc.ID); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if _, err := svc.Get(ctx, "google:1", "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestServiceListNewestFirstAndClaim(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, _ := svc.CreateBrand(ctx, "guest:g1", model.BrandDocument{Title: "First"})
	second, _ := svc.CreateCV(ctx, "guest:g1", model.CVDocument{Name: "Second"})

	docs, err := svc.List(ctx, "guest:g1", "", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != second.ID || docs[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", docs)
	}

	brands, _ := svc.List(ctx, "guest:g1", model.KindBrand, 10, 0)
	if len(brands) != 1 || brands[0].ID != first.ID {
		t.Fatalf("kind filter failed: %+v", brands)
	}

	n, err := svc.ClaimGuest(ctx, "guest:g1", "google:1")
	if err != nil || n != 2 {
		t.Fatalf("ClaimGuest: n=%d err=%v", n, err)
	}
	if _, err := svc.Get(ctx, "google:1", first.ID); err != nil {
		t.Fatalf("claimed document not visible to new owner: %v", err)
	}
}
