package extract

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"docshare-backend/internal/export/toolkit"
	"docshare-backend/internal/shared/storage/object/memory"
)

func twoPagePDF(t *testing.T) []byte {
	t.Helper()
	fonts, err := toolkit.LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	w, err := toolkit.NewPDFWriterFactory(fonts).NewPageWriter(toolkit.PageSpec{})
	if err != nil {
		t.Fatalf("NewPageWriter: %v", err)
	}
	w.AddPage()
	w.SetFont(false, 12)
	w.Text(20, 30, "first page")
	w.AddPage()
	w.Text(20, 30, "second page")

	var buf bytes.Buffer
	if err := w.Output(&buf); err != nil {
		t.Fatalf("Output: %v", err)
	}
	return buf.Bytes()
}

func TestPDFCountsPages(t *testing.T) {
	info, err := PDF(context.Background(), twoPagePDF(t))
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if info.Pages != 2 {
		t.Fatalf("expected 2 pages, got %d", info.Pages)
	}
}

func TestPDFRejectsNonPDF(t *testing.T) {
	if _, err := PDF(context.Background(), []byte("\x89PNG....")); err == nil {
		t.Fatal("expected error for non-pdf bytes")
	}
	if _, err := PDF(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestStoredPDF(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if _, err := store.Put(ctx, "exports/a.pdf", "application/pdf", bytes.NewReader(twoPagePDF(t))); err != nil {
		t.Fatalf("Put: %v", err)
	}

	info, err := StoredPDF(ctx, store, "exports/a.pdf")
	if err != nil {
		t.Fatalf("StoredPDF: %v", err)
	}
	if info.Pages != 2 {
		t.Fatalf("expected 2 pages, got %d", info.Pages)
	}

	_, err = StoredPDF(ctx, store, "exports/missing.pdf")
	if err == nil || !strings.Contains(err.Error(), "exports/missing.pdf") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}
