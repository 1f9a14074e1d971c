package toolkit

import (
	"bytes"
	"math"
	"testing"
)

func TestPDFWriterPageSizes(t *testing.T) {
	factory := NewPDFWriterFactory(loadFonts(t))

	for _, tt := range []struct {
		spec          PageSpec
		width, height float64
	}{
		{spec: PageSpec{Format: "a4", Orientation: "portrait"}, width: 210, height: 297},
		{spec: PageSpec{Format: "letter", Orientation: "landscape"}, width: 279.4, height: 215.9},
	} {
		w, err := factory.NewPageWriter(tt.spec)
		if err != nil {
			t.Fatalf("%+v: %v", tt.spec, err)
		}
		width, height := w.PageSize()
		if math.Abs(width-tt.width) > 0.5 || math.Abs(height-tt.height) > 0.5 {
			t.Fatalf("%+v: page %.1fx%.1f, want %.1fx%.1f", tt.spec, width, height, tt.width, tt.height)
		}
	}
}

func TestPDFWriterRejectsUnknownFormat(t *testing.T) {
	factory := NewPDFWriterFactory(loadFonts(t))
	if _, err := factory.NewPageWriter(PageSpec{Format: "a3"}); err == nil {
		t.Fatalf("expected error for a3")
	}
	if _, err := factory.NewPageWriter(PageSpec{Orientation: "diagonal"}); err == nil {
		t.Fatalf("expected error for diagonal orientation")
	}
}

func TestPDFWriterWritesPages(t *testing.T) {
	w, err := NewPDFWriterFactory(loadFonts(t)).NewPageWriter(PageSpec{})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	w.AddPage()
	w.SetFont(true, 16)
	w.Text(20, 20, "Heading • with bullet")
	lines := w.SplitText("a fairly long sentence that needs to wrap across several lines of output", 40)
	if len(lines) < 2 {
		t.Fatalf("expected wrapped lines, got %d", len(lines))
	}
	w.AddPage()
	if w.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", w.PageCount())
	}

	var buf bytes.Buffer
	if err := w.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}
