package toolkit

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PageSpec selects the paper size and orientation.
type PageSpec struct {
	Format      string // a4 or letter
	Orientation string // portrait or landscape
}

// PageWriter builds a paginated document in millimetres.
type PageWriter interface {
	PageSize() (width, height float64)
	AddPage()
	PageCount() int
	SetFont(bold bool, size float64)
	SplitText(text string, width float64) []string
	Text(x, y float64, text string)
	Output(w io.Writer) error
}

// PageWriterFactory opens a new writer per document.
type PageWriterFactory interface {
	NewPageWriter(spec PageSpec) (PageWriter, error)
}

const pdfFontFamily = "gofont"

// PDFWriterFactory builds fpdf documents with the bundled fonts embedded.
type PDFWriterFactory struct {
	fonts *Fonts
}

// NewPDFWriterFactory returns a factory embedding fonts into every document.
func NewPDFWriterFactory(fonts *Fonts) *PDFWriterFactory {
	return &PDFWriterFactory{fonts: fonts}
}

// NewPageWriter opens an empty document. No page is added yet.
func (f *PDFWriterFactory) NewPageWriter(spec PageSpec) (PageWriter, error) {
	size, err := pdfSize(spec.Format)
	if err != nil {
		return nil, err
	}
	orientation, err := pdfOrientation(spec.Orientation)
	if err != nil {
		return nil, err
	}

	doc := fpdf.New(orientation, "mm", size, "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("docshare", true)
	doc.AddUTF8FontFromBytes(pdfFontFamily, "", f.fonts.RegularTTF)
	doc.AddUTF8FontFromBytes(pdfFontFamily, "B", f.fonts.BoldTTF)
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("register fonts: %w", err)
	}
	return &pdfWriter{doc: doc}, nil
}

type pdfWriter struct {
	doc *fpdf.Fpdf
}

func (w *pdfWriter) PageSize() (float64, float64) {
	return w.doc.GetPageSize()
}

func (w *pdfWriter) AddPage() {
	w.doc.AddPage()
}

func (w *pdfWriter) PageCount() int {
	return w.doc.PageCount()
}

func (w *pdfWriter) SetFont(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	w.doc.SetFont(pdfFontFamily, style, size)
}

func (w *pdfWriter) SplitText(text string, width float64) []string {
	return w.doc.SplitText(text, width)
}

func (w *pdfWriter) Text(x, y float64, text string) {
	w.doc.Text(x, y, text)
}

func (w *pdfWriter) Output(out io.Writer) error {
	if err := w.doc.Error(); err != nil {
		return err
	}
	return w.doc.Output(out)
}

func pdfSize(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "a4":
		return "A4", nil
	case "letter":
		return "Letter", nil
	default:
		return "", fmt.Errorf("unsupported page format %q", format)
	}
}

func pdfOrientation(orientation string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(orientation)) {
	case "", "portrait", "p":
		return "P", nil
	case "landscape", "l":
		return "L", nil
	default:
		return "", fmt.Errorf("unsupported orientation %q", orientation)
	}
}
