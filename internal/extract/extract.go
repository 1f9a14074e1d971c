package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"

	"docshare-backend/internal/shared/storage/object"
)

const maxInspectBytes = 32 << 20

// PDFInfo is what a reader sees in a finished PDF.
type PDFInfo struct {
	Pages int
	Text  string
}

// PDF parses data and returns its page count and plain text.
// Library used: github.com/ledongthuc/pdf.
func PDF(ctx context.Context, data []byte) (PDFInfo, error) {
	if err := ctx.Err(); err != nil {
		return PDFInfo{}, err
	}
	if len(data) == 0 {
		return PDFInfo{}, errors.New("empty pdf data")
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return PDFInfo{}, errors.New("missing pdf header")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFInfo{}, fmt.Errorf("open pdf: %w", err)
	}
	info := PDFInfo{Pages: reader.NumPage()}

	plain, err := reader.GetPlainText()
	if err != nil {
		return info, fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return info, fmt.Errorf("read pdf text: %w", err)
	}
	info.Text = buf.String()
	return info, nil
}

// StoredPDF inspects a PDF held in an object store.
func StoredPDF(ctx context.Context, store object.ObjectStore, key string) (PDFInfo, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return PDFInfo{}, fmt.Errorf("inspect key=%s: %w", key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, maxInspectBytes+1))
	if err != nil {
		return PDFInfo{}, fmt.Errorf("inspect key=%s: read: %w", key, err)
	}
	if len(raw) > maxInspectBytes {
		return PDFInfo{}, fmt.Errorf("inspect key=%s: object larger than %d bytes", key, maxInspectBytes)
	}
	info, err := PDF(ctx, raw)
	if err != nil {
		return info, fmt.Errorf("inspect key=%s: %w", key, err)
	}
	return info, nil
}
