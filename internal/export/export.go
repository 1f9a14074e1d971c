// Package export holds the result and error types shared by the exporters.
package export

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrToolUnavailable means the rendering toolkit could not be loaded.
	ErrToolUnavailable = errors.New("export tool unavailable")
	// ErrExportFailed wraps any rasterize, layout or encode failure.
	ErrExportFailed = errors.New("export failed")
	// ErrInvalidOptions is returned for options no export can satisfy.
	ErrInvalidOptions = errors.New("invalid export options")
)

// Failed wraps reason as ErrExportFailed, keeping the reason text in the message.
// Errors that already carry an export sentinel pass through unchanged.
func Failed(reason error) error {
	if reason == nil {
		return nil
	}
	if errors.Is(reason, ErrToolUnavailable) || errors.Is(reason, ErrExportFailed) || errors.Is(reason, ErrInvalidOptions) {
		return reason
	}
	if errors.Is(reason, context.Canceled) || errors.Is(reason, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrExportFailed, reason)
	}
	return fmt.Errorf("%w: %v", ErrExportFailed, reason)
}

// Result is a finished export. URL is a revocable handle minted for Blob;
// the caller owns its release.
type Result struct {
	Blob     []byte
	URL      string
	Filename string
	MimeType string
}

// URLMinter turns export bytes into a retrievable, revocable URL.
type URLMinter interface {
	Mint(ctx context.Context, data []byte, filename, mimeType string) (string, error)
}
