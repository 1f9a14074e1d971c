// Package toolkit loads the rendering tools shared by the exporters: parsed
// fonts, a raster canvas and a paginated document writer.
package toolkit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"docshare-backend/internal/export"
	"docshare-backend/internal/shared/telemetry"
)

// Toolkit is the loaded tool pair plus the fonts both sides draw with.
type Toolkit struct {
	Fonts  *Fonts
	Raster Rasterizer
	Pages  PageWriterFactory
}

// LoadFunc builds a Toolkit. It may be slow and may fail.
type LoadFunc func(ctx context.Context) (*Toolkit, error)

// Loader loads a Toolkit at most once per success. Concurrent callers during a
// load share one attempt and its outcome; a failed attempt is not kept, so the
// next call starts a fresh load.
type Loader struct {
	load  LoadFunc
	group singleflight.Group

	mu     sync.Mutex
	loaded *Toolkit
}

// NewLoader wraps load. A nil load uses Load.
func NewLoader(load LoadFunc) *Loader {
	if load == nil {
		load = Load
	}
	return &Loader{load: load}
}

// Get returns the cached toolkit or waits for an in-flight load. Failures are
// reported as export.ErrToolUnavailable.
func (l *Loader) Get(ctx context.Context) (*Toolkit, error) {
	if tk := l.cached(); tk != nil {
		return tk, nil
	}

	ch := l.group.DoChan("toolkit", func() (any, error) {
		if tk := l.cached(); tk != nil {
			return tk, nil
		}
		// Detached from the first caller so its cancellation does not fail
		// everyone else waiting on the same load.
		tk, err := l.load(context.WithoutCancel(ctx))
		if err != nil {
			telemetry.Error("toolkit.load.failed", map[string]any{"error": err})
			return nil, err
		}
		if tk == nil || tk.Fonts == nil || tk.Raster == nil || tk.Pages == nil {
			return nil, fmt.Errorf("toolkit loaded without required tools")
		}
		l.mu.Lock()
		l.loaded = tk
		l.mu.Unlock()
		telemetry.Info("toolkit.load.ok", nil)
		return tk, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", export.ErrToolUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %v", export.ErrToolUnavailable, res.Err)
		}
		return res.Val.(*Toolkit), nil
	}
}

// Reset drops the cached toolkit.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.loaded = nil
	l.mu.Unlock()
}

func (l *Loader) cached() *Toolkit {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}

// Load parses the bundled fonts and builds the gg rasterizer and fpdf writer.
func Load(ctx context.Context) (*Toolkit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fonts, err := LoadFonts()
	if err != nil {
		return nil, err
	}
	return &Toolkit{
		Fonts:  fonts,
		Raster: NewCanvasRasterizer(fonts),
		Pages:  NewPDFWriterFactory(fonts),
	}, nil
}
