// Package blobs hands out revocable URLs for export bytes. A handle lives until
// its holder revokes it or the reaper finds it older than the TTL.
package blobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docshare-backend/internal/shared/metrics"
	"docshare-backend/internal/shared/storage/object"
	"docshare-backend/internal/shared/telemetry"
	"docshare-backend/internal/shared/util"
)

// ErrNotFound is returned for unknown or revoked handles.
var ErrNotFound = errors.New("blob not found")

// Handle describes one minted URL.
type Handle struct {
	ID        string
	Key       string
	Filename  string
	MimeType  string
	SizeBytes int64
	CreatedAt time.Time
}

// Registry mints, resolves and revokes handles over an object store.
type Registry struct {
	store  object.ObjectStore
	origin string
	now    func() time.Time

	mu      sync.RWMutex
	handles map[string]Handle
}

// NewRegistry builds a registry whose URLs are rooted at origin (scheme://host).
func NewRegistry(store object.ObjectStore, origin string) *Registry {
	return &Registry{
		store:   store,
		origin:  strings.TrimRight(origin, "/"),
		now:     time.Now,
		handles: make(map[string]Handle),
	}
}

// URLFor returns the public URL of id.
func (r *Registry) URLFor(id string) string {
	return r.origin + "/api/v1/blobs/" + id
}

// Mint stores data and returns a fresh URL for it. Every call yields a distinct handle.
func (r *Registry) Mint(ctx context.Context, data []byte, filename, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("refusing to mint empty blob")
	}
	name, err := util.SanitizeFileName(filename)
	if err != nil {
		name = "export"
	}

	id := uuid.NewString()
	key := "exports/" + id + "/" + name
	size, err := r.store.Put(ctx, key, mimeType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}

	r.mu.Lock()
	r.handles[id] = Handle{
		ID:        id,
		Key:       key,
		Filename:  name,
		MimeType:  mimeType,
		SizeBytes: size,
		CreatedAt: r.now().UTC(),
	}
	r.mu.Unlock()
	return r.URLFor(id), nil
}

// Lookup returns the handle for id.
func (r *Registry) Lookup(id string) (Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[id]
	if !ok {
		return Handle{}, ErrNotFound
	}
	return h, nil
}

// Open returns the handle and a reader over its bytes.
func (r *Registry) Open(ctx context.Context, id string) (Handle, io.ReadCloser, error) {
	h, err := r.Lookup(id)
	if err != nil {
		return Handle{}, nil, err
	}
	body, err := r.store.Open(ctx, h.Key)
	if errors.Is(err, object.ErrNotFound) {
		return Handle{}, nil, ErrNotFound
	}
	if err != nil {
		return Handle{}, nil, fmt.Errorf("open blob %s: %w", id, err)
	}
	return h, body, nil
}

// PresignedURL returns a direct download URL when the store supports it.
func (r *Registry) PresignedURL(ctx context.Context, id string, ttl time.Duration) (string, bool, error) {
	presigner, ok := r.store.(object.Presigner)
	if !ok {
		return "", false, nil
	}
	h, err := r.Lookup(id)
	if err != nil {
		return "", true, err
	}
	u, err := presigner.PresignGet(ctx, h.Key, h.Filename, ttl)
	if err != nil {
		return "", true, err
	}
	return u, true, nil
}

// Revoke forgets id and deletes its bytes.
func (r *Registry) Revoke(ctx context.Context, id string) error {
	r.mu.Lock()
	h, ok := r.handles[id]
	delete(r.handles, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	metrics.IncBlobRevoked()
	if err := r.store.Delete(ctx, h.Key); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

// RevokeURL revokes the handle behind a URL minted by this registry.
func (r *Registry) RevokeURL(ctx context.Context, url string) error {
	prefix := r.URLFor("")
	if !strings.HasPrefix(url, prefix) {
		return ErrNotFound
	}
	return r.Revoke(ctx, strings.TrimPrefix(url, prefix))
}

// Reap revokes every handle created before now-ttl and returns how many went.
func (r *Registry) Reap(ctx context.Context, ttl time.Duration) int {
	cutoff := r.now().UTC().Add(-ttl)

	r.mu.RLock()
	var stale []string
	for id, h := range r.handles {
		if h.CreatedAt.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()
	sort.Strings(stale)

	reaped := 0
	for _, id := range stale {
		err := r.Revoke(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			telemetry.Warn("blobs.reap.delete_failed", map[string]any{"blob_id": id, "error": err})
		}
		reaped++
	}
	return reaped
}

// Len reports live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
