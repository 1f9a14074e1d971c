package blobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"docshare-backend/internal/shared/telemetry"
)

// Reaper periodically revokes handles older than a TTL so abandoned export
// URLs do not pin storage forever.
type Reaper struct {
	registry *Registry
	ttl      time.Duration
	cron     *cron.Cron
}

// NewReaper schedules registry.Reap on spec (standard cron or @every syntax).
func NewReaper(registry *Registry, ttl time.Duration, spec string) (*Reaper, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("reaper ttl must be positive")
	}
	r := &Reaper{registry: registry, ttl: ttl, cron: cron.New()}
	if _, err := r.cron.AddFunc(spec, r.runOnce); err != nil {
		return nil, fmt.Errorf("schedule reaper %q: %w", spec, err)
	}
	return r, nil
}

// Start begins the schedule in the background.
func (r *Reaper) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running pass.
func (r *Reaper) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reaper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if n := r.registry.Reap(ctx, r.ttl); n > 0 {
		telemetry.Info("blobs.reaped", map[string]any{"count": n, "remaining": r.registry.Len()})
	}
}
