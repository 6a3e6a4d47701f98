// Package refresh wires up the cron job that periodically re-aggregates
// the listing and caches the result in Redis so read traffic is served
// from a warm snapshot between refreshes.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"talentbridge/listing-service/internal/listing"
)

// SnapshotKey is the Redis key holding the aggregated listing as JSON.
const SnapshotKey = "listing:snapshot"

// Refresher wraps robfig/cron and manages the snapshot refresh loop.
type Refresher struct {
	cron    *cron.Cron
	agg     *listing.Aggregator
	rdb     *redis.Client
	spec    string        // cron spec, e.g. "@every 15m"
	snapTTL time.Duration // snapshot outlives two intervals, then expires
}

// New creates a Refresher that fires every intervalMinutes minutes.
func New(agg *listing.Aggregator, rdb *redis.Client, intervalMinutes int) *Refresher {
	return &Refresher{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		agg:     agg,
		rdb:     rdb,
		spec:    fmt.Sprintf("@every %dm", intervalMinutes),
		snapTTL: time.Duration(2*intervalMinutes) * time.Minute,
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so reads are warm without waiting for the first tick.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.spec, func() {
		r.runRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	r.cron.Start()
	log.Printf("[refresh] Cron started — spec: %s", r.spec)

	// Warm the snapshot on startup (non-blocking)
	go r.runRefresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (r *Refresher) Stop() {
	r.cron.Stop()
	log.Println("[refresh] Cron stopped")
}

// runRefresh aggregates once and replaces the cached snapshot. A failed
// refresh keeps the previous snapshot; the next tick retries.
func (r *Refresher) runRefresh(ctx context.Context) {
	items, err := r.agg.Aggregate(ctx)
	if err != nil {
		log.Printf("[refresh] Aggregate error: %v", err)
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		log.Printf("[refresh] json.Marshal error: %v", err)
		return
	}

	if err := r.rdb.Set(ctx, SnapshotKey, data, r.snapTTL).Err(); err != nil {
		log.Printf("[refresh] snapshot cache write error: %v", err)
		return
	}

	log.Printf("[refresh] Snapshot refreshed — %d opportunities", len(items))
}
