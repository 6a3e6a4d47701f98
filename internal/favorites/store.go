package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"talentbridge/listing-service/internal/gateway"
	"talentbridge/listing-service/internal/model"
)

// ErrAuthRequired is returned by mutating operations when the store was
// built without a resolved user. No network call is made and no state
// changes.
var ErrAuthRequired = errors.New("authentication required")

// eventChannel carries favorite-toggle notifications for SSE forwarding.
const eventChannel = "EVENT_FAVORITE_TOGGLED"

// favKey is the composite favorites key. An id collision between a job
// and an internship is unrelated.
type favKey struct {
	kind model.Kind
	id   string
}

// Store mirrors the gateway's favorite relations for one user and exposes
// toggle/query operations with optimistic updates. The gateway stays the
// durable source of truth; the two may diverge only while a toggle's
// round trip is in flight.
//
// Presentation layers must treat the sets as read-only and always mutate
// through Toggle.
type Store struct {
	gw     gateway.Gateway
	rdb    *redis.Client // optional event publisher, may be nil
	userID string        // empty = no resolved user

	mu    sync.RWMutex
	saved map[favKey]struct{}

	// per-key serialization of toggles; overlapping toggles on the same
	// (kind, id) queue instead of racing
	keysMu sync.Mutex
	keys   map[favKey]*sync.Mutex
}

// New returns a Store for the given user. The user identity is an explicit
// dependency — an empty userID yields a store whose mutations fail with
// ErrAuthRequired.
func New(gw gateway.Gateway, rdb *redis.Client, userID string) *Store {
	return &Store{
		gw:     gw,
		rdb:    rdb,
		userID: userID,
		saved:  make(map[favKey]struct{}),
		keys:   make(map[favKey]*sync.Mutex),
	}
}

// Load fetches both relation sets from the gateway and replaces local
// state wholesale. Idempotent; safe to call on every user-identity change.
// Without a resolved user it clears both sets locally and returns nil.
// On fetch failure the previous state is kept.
func (s *Store) Load(ctx context.Context) error {
	if s.userID == "" {
		s.mu.Lock()
		s.saved = make(map[favKey]struct{})
		s.mu.Unlock()
		return nil
	}

	next := make(map[favKey]struct{})
	for _, kind := range []model.Kind{model.KindJob, model.KindInternship} {
		ids, err := s.gw.FetchFavoriteRelations(ctx, s.userID, kind)
		if err != nil {
			return fmt.Errorf("load %s favorites: %w", kind, err)
		}
		for _, id := range ids {
			next[favKey{kind: kind, id: id}] = struct{}{}
		}
	}

	s.mu.Lock()
	s.saved = next
	s.mu.Unlock()
	return nil
}

// IsSaved reports whether the opportunity is saved in local state.
func (s *Store) IsSaved(kind model.Kind, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.saved[favKey{kind: kind, id: id}]
	return ok
}

// SavedIDs returns the saved opportunity ids of one kind, sorted for a
// stable response shape.
func (s *Store) SavedIDs(kind model.Kind) []string {
	s.mu.RLock()
	ids := make([]string, 0)
	for k := range s.saved {
		if k.kind == kind {
			ids = append(ids, k.id)
		}
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Toggle flips the saved state of (kind, id) and returns the final state:
// the optimistic guess on success, the original state after a rollback.
// The local flip happens before the gateway round trip so callers see the
// intent immediately.
func (s *Store) Toggle(ctx context.Context, kind model.Kind, id string) (bool, error) {
	if s.userID == "" {
		return false, ErrAuthRequired
	}

	key := favKey{kind: kind, id: id}
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	op := newToggleOp()
	wasSaved := s.IsSaved(kind, id)

	s.setSaved(key, !wasSaved)
	if err := op.advance(PhaseOptimistic); err != nil {
		return wasSaved, err
	}

	if err := s.persist(ctx, key, wasSaved); err != nil {
		s.setSaved(key, wasSaved)
		if perr := op.advance(PhaseRolledBack); perr != nil {
			return wasSaved, perr
		}
		return wasSaved, fmt.Errorf("toggle favorite: %w", err)
	}

	if err := op.advance(PhaseCommitted); err != nil {
		return wasSaved, err
	}

	s.publishToggled(ctx, key, !wasSaved)
	return !wasSaved, nil
}

// persist issues the gateway mutation matching the optimistic flip: delete
// when the item was saved, check-then-insert otherwise. The existence
// check keeps a racing duplicate insert benign without assuming the
// gateway upserts on conflict.
func (s *Store) persist(ctx context.Context, key favKey, wasSaved bool) error {
	if wasSaved {
		return s.gw.DeleteFavoriteRelation(ctx, s.userID, key.id, key.kind)
	}

	exists, err := s.gw.ExistsFavoriteRelation(ctx, s.userID, key.id, key.kind)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.gw.InsertFavoriteRelation(ctx, s.userID, key.id, key.kind)
}

func (s *Store) setSaved(key favKey, saved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if saved {
		s.saved[key] = struct{}{}
	} else {
		delete(s.saved, key)
	}
}

func (s *Store) keyLock(key favKey) *sync.Mutex {
	s.keysMu.Lock()
	defer s.keysMu.Unlock()
	lock, ok := s.keys[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keys[key] = lock
	}
	return lock
}

// publishToggled notifies subscribers of a committed toggle (non-fatal).
func (s *Store) publishToggled(ctx context.Context, key favKey, saved bool) {
	if s.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]any{
		"type":          eventChannel,
		"userId":        s.userID,
		"opportunityId": key.id,
		"kind":          string(key.kind),
		"saved":         saved,
	})
	if err := s.rdb.Publish(ctx, eventChannel, event).Err(); err != nil {
		slog.Warn("publish EVENT_FAVORITE_TOGGLED failed", "err", err)
	}
}
