// Package api implements the HTTP handlers for the listing service.
//
// All user-scoped routes expect an x-user-id header forwarded by the
// gateway that terminated authentication.
//
// Routes:
//
//	GET  /opportunities     → filtered, sorted combined listing
//	GET  /favorites         → caller's saved job/internship id sets
//	POST /favorites/toggle  → flip the saved state of one opportunity
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"

	"talentbridge/listing-service/internal/favorites"
	"talentbridge/listing-service/internal/gateway"
	"talentbridge/listing-service/internal/listing"
	"talentbridge/listing-service/internal/model"
	"talentbridge/listing-service/internal/refresh"
)

// Handler holds shared dependencies.
type Handler struct {
	agg *listing.Aggregator
	gw  gateway.Gateway
	rdb *redis.Client

	// one Store per user, created and loaded on first use
	storesMu sync.Mutex
	stores   map[string]*favorites.Store
}

// NewHandler returns a configured Handler.
func NewHandler(agg *listing.Aggregator, gw gateway.Gateway, rdb *redis.Client) *Handler {
	return &Handler{
		agg:    agg,
		gw:     gw,
		rdb:    rdb,
		stores: make(map[string]*favorites.Store),
	}
}

// RegisterRoutes mounts all listing-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/opportunities", h.handleOpportunities)
	mux.HandleFunc("/favorites", h.handleFavorites)
	mux.HandleFunc("/favorites/toggle", h.handleToggle)
}

// ─── Listing ─────────────────────────────────────────────────────────────────

// handleOpportunities handles GET /opportunities. Query parameters map
// directly onto the filter state; search and location are free-text terms.
func (h *Handler) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	items, err := h.currentListing(r)
	if err != nil {
		if errors.Is(err, listing.ErrFetchTimeout) {
			log.Printf("[api] listing fetch timed out: %v", err)
			jsonError(w, "listing fetch timed out", http.StatusGatewayTimeout)
			return
		}
		log.Printf("[api] aggregation error: %v", err)
		jsonError(w, "listing unavailable", http.StatusBadGateway)
		return
	}

	q := r.URL.Query()
	state := listing.FilterState{
		Type:         q.Get("type"),
		Location:     q.Get("locationFilter"),
		Company:      q.Get("company"),
		Skill:        q.Get("skill"),
		Experience:   q.Get("experience"),
		SalaryRange:  q.Get("salary"),
		RemoteWork:   q.Get("workMode"),
		Duration:     q.Get("duration"),
		PostedWithin: q.Get("posted"),
		Sort:         q.Get("sort"),
	}

	filtered := listing.FilterAndSort(items, state, q.Get("search"), q.Get("location"))
	jsonOK(w, filtered)
}

// currentListing serves the cached snapshot when one is present and falls
// back to a live aggregation otherwise. Cache read failures are treated
// as misses.
func (h *Handler) currentListing(r *http.Request) ([]model.Opportunity, error) {
	ctx := r.Context()

	if data, err := h.rdb.Get(ctx, refresh.SnapshotKey).Bytes(); err == nil {
		var items []model.Opportunity
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
		log.Printf("[api] snapshot decode error, falling back to live fetch")
	}

	return h.agg.Aggregate(ctx)
}

// ─── Favorites ───────────────────────────────────────────────────────────────

// handleFavorites handles GET /favorites.
func (h *Handler) handleFavorites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	store, ok := h.userStore(w, r)
	if !ok {
		return
	}

	jsonOK(w, map[string][]string{
		"jobs":        store.SavedIDs(model.KindJob),
		"internships": store.SavedIDs(model.KindInternship),
	})
}

// handleToggle handles POST /favorites/toggle.
func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	store, ok := h.userStore(w, r)
	if !ok {
		return
	}

	var body struct {
		Kind          string `json:"kind"`
		OpportunityID string `json:"opportunityId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OpportunityID == "" {
		jsonError(w, "body must contain kind and opportunityId", http.StatusBadRequest)
		return
	}

	kind, err := model.ParseKind(body.Kind)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := store.Toggle(r.Context(), kind, body.OpportunityID)
	if err != nil {
		if errors.Is(err, favorites.ErrAuthRequired) {
			jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		log.Printf("[api] toggle favorite error: %v", err)
		// saved reflects the rolled-back state
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"error": "failed to update favorites",
			"saved": saved,
		})
		return
	}

	jsonOK(w, map[string]any{"saved": saved})
}

// userStore resolves the caller's favorites store, loading it from the
// gateway on first use. Writes the error response itself when the caller
// is unauthenticated or the initial load fails.
func (h *Handler) userStore(w http.ResponseWriter, r *http.Request) (*favorites.Store, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return nil, false
	}

	h.storesMu.Lock()
	store, ok := h.stores[userID]
	h.storesMu.Unlock()
	if ok {
		return store, true
	}

	store = favorites.New(h.gw, h.rdb, userID)
	if err := store.Load(r.Context()); err != nil {
		log.Printf("[api] load favorites error: %v", err)
		jsonError(w, "failed to load favorites", http.StatusBadGateway)
		return nil, false
	}

	h.storesMu.Lock()
	// another request may have won the race; keep the first store
	if existing, ok := h.stores[userID]; ok {
		store = existing
	} else {
		h.stores[userID] = store
	}
	h.storesMu.Unlock()

	return store, true
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
