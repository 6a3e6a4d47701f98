// Package gateway defines the remote data gateway consumed by the listing
// and favorites services, plus its PostgreSQL implementation.
//
// The gateway owns persistence; callers own retry policy. Every operation
// takes a context so callers can bound it with a deadline.
package gateway

import (
	"context"
	"fmt"

	"talentbridge/listing-service/internal/model"
)

// Gateway exposes the CRUD-style queries the service core depends on.
type Gateway interface {
	// FetchActive returns all postings of the given kind with status
	// "active", newest first. An empty slice is a valid result.
	FetchActive(ctx context.Context, kind model.Kind) ([]model.RawRecord, error)

	// FetchFavoriteRelations returns the opportunity ids the user has saved
	// for the given kind.
	FetchFavoriteRelations(ctx context.Context, userID string, kind model.Kind) ([]string, error)

	// InsertFavoriteRelation persists a saved link. Inserting a link that
	// already exists is a no-op at the storage layer.
	InsertFavoriteRelation(ctx context.Context, userID, opportunityID string, kind model.Kind) error

	// DeleteFavoriteRelation removes a saved link. Deleting a missing link
	// is not an error.
	DeleteFavoriteRelation(ctx context.Context, userID, opportunityID string, kind model.Kind) error

	// ExistsFavoriteRelation reports whether the saved link is present.
	ExistsFavoriteRelation(ctx context.Context, userID, opportunityID string, kind model.Kind) (bool, error)
}

// ErrUnknownKind is returned when an operation receives a kind the gateway
// has no table mapping for.
var ErrUnknownKind = fmt.Errorf("unknown opportunity kind")
