package listing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"talentbridge/listing-service/internal/gateway"
	"talentbridge/listing-service/internal/model"
)

// ErrFetchTimeout marks an aggregation that failed because the gateway did
// not answer within the configured deadline, as opposed to a data error.
// Callers can match it with errors.Is.
var ErrFetchTimeout = errors.New("listing fetch timed out")

const defaultFetchTimeout = 10 * time.Second

// Aggregator merges active jobs and internships from the gateway into one
// normalized collection sorted by posting date, newest first.
type Aggregator struct {
	gw      gateway.Gateway
	timeout time.Duration
}

// NewAggregator returns an Aggregator bounding each aggregation with the
// given timeout. A non-positive timeout falls back to the default.
func NewAggregator(gw gateway.Gateway, timeout time.Duration) *Aggregator {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Aggregator{gw: gw, timeout: timeout}
}

// Aggregate fetches both posting kinds concurrently and returns the merged
// collection. Either fetch failing fails the aggregation as a whole —
// a half-populated listing is never returned. An empty collection is a
// valid result, not an error.
func (a *Aggregator) Aggregate(ctx context.Context) ([]model.Opportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var jobs, internships []model.RawRecord

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if jobs, err = a.gw.FetchActive(ctx, model.KindJob); err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if internships, err = a.gw.FetchActive(ctx, model.KindInternship); err != nil {
			return fmt.Errorf("internships: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrFetchTimeout, err)
		}
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	merged := make([]model.Opportunity, 0, len(jobs)+len(internships))
	for _, r := range jobs {
		merged = append(merged, normalize(r, model.KindJob))
	}
	for _, r := range internships {
		merged = append(merged, normalize(r, model.KindInternship))
	}

	// Newest first; fetch order breaks ties.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PostedAt.After(merged[j].PostedAt)
	})

	return merged, nil
}
