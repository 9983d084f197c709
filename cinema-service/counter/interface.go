package counter

import (
	"context"
)

// VisitCounter counts requests per URL.
type VisitCounter interface {
	// Increment records one visit and returns the new total.
	Increment(ctx context.Context, url string) (int64, error)

	// Count returns the number of visits, zero for unseen URLs.
	Count(ctx context.Context, url string) (int64, error)

	Ping(ctx context.Context) error
}
