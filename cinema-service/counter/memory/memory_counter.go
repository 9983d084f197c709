package memory

import (
	"context"
	"sync"

	"github.com/arunvm123/cinemabooking/cinema-service/counter"
)

// VisitCounter keeps counts in process memory. Counts are lost on restart.
type VisitCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

var _ counter.VisitCounter = (*VisitCounter)(nil)

func NewVisitCounter() *VisitCounter {
	return &VisitCounter{counts: make(map[string]int64)}
}

func (v *VisitCounter) Increment(ctx context.Context, url string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counts[url]++
	return v.counts[url], nil
}

func (v *VisitCounter) Count(ctx context.Context, url string) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.counts[url], nil
}

func (v *VisitCounter) Ping(ctx context.Context) error { return nil }
