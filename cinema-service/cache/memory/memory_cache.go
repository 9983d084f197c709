package memory

import (
	"sync"
	"time"

	"github.com/arunvm123/cinemabooking/cinema-service/cache"
	"go.uber.org/zap"
)

var _ cache.CacheRepository = (*Store)(nil)

const (
	DefaultMaxSize = 100
	DefaultTTL     = 600000 * time.Millisecond
)

type entry struct {
	value any
	// storedAt is set by Put and drives TTL expiry.
	storedAt time.Time
	// touchedAt is also refreshed by Get and drives capacity eviction.
	touchedAt time.Time
}

// Store is a bounded in-process cache with a uniform TTL. A single mutex
// guards the table for callers and the expiry sweep alike.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	metrics *Metrics
	logger  *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store and starts its expiry sweep, which runs once per
// TTL. A non-positive maxSize falls back to DefaultMaxSize. A non-positive ttl
// makes every entry expire immediately and disables the sweep.
func NewStore(maxSize int, ttl time.Duration, opts ...Option) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	s := &Store{
		entries: make(map[string]*entry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		logger:  zap.NewNop(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}

	if ttl > 0 {
		go s.sweep()
	} else {
		close(s.done)
	}
	return s
}

func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.maxSize {
		s.evictOldestLocked()
	}
	s.entries[key] = &entry{value: value, storedAt: now, touchedAt: now}
	s.metrics.Entries.Set(float64(len(s.entries)))
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		s.metrics.Misses.Inc()
		return nil, false
	}

	now := s.now()
	if s.expired(ent, now) {
		// Left in place for the sweep.
		s.metrics.Misses.Inc()
		return nil, false
	}

	ent.touchedAt = now
	s.metrics.Hits.Inc()
	return ent.value, true
}

func (s *Store) Evict(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	s.metrics.Entries.Set(float64(len(s.entries)))
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*entry, s.maxSize)
	s.metrics.Entries.Set(0)
}

// Len reports the number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Shutdown stops the expiry sweep. It is safe to call more than once and
// does not wait for the sweep goroutine to exit.
func (s *Store) Shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once the sweep goroutine has exited.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// PurgeExpired removes every expired entry and returns how many were removed.
func (s *Store) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, ent := range s.entries {
		if s.expired(ent, now) {
			delete(s.entries, k)
			removed++
		}
	}

	s.metrics.Expirations.Add(float64(removed))
	s.metrics.Entries.Set(float64(len(s.entries)))
	return removed
}

func (s *Store) expired(ent *entry, now time.Time) bool {
	return s.ttl <= 0 || now.Sub(ent.storedAt) > s.ttl
}

// evictOldestLocked drops the entry with the oldest touchedAt. Ties go to
// whichever the scan meets first.
func (s *Store) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, ent := range s.entries {
		if !found || ent.touchedAt.Before(oldest) {
			oldestKey, oldest, found = k, ent.touchedAt, true
		}
	}
	if found {
		delete(s.entries, oldestKey)
		s.metrics.Evictions.Inc()
	}
}

func (s *Store) sweep() {
	defer close(s.done)

	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.PurgeExpired(); n > 0 {
				s.logger.Debug("expired cache entries removed", zap.Int("count", n))
			}
		case <-s.stop:
			return
		}
	}
}
