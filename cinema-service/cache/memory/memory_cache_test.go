package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T, maxSize int, ttl time.Duration, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	s := NewStore(maxSize, ttl, append([]Option{WithClock(clock.Now)}, opts...)...)
	t.Cleanup(s.Shutdown)
	return s, clock
}

func TestStore_PutThenGet(t *testing.T) {
	s, _ := newTestStore(t, 10, time.Minute)

	s.Put("movie::id:1", "Inception")

	got, ok := s.Get("movie::id:1")
	require.True(t, ok)
	assert.Equal(t, "Inception", got)

	_, ok = s.Get("movie::id:2")
	assert.False(t, ok)
}

func TestStore_ZeroTTLNeverHits(t *testing.T) {
	s, _ := newTestStore(t, 10, 0)

	s.Put("k", 1)

	_, ok := s.Get("k")
	assert.False(t, ok)

	select {
	case <-s.Done():
	default:
		t.Fatal("sweep should not run without a TTL")
	}
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	s, clock := newTestStore(t, 2, time.Hour)

	s.Put("a", "A")
	clock.Advance(time.Millisecond)
	s.Put("b", "B")
	clock.Advance(time.Millisecond)
	s.Put("c", "C")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
	got, ok := s.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", got)
	got, ok = s.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", got)
}

func TestStore_GetRefreshesEvictionOrder(t *testing.T) {
	s, clock := newTestStore(t, 2, time.Hour)

	s.Put("a", "A")
	clock.Advance(time.Millisecond)
	s.Put("b", "B")
	clock.Advance(time.Millisecond)
	_, ok := s.Get("a")
	require.True(t, ok)
	clock.Advance(time.Millisecond)
	s.Put("c", "C")

	_, ok = s.Get("a")
	assert.True(t, ok)
	_, ok = s.Get("b")
	assert.False(t, ok)
}

func TestStore_OverwriteAtCapacityKeepsOthers(t *testing.T) {
	s, clock := newTestStore(t, 2, time.Hour)

	s.Put("a", "A")
	clock.Advance(time.Millisecond)
	s.Put("b", "B")
	clock.Advance(time.Millisecond)
	s.Put("a", "A2")

	assert.Equal(t, 2, s.Len())
	got, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", got)
	_, ok = s.Get("b")
	assert.True(t, ok)
}

func TestStore_NeverExceedsMaxSize(t *testing.T) {
	s, clock := newTestStore(t, 5, time.Hour)

	for i := 0; i < 50; i++ {
		s.Put(fmt.Sprintf("k%d", i), i)
		clock.Advance(time.Millisecond)
		assert.LessOrEqual(t, s.Len(), 5)
	}
}

func TestStore_TTLBoundary(t *testing.T) {
	s, clock := newTestStore(t, 10, 600000*time.Millisecond)

	s.Put("movie:1", "M")

	clock.Advance(599999 * time.Millisecond)
	got, ok := s.Get("movie:1")
	require.True(t, ok)
	assert.Equal(t, "M", got)

	clock.Advance(2 * time.Millisecond)
	_, ok = s.Get("movie:1")
	assert.False(t, ok)
}

func TestStore_TTLExpiresWithoutAnyRead(t *testing.T) {
	s, clock := newTestStore(t, 10, 600000*time.Millisecond)

	s.Put("movie:1", "M")
	clock.Advance(600001 * time.Millisecond)

	_, ok := s.Get("movie:1")
	assert.False(t, ok)
}

func TestStore_ExpiredEntriesWaitForSweep(t *testing.T) {
	s, clock := newTestStore(t, 10, time.Minute)

	s.Put("old", 1)
	clock.Advance(30 * time.Second)
	s.Put("new", 2)
	clock.Advance(31 * time.Second)

	_, ok := s.Get("old")
	assert.False(t, ok)
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, 1, s.PurgeExpired())
	assert.Equal(t, 1, s.Len())
	_, ok = s.Get("new")
	assert.True(t, ok)
}

func TestStore_EvictAndClear(t *testing.T) {
	s, _ := newTestStore(t, 10, time.Minute)

	s.Put("a", 1)
	s.Put("b", 2)

	s.Evict("a")
	s.Evict("missing")
	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok = s.Get("b")
	assert.False(t, ok)
}

func TestStore_ShutdownIsIdempotentAndStoreStaysUsable(t *testing.T) {
	s := NewStore(10, time.Minute)

	s.Shutdown()
	s.Shutdown()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop")
	}

	s.Put("k", "v")
	got, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestStore_SweepRemovesExpiredEntries(t *testing.T) {
	s := NewStore(10, 20*time.Millisecond)
	t.Cleanup(s.Shutdown)

	s.Put("k", "v")

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestStore_NonPositiveMaxSizeUsesDefault(t *testing.T) {
	s, _ := newTestStore(t, 0, time.Hour)

	for i := 0; i < DefaultMaxSize+10; i++ {
		s.Put(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, DefaultMaxSize, s.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(16, 5*time.Millisecond)
	t.Cleanup(s.Shutdown)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				k := fmt.Sprintf("k%d", (g*31+i)%40)
				switch i % 4 {
				case 0:
					s.Put(k, i)
				case 1:
					s.Get(k)
				case 2:
					s.Evict(k)
				default:
					if i%100 == 3 {
						s.Clear()
					}
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 16)
}

func TestStore_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, clock := newTestStore(t, 1, time.Minute, WithMetrics(NewMetrics(reg)))

	s.Put("a", 1)
	s.Get("a")
	s.Get("missing")
	clock.Advance(time.Millisecond)
	s.Put("b", 2)
	clock.Advance(2 * time.Minute)
	s.PurgeExpired()

	values := gather(t, reg)
	assert.Equal(t, 1.0, values["cinema_cache_hits_total"])
	assert.Equal(t, 1.0, values["cinema_cache_misses_total"])
	assert.Equal(t, 1.0, values["cinema_cache_capacity_evictions_total"])
	assert.Equal(t, 1.0, values["cinema_cache_expirations_total"])
	assert.Equal(t, 0.0, values["cinema_cache_entries"])
}

func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}
