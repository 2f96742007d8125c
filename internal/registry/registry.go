// Package registry holds the process-wide capability cache. It is the only
// shared mutable state in the resolution core: resolvers read snapshots out
// of it and stay pure over what they are handed.
package registry

import (
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

const shardCount = 16

type shard struct {
	mu      sync.RWMutex
	entries map[string]domain.CapabilitySnapshot
}

// Registry caches normalized capability data per (exchange, coin). Writes
// are full-replacement snapshots from one exchange call, so concurrent puts
// need no merge logic: last write wins. Sharding keeps one in-flight
// resolution's writes from stalling another's reads.
type Registry struct {
	shards [shardCount]*shard
	ttl    time.Duration
	now    func() time.Time
}

func New(ttl time.Duration) *Registry {
	r := &Registry{ttl: ttl, now: time.Now}
	for i := range r.shards {
		r.shards[i] = &shard{entries: make(map[string]domain.CapabilitySnapshot)}
	}
	return r
}

func key(exchangeID, coin string) string {
	return exchangeID + "|" + strings.ToUpper(coin)
}

func (r *Registry) shardFor(k string) *shard {
	h := fnv.New32a()
	h.Write([]byte(k))
	return r.shards[h.Sum32()%shardCount]
}

// Get returns the cached capability when present and fresh. A present but
// expired entry is a stale miss: the snapshot is still returned so callers
// may fall back to it when a refresh fails, with fresh=false.
func (r *Registry) Get(exchangeID, coin string) (snap domain.CapabilitySnapshot, ok, fresh bool) {
	k := key(exchangeID, coin)
	s := r.shardFor(k)

	s.mu.RLock()
	snap, ok = s.entries[k]
	s.mu.RUnlock()

	if !ok {
		return domain.CapabilitySnapshot{}, false, false
	}
	return snap, true, !snap.Stale(r.ttl, r.now())
}

// Put overwrites any prior entry for the key.
func (r *Registry) Put(exchangeID, coin string, capability *domain.CoinCapability, fetchedAt time.Time) {
	k := key(exchangeID, coin)
	s := r.shardFor(k)

	s.mu.Lock()
	s.entries[k] = domain.CapabilitySnapshot{Capability: capability, FetchedAt: fetchedAt}
	s.mu.Unlock()
}

// Invalidate forces the next Get for the key to miss.
func (r *Registry) Invalidate(exchangeID, coin string) {
	k := key(exchangeID, coin)
	s := r.shardFor(k)

	s.mu.Lock()
	delete(s.entries, k)
	s.mu.Unlock()
}

// Len reports the number of cached entries, for diagnostics.
func (r *Registry) Len() int {
	total := 0
	for _, s := range r.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}
