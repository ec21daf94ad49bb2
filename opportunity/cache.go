package opportunity

import (
	"sync"

	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
)

// DefaultTTLMs is the cache entry lifetime (spec §4.C6 "TTL is a single
// constant (default 5 seconds)").
const DefaultTTLMs int64 = 5000

// CacheEntry is one ArbCache slot: an ArbItem plus its insertion time (spec
// §4.C6 "Cache structure").
type CacheEntry struct {
	Item       ArbItem
	InsertedAt int64
}

// ArbCache is the coin-keyed opportunity cache (spec §4.C6). It never holds
// two entries for the same coin: a later insert replaces the earlier one
// (spec §3 invariant). Insertion order is tracked separately so pop_one can
// return the most recently inserted non-expired entry.
type ArbCache struct {
	mu      sync.Mutex
	ttlMs   int64
	entries map[sui.CoinType]*CacheEntry
	order   []sui.CoinType // insertion order, oldest first; duplicates removed on re-insert
}

// NewArbCache constructs an empty cache with the given TTL (use
// DefaultTTLMs for the protocol default).
func NewArbCache(ttlMs int64) *ArbCache {
	if ttlMs <= 0 {
		ttlMs = DefaultTTLMs
	}
	return &ArbCache{ttlMs: ttlMs, entries: make(map[sui.CoinType]*CacheEntry)}
}

// Insert replaces any existing entry for coin (spec §4.C6 "Insert policy").
func (c *ArbCache) Insert(coin sui.CoinType, poolID *sui.ObjectID, oppTxDigest sui.Digest, simCtx *simulator.SimulateCtx, source sui.Source) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[coin]; exists {
		c.removeFromOrderLocked(coin)
	}
	c.entries[coin] = &CacheEntry{
		Item: ArbItem{
			Coin: coin, PoolID: poolID, OppTxDigest: oppTxDigest, SimCtx: simCtx, Source: source,
		},
		InsertedAt: nowMillis(),
	}
	c.order = append(c.order, coin)
}

// PopOne returns the most recently inserted non-expired entry, removing it
// (spec §4.C6 "Pop policy"). Expired entries encountered along the way are
// reaped. Returns ok=false if the cache holds nothing live.
func (c *ArbCache) PopOne() (ArbItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := nowMillis()
	for len(c.order) > 0 {
		coin := c.order[len(c.order)-1]
		c.order = c.order[:len(c.order)-1]
		entry, ok := c.entries[coin]
		if !ok {
			continue // already removed by a prior ReapExpired/Insert
		}
		delete(c.entries, coin)
		if now-entry.InsertedAt >= c.ttlMs {
			continue // expired; keep scanning toward older-but-still-live entries
		}
		return entry.Item, true
	}
	return ArbItem{}, false
}

// ReapExpired removes every entry whose age has reached the TTL and returns
// their coins, so callers can also evict them from a recent-coin ban list
// (spec §4.C6 "Fan-out": "removes their coins from the recent-coin list so
// stale bans don't suppress fresh opportunities").
func (c *ArbCache) ReapExpired() []sui.CoinType {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := nowMillis()
	var expired []sui.CoinType
	kept := c.order[:0:0]
	for _, coin := range c.order {
		entry, ok := c.entries[coin]
		if !ok {
			continue
		}
		if now-entry.InsertedAt >= c.ttlMs {
			expired = append(expired, coin)
			delete(c.entries, coin)
			continue
		}
		kept = append(kept, coin)
	}
	c.order = kept
	return expired
}

// Len reports the number of live (not-yet-reaped) entries.
func (c *ArbCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ArbCache) removeFromOrderLocked(coin sui.CoinType) {
	for i, x := range c.order {
		if x == coin {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
