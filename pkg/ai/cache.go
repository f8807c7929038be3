package ai

import (
	"sync"
	"sync/atomic"

	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

// DefaultCacheSize is the default number of score cache entries.
const DefaultCacheSize = 1 << 16

// scoreCache is a thread-safe, two-way associative cache of heuristic
// scores keyed by board position and evaluated player. Turns frequently
// revisit the same resulting positions across die orderings, and the bot
// revisits positions across consecutive hints.
type scoreCache struct {
	entries []cacheNode
	mask    uint32

	lookups atomic.Uint64
	hits    atomic.Uint64

	mu sync.RWMutex
}

type cacheEntry struct {
	key    engine.BoardKey
	player engine.Player
	score  float64
	valid  bool
}

type cacheNode struct {
	primary   cacheEntry
	secondary cacheEntry
}

// newScoreCache creates a cache with the given size, rounded up to a power
// of two.
func newScoreCache(size uint32) *scoreCache {
	p := uint32(1)
	for p < size {
		p <<= 1
	}
	return &scoreCache{
		entries: make([]cacheNode, p),
		mask:    p - 1,
	}
}

// slot computes the cache index with MurmurHash3-style mixing over the
// board key words and the player.
func (c *scoreCache) slot(key engine.BoardKey, p engine.Player) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := uint32(p) + 1
	for _, word := range key {
		for _, k := range [2]uint32{uint32(word), uint32(word >> 32)} {
			k *= c1
			k = (k << 15) | (k >> 17)
			k *= c2
			h ^= k
			h = (h << 13) | (h >> 19)
			h = h*5 + 0xe6546b64
		}
	}

	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h & c.mask
}

func (c *scoreCache) lookup(key engine.BoardKey, p engine.Player) (float64, bool) {
	slot := c.slot(key, p)

	c.mu.RLock()
	defer c.mu.RUnlock()

	c.lookups.Add(1)
	node := &c.entries[slot]
	if node.primary.valid && node.primary.key == key && node.primary.player == p {
		c.hits.Add(1)
		return node.primary.score, true
	}
	if node.secondary.valid && node.secondary.key == key && node.secondary.player == p {
		c.hits.Add(1)
		return node.secondary.score, true
	}
	return 0, false
}

func (c *scoreCache) add(key engine.BoardKey, p engine.Player, score float64) {
	slot := c.slot(key, p)

	c.mu.Lock()
	defer c.mu.Unlock()

	node := &c.entries[slot]
	node.secondary = node.primary
	node.primary = cacheEntry{key: key, player: p, score: score, valid: true}
}

// stats returns lookup and hit counts.
func (c *scoreCache) stats() (lookups, hits uint64) {
	return c.lookups.Load(), c.hits.Load()
}
