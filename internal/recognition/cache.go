package recognition

import (
	"container/list"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/Alishbarana/InnoLearn/internal/types"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

// resultCache is a thread-safe LRU of lexical results keyed by the xxhash of
// the raw text. Entries remember the vocabulary table they were computed
// against and miss once that table is swapped out.
type resultCache struct {
	maxSize int
	mu      sync.Mutex
	items   map[uint64]*list.Element
	order   *list.List

	hits   int64
	misses int64
}

type cacheEntry struct {
	key    uint64
	text   string
	table  *vocabulary.Table
	result *types.RecognitionResult
}

func newResultCache(maxSize int) *resultCache {
	if maxSize <= 0 {
		return nil
	}
	return &resultCache{
		maxSize: maxSize,
		items:   make(map[uint64]*list.Element),
		order:   list.New(),
	}
}

func cacheKey(text string) uint64 {
	return xxhash.Sum64String(text)
}

// get returns a deep copy of the cached result
func (c *resultCache) get(text string, table *vocabulary.Table) (*types.RecognitionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[cacheKey(text)]
	if !ok {
		c.misses++
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	// Hash collisions and stale vocabularies both count as misses
	if entry.text != text || entry.table != table {
		c.misses++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.hits++
	return entry.result.Clone(), true
}

// set stores a deep copy of result
func (c *resultCache) set(text string, table *vocabulary.Table, result *types.RecognitionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(text)
	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.text, entry.table, entry.result = text, table, result.Clone()
		return
	}

	elem := c.order.PushFront(&cacheEntry{key: key, text: text, table: table, result: result.Clone()})
	c.items[key] = elem

	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[uint64]*list.Element)
	c.order = list.New()
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *resultCache) counters() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
