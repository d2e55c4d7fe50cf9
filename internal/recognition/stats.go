package recognition

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Alishbarana/InnoLearn/internal/types"
)

// Stats is a snapshot of recognizer activity
type Stats struct {
	ByMatchType map[types.MatchType]int64 `json:"byMatchType"`
	Total       int64                     `json:"total"`
	CacheHits   int64                     `json:"cacheHits"`
	CacheMisses int64                     `json:"cacheMisses"`
	CacheSize   int                       `json:"cacheSize"`
	Rejected    int64                     `json:"rejected"` // busy or uninitialized classifier calls
}

// String renders the non-zero counters in AllMatchTypes order
func (s Stats) String() string {
	parts := make([]string, 0, len(types.AllMatchTypes))
	for _, mt := range types.AllMatchTypes {
		if n := s.ByMatchType[mt]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", mt, n))
		}
	}
	return fmt.Sprintf("Stats{total: %d, %s, cache: %d/%d hits, rejected: %d}",
		s.Total, strings.Join(parts, " "), s.CacheHits, s.CacheHits+s.CacheMisses, s.Rejected)
}

type counters struct {
	mu          sync.Mutex
	byMatchType map[types.MatchType]int64
	total       int64
	rejected    int64
}

func newCounters() *counters {
	return &counters{byMatchType: make(map[types.MatchType]int64)}
}

func (c *counters) record(r *types.RecognitionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byMatchType[r.MatchType]++
	c.total++
}

func (c *counters) reject() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejected++
}

func (c *counters) snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	by := make(map[types.MatchType]int64, len(c.byMatchType))
	for k, v := range c.byMatchType {
		by[k] = v
	}
	return Stats{ByMatchType: by, Total: c.total, Rejected: c.rejected}
}
