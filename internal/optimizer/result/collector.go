// Package result implements the bounded rank-ordered accumulator the search
// funnels every valid build into.
package result

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
)

// Collector keeps the best characters seen so far, ordered best to worst by
// each character's ranking attribute.
//
// Invariant: Len() never exceeds Capacity(), and an entry is only ever
// displaced by a candidate whose score strictly exceeds the current worst.
// Inserted characters are cloned, so callers may clear and reuse their
// scratch buffers immediately.
type Collector struct {
	capacity int
	entries  []*character.Character
}

// New returns an empty collector.
//
// Precondition: capacity > 0. Panics otherwise.
func New(capacity int) *Collector {
	if capacity <= 0 {
		panic(fmt.Sprintf("result: capacity must be positive, got %d", capacity))
	}
	return &Collector{
		capacity: capacity,
		entries:  make([]*character.Character, 0, capacity),
	}
}

// Capacity returns the maximum number of retained entries.
func (c *Collector) Capacity() int { return c.capacity }

// Len returns the number of retained entries.
func (c *Collector) Len() int { return len(c.entries) }

// Insert offers a candidate. Below capacity it is always retained; at
// capacity it replaces the worst entry only when its score strictly exceeds
// the worst score. Ties between retained entries keep insertion order.
// Returns whether the candidate was retained.
func (c *Collector) Insert(ch *character.Character) bool {
	score := ch.Score()
	if len(c.entries) == c.capacity {
		if score <= c.entries[len(c.entries)-1].Score() {
			return false
		}
	} else {
		c.entries = append(c.entries, nil)
	}
	idx := sort.Search(len(c.entries)-1, func(i int) bool {
		return c.entries[i].Score() < score
	})
	copy(c.entries[idx+1:], c.entries[idx:len(c.entries)-1])
	c.entries[idx] = ch.Clone()
	return true
}

// Best returns a clone of the top-ranked entry, or nil when empty.
func (c *Collector) Best() *character.Character {
	if len(c.entries) == 0 {
		return nil
	}
	return c.entries[0].Clone()
}

// Characters returns clones of the retained entries, best to worst. Reading
// never mutates the collector, so snapshots may be taken at any cadence.
func (c *Collector) Characters() []*character.Character {
	out := make([]*character.Character, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Clone()
	}
	return out
}

// WeightedCombinations returns, for each of n combinations, how many retained
// entries reference it.
//
// Precondition: every retained CombinationID is in [0, n). Panics otherwise.
func (c *Collector) WeightedCombinations(n int) []int {
	counts := make([]int, n)
	for _, e := range c.entries {
		if e.CombinationID < 0 || e.CombinationID >= n {
			panic(fmt.Sprintf("result: combination id %d out of range [0,%d)", e.CombinationID, n))
		}
		counts[e.CombinationID]++
	}
	return counts
}

// Merge re-offers every entry of other into c. Used to fold per-worker
// collectors into the final one; the capacity invariant keeps holding.
func (c *Collector) Merge(other *Collector) {
	for _, e := range other.entries {
		c.Insert(e)
	}
}
