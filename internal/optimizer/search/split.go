// Package search distributes an exhaustive gear search over a worker pool.
// It splits the assignment tree into independent chunks, runs one engine per
// worker, and merges the per-worker results into a single leaderboard.
package search

import (
	"github.com/cory-johannsen/gearsmith/internal/optimizer/engine"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// Split enumerates assignment prefixes at the shallowest depth whose prefix
// count reaches minChunks, capped at the full slot depth. The subtrees of the
// returned prefixes tile the whole search tree exactly once.
//
// A minChunks of 0 or 1 returns the single empty prefix.
func Split(s *gear.Settings, minChunks int) [][]gear.Affix {
	depth := 0
	count := 1
	for depth < len(s.AffixOptions) && count < minChunks {
		count *= len(s.AffixOptions[depth])
		depth++
	}
	if depth == 0 {
		return [][]gear.Affix{nil}
	}
	chunks := make([][]gear.Affix, 0, count)
	for prefix := range engine.Leaves(s.AffixOptions[:depth], nil) {
		dup := make([]gear.Affix, depth)
		copy(dup, prefix)
		chunks = append(chunks, dup)
	}
	return chunks
}
