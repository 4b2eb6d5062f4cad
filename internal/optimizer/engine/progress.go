package engine

import (
	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// Progress is one periodic snapshot of a running search.
//
// TopCharacters reference Combinations by compacted local index: each
// character's CombinationID points into the Combinations slice of this
// snapshot, not into the full combination list the search was started with.
type Progress struct {
	// Total is the estimated number of evaluations for the whole search.
	Total uint64 `json:"total"`
	// Processed is the number of evaluations completed so far.
	Processed uint64 `json:"processed"`
	// Batch is the number of evaluations since the previous snapshot.
	Batch uint64 `json:"new"`
	// TopCharacters are the current best builds, best to worst.
	TopCharacters []*character.Character `json:"results"`
	// Combinations lists only the combinations the top characters reference,
	// in first-reference order.
	Combinations []gear.Combination `json:"combinations"`
}

// ProgressSink consumes periodic snapshots. Implementations own the wire
// format and the delivery; a failed Publish never stops the search.
type ProgressSink interface {
	Publish(Progress) error
}

// CompactReferences rewrites each character's CombinationID to an index into
// the returned compacted combination list, which holds only referenced
// combinations in first-reference order. The characters are modified in
// place; pass a snapshot, not live collector state.
//
// Precondition: every CombinationID indexes into combinations.
func CompactReferences(chars []*character.Character, combinations []gear.Combination) ([]*character.Character, []gear.Combination) {
	remap := make(map[int]int, len(chars))
	compact := make([]gear.Combination, 0, len(chars))
	for _, ch := range chars {
		idx, ok := remap[ch.CombinationID]
		if !ok {
			idx = len(compact)
			remap[ch.CombinationID] = idx
			compact = append(compact, combinations[ch.CombinationID])
		}
		ch.CombinationID = idx
	}
	return chars, compact
}
