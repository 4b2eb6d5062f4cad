package engine

import (
	"fmt"
	"iter"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// Leaves returns a lazy, restartable sequence over every complete gear
// assignment reachable from prefix: the first len(prefix) slots are fixed,
// the remaining slots branch over their candidate lists in order. Leaves are
// produced in the lexicographic order induced by the candidate lists, each
// exactly once.
//
// The yielded slice is a borrowed view of shared scratch storage; it is valid
// only until the yield returns. Callers that retain an assignment must copy
// it.
//
// Precondition: len(prefix) <= len(options). Panics otherwise.
func Leaves(options [][]gear.Affix, prefix []gear.Affix) iter.Seq[[]gear.Affix] {
	if len(prefix) > len(options) {
		panic(fmt.Sprintf("engine: prefix length %d exceeds slot count %d", len(prefix), len(options)))
	}
	return func(yield func([]gear.Affix) bool) {
		buf := make([]gear.Affix, len(options))
		copy(buf, prefix)
		descend(options, buf, len(prefix), yield)
	}
}

// descend fills slots from depth onward, yielding once per completed
// assignment. Returns false as soon as the consumer stops the sequence.
func descend(options [][]gear.Affix, buf []gear.Affix, depth int, yield func([]gear.Affix) bool) bool {
	if depth == len(options) {
		return yield(buf)
	}
	for _, a := range options[depth] {
		buf[depth] = a
		if !descend(options, buf, depth+1, yield) {
			return false
		}
	}
	return true
}

// LeafCount returns the number of leaves below a prefix of fixedSlots already
// fixed slots: the product of the remaining candidate-list lengths.
func LeafCount(options [][]gear.Affix, fixedSlots int) uint64 {
	count := uint64(1)
	for i := fixedSlots; i < len(options); i++ {
		count *= uint64(len(options[i]))
	}
	return count
}

// TotalEvaluations returns the progress denominator for a full search: every
// leaf of the whole tree scored against every combination.
func TotalEvaluations(s *gear.Settings, numCombinations int) uint64 {
	return LeafCount(s.AffixOptions, 0) * uint64(numCombinations)
}
