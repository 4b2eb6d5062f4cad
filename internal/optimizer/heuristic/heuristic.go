// Package heuristic prunes the combination list before an exhaustive search.
// Each combination is benchmarked on uniformly random gear samples scored
// through the full attribute pipeline; combinations that rarely reach the
// shared leaderboard are dropped.
//
// The pruning is approximate and randomized. It can both over- and
// under-select; callers trade exhaustiveness for a smaller search space.
package heuristic

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/engine"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/result"
)

// BenchmarkIterations is the number of random gear samples drawn per
// combination, and the capacity of the shared leaderboard they compete on.
const BenchmarkIterations = 100

// RandomGear fills buf with one uniformly random complete assignment, one
// candidate per slot.
//
// Precondition: len(buf) == len(options) and every candidate list is
// non-empty.
func RandomGear(options [][]gear.Affix, src Source, buf []gear.Affix) {
	for slot, candidates := range options {
		buf[slot] = candidates[src.Intn(len(candidates))]
	}
}

// Selected reports whether a histogram count passes the selection cut: the
// count must strictly exceed ten percent of the leaderboard capacity. A
// combination sitting at exactly ten percent is not selected.
func Selected(count, capacity int) bool {
	return float64(count) > float64(capacity)*0.1
}

// Prefilter benchmarks every combination and returns the indices of those
// whose samples claim more than ten percent of the shared leaderboard, in
// ascending order. Samples are scored with conversion rounding disabled.
//
// A nil src falls back to crypto randomness; pass a seeded Source for a
// reproducible run. Settings are normalized in place, as the engine does.
func Prefilter(s *gear.Settings, combinations []gear.Combination, src Source, logger *zap.Logger) ([]int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if src == nil {
		src = NewCryptoSource()
	}
	if len(combinations) == 0 {
		return nil, errors.New("heuristic: at least one combination is required")
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("heuristic: %w", err)
	}
	for i := range combinations {
		if err := combinations[i].Validate(); err != nil {
			return nil, fmt.Errorf("heuristic: combination %d: %w", i, err)
		}
	}

	leaderboard := result.New(BenchmarkIterations)
	scratch := character.New(s.RankBy, s.Slots)
	buf := make([]gear.Affix, s.Slots)
	for i := range combinations {
		for iter := 0; iter < BenchmarkIterations; iter++ {
			RandomGear(s.AffixOptions, src, buf)
			if err := engine.ApplyGear(scratch, s, &combinations[i], i, buf); err != nil {
				return nil, fmt.Errorf("heuristic: combination %d: %w", i, err)
			}
			if engine.UpdateAttributes(scratch, s, &combinations[i], true) {
				leaderboard.Insert(scratch)
			}
		}
	}

	counts := leaderboard.WeightedCombinations(len(combinations))
	selected := make([]int, 0, len(combinations))
	for i, count := range counts {
		if Selected(count, BenchmarkIterations) {
			selected = append(selected, i)
		}
	}
	logger.Info("combination benchmark complete",
		zap.Int("combinations", len(combinations)),
		zap.Int("selected", len(selected)),
		zap.Int("samples_per_combination", BenchmarkIterations))
	return selected, nil
}
