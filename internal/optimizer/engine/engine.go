// Package engine implements the search core: exhaustive traversal of gear
// assignments, the attribute pipeline that scores each one, and the chunked
// search loop that feeds the result collector and the progress sink.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/result"
)

// ProgressInterval is the default number of evaluations between progress
// snapshots.
const ProgressInterval uint64 = 1_000_000

// Engine runs one search over one Settings/Combinations pair. It owns a
// single scratch character reused across every leaf, so an Engine must never
// be shared between goroutines; the parallel runner builds one per worker.
type Engine struct {
	// Interval overrides the snapshot cadence. Defaults to ProgressInterval.
	Interval uint64

	settings     *gear.Settings
	combinations []gear.Combination
	logger       *zap.Logger
	sink         ProgressSink
	scratch      *character.Character
	total        uint64
}

// Tally is the explicit per-search accumulator threaded through chunk
// traversal: the evaluation counter and the bounded result collector. It is
// deliberately not shared between workers.
type Tally struct {
	// Evaluated counts (leaf, combination) evaluations, including invalid
	// and anomalous ones.
	Evaluated uint64
	// Results collects the best builds seen so far.
	Results *result.Collector

	published uint64
}

// NewTally returns a fresh accumulator with a collector of the given
// capacity.
func NewTally(capacity int) *Tally {
	return &Tally{Results: result.New(capacity)}
}

// New validates the search inputs and builds an engine. Structural problems
// (mismatched candidate/delta shapes, out-of-range enums, no combinations)
// surface here, before any traversal starts. A nil sink disables progress
// snapshots; a nil logger discards diagnostics.
func New(settings *gear.Settings, combinations []gear.Combination, logger *zap.Logger, sink ProgressSink) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(combinations) == 0 {
		return nil, errors.New("engine: at least one combination is required")
	}
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	for i := range combinations {
		if err := combinations[i].Validate(); err != nil {
			return nil, fmt.Errorf("engine: combination %d: %w", i, err)
		}
	}
	return &Engine{
		Interval:     ProgressInterval,
		settings:     settings,
		combinations: combinations,
		logger:       logger,
		sink:         sink,
		scratch:      character.New(settings.RankBy, settings.Slots),
		total:        TotalEvaluations(settings, len(combinations)),
	}, nil
}

// Settings returns the validated, normalized settings the engine runs with.
func (e *Engine) Settings() *gear.Settings { return e.settings }

// Combinations returns the combination list the engine runs with.
func (e *Engine) Combinations() []gear.Combination { return e.combinations }

// Search runs every chunk sequentially and returns the final collector,
// ordered best to worst. An empty chunk list searches the whole tree.
func (e *Engine) Search(chunks [][]gear.Affix) (*result.Collector, error) {
	if len(chunks) == 0 {
		chunks = [][]gear.Affix{nil}
	}
	tally := NewTally(e.settings.MaxResults)
	for _, chunk := range chunks {
		if err := e.SearchChunk(chunk, tally); err != nil {
			return nil, err
		}
	}
	return tally.Results, nil
}

// SearchChunk exhaustively evaluates the subtree fixed by prefix, scoring
// every leaf against every combination and feeding valid builds into the
// tally's collector. The chunk always runs to completion once started; there
// is no mid-chunk cancellation.
//
// Per-leaf anomalies (gear outside the candidate lists) are logged and
// contribute nothing. Only a structurally impossible prefix is an error.
func (e *Engine) SearchChunk(prefix []gear.Affix, tally *Tally) error {
	if len(prefix) > e.settings.Slots {
		return fmt.Errorf("engine: chunk prefix has %d slots, search has %d", len(prefix), e.settings.Slots)
	}
	interval := e.Interval
	if interval == 0 {
		interval = ProgressInterval
	}
	for assignment := range Leaves(e.settings.AffixOptions, prefix) {
		for i := range e.combinations {
			ok, err := Evaluate(e.scratch, e.settings, &e.combinations[i], i, assignment)
			switch {
			case err != nil:
				e.logger.Warn("assignment outside candidate lists",
					zap.Int("combination", i),
					zap.Error(err))
			case ok:
				tally.Results.Insert(e.scratch)
			}
			tally.Evaluated++
			if e.sink != nil && tally.Evaluated%interval == 0 {
				e.publish(tally)
			}
		}
	}
	return nil
}

// publish hands the sink a compacted snapshot. Delivery failures are logged
// and otherwise ignored; the search never stops for a lost progress message.
func (e *Engine) publish(tally *Tally) {
	batch := tally.Evaluated - tally.published
	tally.published = tally.Evaluated
	chars, combs := CompactReferences(tally.Results.Characters(), e.combinations)
	p := Progress{
		Total:         e.total,
		Processed:     tally.Evaluated,
		Batch:         batch,
		TopCharacters: chars,
		Combinations:  combs,
	}
	if err := e.sink.Publish(p); err != nil {
		e.logger.Warn("progress snapshot not delivered", zap.Error(err))
	}
}
