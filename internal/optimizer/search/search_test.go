package search_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/engine"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/search"
)

// recordSink captures snapshots; safe for concurrent use.
type recordSink struct {
	mu        sync.Mutex
	snapshots []engine.Progress
}

func (s *recordSink) Publish(p engine.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, p)
	return nil
}

func (s *recordSink) all() []engine.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]engine.Progress(nil), s.snapshots...)
}

// runnerSettings spans three slots of two candidates each; every leaf scores
// a distinct power sum.
func runnerSettings() *gear.Settings {
	return &gear.Settings{
		Profession: "Guardian",
		RankBy:     attribute.Damage,
		Slots:      3,
		AffixOptions: [][]gear.Affix{
			{gear.AffixBerserker, gear.AffixAssassin},
			{gear.AffixBerserker, gear.AffixAssassin},
			{gear.AffixBerserker, gear.AffixAssassin},
		},
		AffixStats: [][][]gear.Stat{
			{
				{{Attribute: attribute.Power, Value: 400}},
				{{Attribute: attribute.Power, Value: 100}},
			},
			{
				{{Attribute: attribute.Power, Value: 40}},
				{{Attribute: attribute.Power, Value: 10}},
			},
			{
				{{Attribute: attribute.Power, Value: 4}},
				{{Attribute: attribute.Power, Value: 1}},
			},
		},
		MaxResults: 8,
	}
}

func runnerCombinations() []gear.Combination {
	return []gear.Combination{
		{
			Name: "strike",
			BaseAttributes: map[attribute.Attribute]float64{
				attribute.Precision:        1000,
				attribute.PowerCoefficient: 2597,
			},
		},
	}
}

func TestSplit_DepthSelection(t *testing.T) {
	s := &gear.Settings{
		AffixOptions: [][]gear.Affix{
			{gear.AffixBerserker, gear.AffixAssassin},
			{gear.AffixViper, gear.AffixSinister, gear.AffixGrieving},
			{gear.AffixBerserker, gear.AffixAssassin},
		},
	}
	cases := []struct {
		minChunks int
		chunks    int
		depth     int
	}{
		{minChunks: 0, chunks: 1, depth: 0},
		{minChunks: 1, chunks: 1, depth: 0},
		{minChunks: 2, chunks: 2, depth: 1},
		{minChunks: 3, chunks: 6, depth: 2},
		{minChunks: 7, chunks: 12, depth: 3},
		{minChunks: 100, chunks: 12, depth: 3},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("minChunks=%d", tc.minChunks), func(t *testing.T) {
			chunks := search.Split(s, tc.minChunks)
			require.Len(t, chunks, tc.chunks)
			for _, chunk := range chunks {
				assert.Len(t, chunk, tc.depth)
			}
		})
	}
}

func TestSplit_TilesTreeExactlyOnce(t *testing.T) {
	s := &gear.Settings{
		AffixOptions: [][]gear.Affix{
			{gear.AffixBerserker, gear.AffixAssassin},
			{gear.AffixViper, gear.AffixSinister, gear.AffixGrieving},
			{gear.AffixBerserker, gear.AffixAssassin},
		},
	}
	chunks := search.Split(s, 4)

	seen := make(map[string]bool)
	for _, chunk := range chunks {
		for leaf := range engine.Leaves(s.AffixOptions, chunk) {
			key := ""
			for _, a := range leaf {
				key += a.String() + "|"
			}
			require.False(t, seen[key], "leaf %s covered by two chunks", key)
			seen[key] = true
		}
	}
	assert.Equal(t, int(engine.LeafCount(s.AffixOptions, 0)), len(seen))
}

func TestRunner_MatchesSequentialSearch(t *testing.T) {
	sequential, err := engine.New(runnerSettings(), runnerCombinations(), nil, nil)
	require.NoError(t, err)
	wantResults, err := sequential.Search(nil)
	require.NoError(t, err)
	want := wantResults.Characters()

	runner := search.NewRunner(search.Options{Workers: 3, MinChunks: 4}, nil, nil)
	gotResults, err := runner.Run(context.Background(), runnerSettings(), runnerCombinations())
	require.NoError(t, err)
	got := gotResults.Characters()

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Gear, got[i].Gear, "rank %d", i)
		assert.Equal(t, want[i].Score(), got[i].Score(), "rank %d", i)
	}
	assert.InDelta(t, 444.0, got[0].Score(), 1e-9)
	assert.InDelta(t, 111.0, got[len(got)-1].Score(), 1e-9)
}

func TestRunner_AggregatesProgressAcrossWorkers(t *testing.T) {
	sink := &recordSink{}
	runner := search.NewRunner(search.Options{Workers: 2, MinChunks: 2, Interval: 1}, nil, sink)
	_, err := runner.Run(context.Background(), runnerSettings(), runnerCombinations())
	require.NoError(t, err)

	snapshots := sink.all()
	require.Len(t, snapshots, 8, "interval 1 publishes one snapshot per evaluation")
	var batches uint64
	for i, p := range snapshots {
		assert.Equal(t, uint64(8), p.Total)
		assert.Equal(t, uint64(i+1), p.Processed, "processed is monotone in delivery order")
		batches += p.Batch
	}
	assert.Equal(t, uint64(8), batches)
}

func TestRunner_PreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := search.NewRunner(search.Options{Workers: 2}, nil, nil)
	_, err := runner.Run(ctx, runnerSettings(), runnerCombinations())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_StructuralErrorFailsFast(t *testing.T) {
	sink := &recordSink{}
	s := runnerSettings()
	s.Slots = 5

	runner := search.NewRunner(search.Options{Workers: 2}, nil, sink)
	_, err := runner.Run(context.Background(), s, runnerCombinations())
	require.Error(t, err)
	assert.Empty(t, sink.all(), "no progress before validation passes")
}

func TestStreamSink_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	sink := search.NewStreamSink(&buf)

	ch := character.New(attribute.Damage, 1)
	ch.SetGear([]gear.Affix{gear.AffixBerserker})
	ch.Attributes.Set(attribute.Damage, 5)
	p := engine.Progress{
		Total:         20,
		Processed:     10,
		Batch:         10,
		TopCharacters: []*character.Character{ch},
		Combinations:  []gear.Combination{{Name: "strike"}},
	}
	require.NoError(t, sink.Publish(p))
	require.NoError(t, sink.Publish(p))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &decoded))
	assert.Equal(t, float64(20), decoded["total"])
	assert.Equal(t, float64(10), decoded["processed"])
	assert.Equal(t, float64(10), decoded["new"])
	results, ok := decoded["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 1)
	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Berserker"}, first["gear"])
}

func TestLogSink_LogsSnapshot(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := search.LogSink{Logger: zap.New(core)}

	ch := character.New(attribute.Damage, 1)
	ch.Attributes.Set(attribute.Damage, 42)
	require.NoError(t, sink.Publish(engine.Progress{
		Total:         100,
		Processed:     50,
		Batch:         25,
		TopCharacters: []*character.Character{ch},
	}))

	entries := logs.FilterMessage("search progress").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, uint64(50), fields["processed"])
	assert.Equal(t, float64(42), fields["best"])
}
