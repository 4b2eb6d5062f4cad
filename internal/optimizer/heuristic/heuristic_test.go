package heuristic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/condition"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/heuristic"
)

// fixedSource returns scripted values in order, cycling, reduced mod n.
type fixedSource struct {
	values []int
	next   int
}

func (f *fixedSource) Intn(n int) int {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v % n
}

// benchSettings is a one-slot fixture with two power candidates.
func benchSettings() *gear.Settings {
	return &gear.Settings{
		Profession:   "Guardian",
		RankBy:       attribute.Damage,
		Slots:        1,
		AffixOptions: [][]gear.Affix{{gear.AffixBerserker, gear.AffixAssassin}},
		AffixStats: [][][]gear.Stat{
			{
				{{Attribute: attribute.Power, Value: 100}},
				{{Attribute: attribute.Power, Value: 50}},
			},
		},
		MaxResults: 10,
	}
}

func strikeBase(power float64) map[attribute.Attribute]float64 {
	return map[attribute.Attribute]float64{
		attribute.Power:            power,
		attribute.Precision:        1000,
		attribute.PowerCoefficient: 2597,
	}
}

func TestRandomGear_DrawsByCandidateIndex(t *testing.T) {
	options := [][]gear.Affix{
		{gear.AffixBerserker, gear.AffixAssassin},
		{gear.AffixViper},
	}
	buf := make([]gear.Affix, 2)

	heuristic.RandomGear(options, &fixedSource{values: []int{1, 0}}, buf)
	assert.Equal(t, []gear.Affix{gear.AffixAssassin, gear.AffixViper}, buf)

	heuristic.RandomGear(options, &fixedSource{values: []int{0, 0}}, buf)
	assert.Equal(t, []gear.Affix{gear.AffixBerserker, gear.AffixViper}, buf)
}

// TestRandomGear_Property verifies every draw lands inside its slot's
// candidate list for arbitrary shapes and seeds.
func TestRandomGear_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		slots := rapid.IntRange(1, 5).Draw(rt, "slots")
		options := make([][]gear.Affix, slots)
		for i := range options {
			width := rapid.IntRange(1, 4).Draw(rt, "width")
			options[i] = make([]gear.Affix, width)
			for j := range options[i] {
				options[i][j] = gear.Affix(rapid.IntRange(0, 32).Draw(rt, "affix"))
			}
		}
		src := heuristic.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))

		buf := make([]gear.Affix, slots)
		heuristic.RandomGear(options, src, buf)
		for slot, got := range buf {
			assert.Contains(rt, options[slot], got,
				"slot %d drew an affix outside its candidate list", slot)
		}
	})
}

func TestSelected_StrictTenPercentCut(t *testing.T) {
	cases := []struct {
		count, capacity int
		want            bool
	}{
		{count: 0, capacity: 100, want: false},
		{count: 10, capacity: 100, want: false},
		{count: 11, capacity: 100, want: true},
		{count: 100, capacity: 100, want: true},
		{count: 1, capacity: 10, want: false},
		{count: 2, capacity: 10, want: true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, heuristic.Selected(tc.count, tc.capacity),
			"Selected(%d, %d)", tc.count, tc.capacity)
	}
}

func TestNewSeededSource_Reproducible(t *testing.T) {
	a := heuristic.NewSeededSource(7)
	b := heuristic.NewSeededSource(7)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Intn(13), b.Intn(13), "draw %d diverged", i)
	}
}

func TestSources_IntnRangeAndPanics(t *testing.T) {
	crypto := heuristic.NewCryptoSource()
	seeded := heuristic.NewSeededSource(3)
	for i := 0; i < 100; i++ {
		v := crypto.Intn(5)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 5)
	}
	assert.Panics(t, func() { crypto.Intn(0) })
	assert.Panics(t, func() { seeded.Intn(-1) })
}

func TestPrefilter_SelectsDominantCombination(t *testing.T) {
	s := benchSettings()
	combinations := []gear.Combination{
		{Name: "dominant", BaseAttributes: strikeBase(10000)},
		{Name: "weak", BaseAttributes: strikeBase(0)},
	}

	selected, err := heuristic.Prefilter(s, combinations, heuristic.NewSeededSource(1), nil)
	require.NoError(t, err)
	// Every dominant sample outscores every weak sample, so the leaderboard
	// holds only dominant entries.
	assert.Equal(t, []int{0}, selected)
}

func TestPrefilter_InvalidBuildsNeverReachLeaderboard(t *testing.T) {
	s := benchSettings()
	minHealth := 10000.0
	s.Constraints.MinHealth = &minHealth
	fragile := strikeBase(99999)
	sturdy := strikeBase(100)
	sturdy[attribute.Health] = 20000
	combinations := []gear.Combination{
		{Name: "fragile", BaseAttributes: fragile},
		{Name: "sturdy", BaseAttributes: sturdy},
	}

	selected, err := heuristic.Prefilter(s, combinations, heuristic.NewSeededSource(1), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, selected, "the higher-scoring combination fails validity on every sample")
}

func TestPrefilter_Deterministic(t *testing.T) {
	build := func() ([]gear.Combination, *gear.Settings) {
		s := &gear.Settings{
			Profession: "Guardian",
			RankBy:     attribute.Damage,
			Slots:      2,
			AffixOptions: [][]gear.Affix{
				{gear.AffixBerserker, gear.AffixAssassin, gear.AffixViper},
				{gear.AffixBerserker, gear.AffixAssassin},
			},
			AffixStats: [][][]gear.Stat{
				{
					{{Attribute: attribute.Power, Value: 100}},
					{{Attribute: attribute.Power, Value: 90}},
					{{Attribute: attribute.Power, Value: 80}},
				},
				{
					{{Attribute: attribute.Power, Value: 10}},
					{{Attribute: attribute.Power, Value: 5}},
				},
			},
			MaxResults: 10,
		}
		combinations := []gear.Combination{
			{Name: "a", BaseAttributes: strikeBase(1000)},
			{Name: "b", BaseAttributes: strikeBase(1010)},
			{Name: "c", BaseAttributes: strikeBase(990)},
		}
		return combinations, s
	}

	combsA, settingsA := build()
	first, err := heuristic.Prefilter(settingsA, combsA, heuristic.NewSeededSource(42), nil)
	require.NoError(t, err)
	combsB, settingsB := build()
	second, err := heuristic.Prefilter(settingsB, combsB, heuristic.NewSeededSource(42), nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPrefilter_NormalizesEmptyCandidateLists(t *testing.T) {
	s := &gear.Settings{
		Profession:   "Guardian",
		RankBy:       attribute.Damage,
		Slots:        2,
		AffixOptions: [][]gear.Affix{{gear.AffixBerserker}, {}},
		AffixStats:   [][][]gear.Stat{{{{Attribute: attribute.Power, Value: 100}}}, {}},
		MaxResults:   1,
	}
	combinations := []gear.Combination{{Name: "only", BaseAttributes: strikeBase(1000)}}

	selected, err := heuristic.Prefilter(s, combinations, heuristic.NewSeededSource(1), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, selected)
	assert.Equal(t, []gear.Affix{gear.AffixNone}, s.AffixOptions[1])
}

func TestPrefilter_ErrorPaths(t *testing.T) {
	t.Run("no combinations", func(t *testing.T) {
		_, err := heuristic.Prefilter(benchSettings(), nil, heuristic.NewSeededSource(1), nil)
		require.Error(t, err)
	})

	t.Run("invalid settings", func(t *testing.T) {
		s := benchSettings()
		s.Slots = 3
		_, err := heuristic.Prefilter(s, []gear.Combination{{Name: "c", BaseAttributes: strikeBase(1)}},
			heuristic.NewSeededSource(1), nil)
		require.Error(t, err)
	})

	t.Run("invalid combination", func(t *testing.T) {
		comb := gear.Combination{
			Name:               "dup",
			BaseAttributes:     strikeBase(1),
			RelevantConditions: []condition.Condition{condition.Poison, condition.Poison},
		}
		_, err := heuristic.Prefilter(benchSettings(), []gear.Combination{comb},
			heuristic.NewSeededSource(1), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "combination 0")
	})
}
