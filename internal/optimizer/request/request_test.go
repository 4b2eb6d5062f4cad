package request_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/condition"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/request"
)

const fullPayload = `{
  "settings": {
    "profession": "Mesmer",
    "wvw": false,
    "rankby": "Damage",
    "slots": 2,
    "maxResults": 50,
    "attackRate": 0.8,
    "movementUptime": 0.2,
    "affixes": [["Berserker", "Assassin"], ["Viper"]],
    "affixStats": [
      [
        [{"attribute": "Power", "value": 63}, {"attribute": "Precision", "value": 45}],
        [{"attribute": "Precision", "value": 63}]
      ],
      [
        [{"attribute": "Condition Damage", "value": 100}]
      ]
    ],
    "slotNames": ["Helm", "Chest"],
    "constraints": {"minBoonDuration": 99.7, "minHealth": 15000}
  },
  "combinations": [{
    "name": "firebrand",
    "baseAttributes": {"Power": 1000, "Condition Damage": 750},
    "modifiers": {
      "buff": {"Power": 150},
      "convert": {"Power": {"Precision": 0.1}, "Ferocity": {"Power": 0.05}},
      "convertAfterBuffs": {"Ferocity": {"Critical Chance": 250}},
      "damageMultiplier": {"Outgoing Strike Damage": 1.05}
    },
    "relevantConditions": ["Burning", "Torment"]
  }]
}`

func TestParse_FullPayload(t *testing.T) {
	req, err := request.Parse([]byte(fullPayload))
	require.NoError(t, err)

	s := req.Settings
	assert.Equal(t, "Mesmer", s.Profession)
	assert.False(t, s.WvW)
	assert.Equal(t, attribute.Damage, s.RankBy)
	assert.Equal(t, 2, s.Slots)
	assert.Equal(t, 50, s.MaxResults)
	assert.InDelta(t, 0.8, s.AttackRate, 1e-12)
	assert.InDelta(t, 0.2, s.MovementUptime, 1e-12)
	assert.Equal(t, [][]gear.Affix{
		{gear.AffixBerserker, gear.AffixAssassin},
		{gear.AffixViper},
	}, s.AffixOptions)
	require.Len(t, s.AffixStats, 2)
	assert.Equal(t, []gear.Stat{
		{Attribute: attribute.Power, Value: 63},
		{Attribute: attribute.Precision, Value: 45},
	}, s.AffixStats[0][0])
	assert.Equal(t, []string{"Helm", "Chest"}, req.SlotNames)

	require.NotNil(t, s.Constraints.MinBoonDuration)
	assert.Equal(t, 99.7, *s.Constraints.MinBoonDuration)
	require.NotNil(t, s.Constraints.MinHealth)
	assert.Equal(t, 15000.0, *s.Constraints.MinHealth)
	assert.Nil(t, s.Constraints.MinToughness)

	require.Len(t, req.Combinations, 1)
	comb := req.Combinations[0]
	assert.Equal(t, "firebrand", comb.Name)
	assert.Equal(t, 1000.0, comb.BaseAttributes[attribute.Power])
	assert.Equal(t, 750.0, comb.BaseAttributes[attribute.ConditionDamage])
	assert.Equal(t, []gear.Bonus{{Target: attribute.Power, Amount: 150}}, comb.Modifiers.Buffs)
	// Document order survives parsing.
	require.Len(t, comb.Modifiers.Converts, 2)
	assert.Equal(t, attribute.Power, comb.Modifiers.Converts[0].Target)
	assert.Equal(t, []gear.ConversionSource{{Source: attribute.Precision, Factor: 0.1}}, comb.Modifiers.Converts[0].Sources)
	assert.Equal(t, attribute.Ferocity, comb.Modifiers.Converts[1].Target)
	require.Len(t, comb.Modifiers.ConvertsAfterBuffs, 1)
	assert.Equal(t, attribute.CriticalChance, comb.Modifiers.ConvertsAfterBuffs[0].Sources[0].Source)
	assert.Equal(t, 1.05, comb.Modifiers.DamageMultipliers[attribute.OutgoingStrikeDamage])
	assert.Equal(t, []condition.Condition{condition.Burning, condition.Torment}, comb.RelevantConditions)

	assert.NoError(t, s.Validate())
	assert.NoError(t, comb.Validate())
}

func TestParse_DefaultsCombinationName(t *testing.T) {
	payload := `{
	  "settings": {"rankby": "Damage", "slots": 1, "maxResults": 1, "affixes": [["Berserker"]], "affixStats": [[[]]]},
	  "combinations": [{"baseAttributes": {"Power": 1}}]
	}`
	req, err := request.Parse([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "combination 0", req.Combinations[0].Name)
}

func TestParse_OmittedStatsLeaveExpansionToCatalog(t *testing.T) {
	payload := `{
	  "settings": {"rankby": "Damage", "slots": 1, "maxResults": 1, "affixes": [["Berserker"]], "slotNames": ["Helm"]},
	  "combinations": [{"baseAttributes": {"Power": 1}}]
	}`
	req, err := request.Parse([]byte(payload))
	require.NoError(t, err)
	assert.Empty(t, req.Settings.AffixStats)
	assert.Equal(t, []string{"Helm"}, req.SlotNames)
}

func TestParse_UnknownNamesFail(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		errText string
	}{
		{
			name: "attribute",
			payload: `{"settings": {"rankby": "Damage", "slots": 1, "affixes": [["Berserker"]]},
			           "combinations": [{"baseAttributes": {"Powerr": 1}}]}`,
			errText: `unknown attribute "Powerr"`,
		},
		{
			name: "rankby",
			payload: `{"settings": {"rankby": "Dommage", "slots": 1, "affixes": [["Berserker"]]},
			           "combinations": [{"baseAttributes": {"Power": 1}}]}`,
			errText: "rankby",
		},
		{
			name: "affix",
			payload: `{"settings": {"rankby": "Damage", "slots": 1, "affixes": [["Berserkerr"]]},
			           "combinations": [{"baseAttributes": {"Power": 1}}]}`,
			errText: "slot 0",
		},
		{
			name: "condition",
			payload: `{"settings": {"rankby": "Damage", "slots": 1, "affixes": [["Berserker"]]},
			           "combinations": [{"relevantConditions": ["Burnning"]}]}`,
			errText: `unknown condition "Burnning"`,
		},
		{
			name: "constraint",
			payload: `{"settings": {"rankby": "Damage", "slots": 1, "affixes": [["Berserker"]], "constraints": {"minPower": 1}},
			           "combinations": [{"baseAttributes": {"Power": 1}}]}`,
			errText: `unknown constraint "minPower"`,
		},
		{
			name: "multiplier",
			payload: `{"settings": {"rankby": "Damage", "slots": 1, "affixes": [["Berserker"]]},
			           "combinations": [{"modifiers": {"damageMultiplier": {"Outgoing Strike Damagee": 1.05}}}]}`,
			errText: "damage multiplier",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := request.Parse([]byte(tc.payload))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestParse_StructuralErrors(t *testing.T) {
	t.Run("invalid JSON", func(t *testing.T) {
		_, err := request.Parse([]byte(`{`))
		require.Error(t, err)
	})

	t.Run("missing settings", func(t *testing.T) {
		_, err := request.Parse([]byte(`{"combinations": [{}]}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings")
	})

	t.Run("no combinations", func(t *testing.T) {
		_, err := request.Parse([]byte(`{"settings": {"rankby": "Damage"}, "combinations": []}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "combination")
	})
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(fullPayload), 0644))

	req, err := request.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "firebrand", req.Combinations[0].Name)

	_, err = request.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
