// Package request parses search payloads: the settings record and the
// combination list, as one JSON document. Enum references are resolved by
// display name and unknown names fail the load, never the search.
package request

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/condition"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// Request is one fully parsed search payload.
//
// AffixStats may be empty when the payload names its slots instead of
// carrying explicit deltas; the caller then expands them through a catalog.
type Request struct {
	Settings     *gear.Settings
	SlotNames    []string
	Combinations []gear.Combination
}

// Load reads and parses the payload at path.
func Load(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("request: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes one payload. Structural checks stop at shape and name
// resolution; value-level validation belongs to Settings.Validate and
// Combination.Validate at search start.
func Parse(data []byte) (*Request, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("request: invalid JSON")
	}
	root := gjson.ParseBytes(data)

	settingsNode := root.Get("settings")
	if !settingsNode.Exists() {
		return nil, errors.New("request: missing settings")
	}
	settings, slotNames, err := parseSettings(settingsNode)
	if err != nil {
		return nil, err
	}

	combsNode := root.Get("combinations")
	if !combsNode.IsArray() || len(combsNode.Array()) == 0 {
		return nil, errors.New("request: at least one combination is required")
	}
	combinations := make([]gear.Combination, 0, len(combsNode.Array()))
	for i, node := range combsNode.Array() {
		comb, err := parseCombination(node, i)
		if err != nil {
			return nil, err
		}
		combinations = append(combinations, comb)
	}

	return &Request{Settings: settings, SlotNames: slotNames, Combinations: combinations}, nil
}

func parseSettings(node gjson.Result) (*gear.Settings, []string, error) {
	s := &gear.Settings{
		Profession:     node.Get("profession").String(),
		WvW:            node.Get("wvw").Bool(),
		Slots:          int(node.Get("slots").Int()),
		MaxResults:     int(node.Get("maxResults").Int()),
		AttackRate:     node.Get("attackRate").Float(),
		MovementUptime: node.Get("movementUptime").Float(),
	}

	rank, err := attribute.Parse(node.Get("rankby").String())
	if err != nil {
		return nil, nil, fmt.Errorf("request: settings: rankby: %w", err)
	}
	s.RankBy = rank

	for si, slotNode := range node.Get("affixes").Array() {
		candidates := make([]gear.Affix, 0, len(slotNode.Array()))
		for _, affixNode := range slotNode.Array() {
			affix, err := gear.ParseAffix(affixNode.String())
			if err != nil {
				return nil, nil, fmt.Errorf("request: settings: slot %d: %w", si, err)
			}
			candidates = append(candidates, affix)
		}
		s.AffixOptions = append(s.AffixOptions, candidates)
	}

	for si, slotNode := range node.Get("affixStats").Array() {
		perCandidate := make([][]gear.Stat, 0, len(slotNode.Array()))
		for _, candNode := range slotNode.Array() {
			var deltas []gear.Stat
			for _, statNode := range candNode.Array() {
				attr, err := attribute.Parse(statNode.Get("attribute").String())
				if err != nil {
					return nil, nil, fmt.Errorf("request: settings: slot %d stats: %w", si, err)
				}
				deltas = append(deltas, gear.Stat{Attribute: attr, Value: statNode.Get("value").Float()})
			}
			perCandidate = append(perCandidate, deltas)
		}
		s.AffixStats = append(s.AffixStats, perCandidate)
	}

	var slotNames []string
	for _, nameNode := range node.Get("slotNames").Array() {
		slotNames = append(slotNames, nameNode.String())
	}

	if c := node.Get("constraints"); c.Exists() {
		if err := parseConstraints(c, &s.Constraints); err != nil {
			return nil, nil, err
		}
	}
	return s, slotNames, nil
}

func parseConstraints(node gjson.Result, out *gear.Constraints) error {
	var err error
	node.ForEach(func(key, value gjson.Result) bool {
		v := value.Float()
		switch key.String() {
		case "minBoonDuration":
			out.MinBoonDuration = &v
		case "minHealingPower":
			out.MinHealingPower = &v
		case "minToughness":
			out.MinToughness = &v
		case "maxToughness":
			out.MaxToughness = &v
		case "minHealth":
			out.MinHealth = &v
		case "minCritChance":
			out.MinCritChance = &v
		default:
			err = fmt.Errorf("request: settings: unknown constraint %q", key.String())
			return false
		}
		return true
	})
	return err
}

func parseCombination(node gjson.Result, index int) (gear.Combination, error) {
	comb := gear.Combination{Name: node.Get("name").String()}
	if comb.Name == "" {
		comb.Name = fmt.Sprintf("combination %d", index)
	}

	var err error
	node.Get("baseAttributes").ForEach(func(key, value gjson.Result) bool {
		attr, perr := attribute.Parse(key.String())
		if perr != nil {
			err = fmt.Errorf("request: %s: base attributes: %w", comb.Name, perr)
			return false
		}
		if comb.BaseAttributes == nil {
			comb.BaseAttributes = make(map[attribute.Attribute]float64)
		}
		comb.BaseAttributes[attr] = value.Float()
		return true
	})
	if err != nil {
		return gear.Combination{}, err
	}

	mods := node.Get("modifiers")
	if comb.Modifiers.Converts, err = parseConversions(mods.Get("convert"), comb.Name, "convert"); err != nil {
		return gear.Combination{}, err
	}
	if comb.Modifiers.Buffs, err = parseBuffs(mods.Get("buff"), comb.Name); err != nil {
		return gear.Combination{}, err
	}
	if comb.Modifiers.ConvertsAfterBuffs, err = parseConversions(mods.Get("convertAfterBuffs"), comb.Name, "convertAfterBuffs"); err != nil {
		return gear.Combination{}, err
	}
	if comb.Modifiers.DamageMultipliers, err = parseMultipliers(mods.Get("damageMultiplier"), comb.Name); err != nil {
		return gear.Combination{}, err
	}

	for _, condNode := range node.Get("relevantConditions").Array() {
		cond, perr := condition.Parse(condNode.String())
		if perr != nil {
			return gear.Combination{}, fmt.Errorf("request: %s: %w", comb.Name, perr)
		}
		comb.RelevantConditions = append(comb.RelevantConditions, cond)
	}
	return comb, nil
}

// parseConversions decodes {"Target": {"Source": factor, …}, …} preserving
// document order for both targets and sources.
func parseConversions(node gjson.Result, name, stage string) ([]gear.Conversion, error) {
	if !node.Exists() {
		return nil, nil
	}
	var out []gear.Conversion
	var err error
	node.ForEach(func(key, value gjson.Result) bool {
		target, perr := attribute.Parse(key.String())
		if perr != nil {
			err = fmt.Errorf("request: %s: %s: %w", name, stage, perr)
			return false
		}
		conv := gear.Conversion{Target: target}
		value.ForEach(func(srcKey, srcValue gjson.Result) bool {
			src, perr := attribute.Parse(srcKey.String())
			if perr != nil {
				err = fmt.Errorf("request: %s: %s %s: %w", name, stage, key.String(), perr)
				return false
			}
			conv.Sources = append(conv.Sources, gear.ConversionSource{Source: src, Factor: srcValue.Float()})
			return true
		})
		if err != nil {
			return false
		}
		out = append(out, conv)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseBuffs(node gjson.Result, name string) ([]gear.Bonus, error) {
	if !node.Exists() {
		return nil, nil
	}
	var out []gear.Bonus
	var err error
	node.ForEach(func(key, value gjson.Result) bool {
		target, perr := attribute.Parse(key.String())
		if perr != nil {
			err = fmt.Errorf("request: %s: buff: %w", name, perr)
			return false
		}
		out = append(out, gear.Bonus{Target: target, Amount: value.Float()})
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseMultipliers(node gjson.Result, name string) (map[attribute.Attribute]float64, error) {
	if !node.Exists() {
		return nil, nil
	}
	out := make(map[attribute.Attribute]float64)
	var err error
	node.ForEach(func(key, value gjson.Result) bool {
		attr, perr := attribute.Parse(key.String())
		if perr != nil {
			err = fmt.Errorf("request: %s: damage multiplier: %w", name, perr)
			return false
		}
		out[attr] = value.Float()
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
