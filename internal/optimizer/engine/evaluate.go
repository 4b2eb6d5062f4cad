package engine

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// Evaluate scores one (assignment, combination) pair into the scratch
// character: gear assembly followed by the full attribute pipeline with
// rounding enabled.
//
// The returned error marks an input-contract violation (an affix outside its
// slot's candidate list); such a leaf contributes nothing and the error is a
// diagnostic, never fatal. The bool reports whether the character passed the
// validity constraints and carries final scores.
func Evaluate(ch *character.Character, s *gear.Settings, comb *gear.Combination, combIndex int, assignment []gear.Affix) (bool, error) {
	if err := ApplyGear(ch, s, comb, combIndex, assignment); err != nil {
		return false, err
	}
	return UpdateAttributes(ch, s, comb, false), nil
}

// ApplyGear assembles the character's base attributes for one leaf: it clears
// the scratch buffer (reuse safety lives here, not with callers), writes the
// combination's base attributes, then adds each slot's positional stat
// deltas. The position of the affix in the slot's candidate list selects the
// delta entry; gear deltas are additive on top of combination bases, never
// the other way around.
//
// Postcondition: on error the character holds no partially meaningful scores;
// callers must discard the leaf.
func ApplyGear(ch *character.Character, s *gear.Settings, comb *gear.Combination, combIndex int, assignment []gear.Affix) error {
	ch.Clear()
	ch.SetGear(assignment)
	ch.CombinationID = combIndex
	for a, v := range comb.BaseAttributes {
		ch.Base.Set(a, v)
	}
	for slot, affix := range ch.Gear {
		pos := s.CandidateIndex(slot, affix)
		if pos < 0 {
			return fmt.Errorf("affix %s is not a candidate for slot %d", affix, slot)
		}
		for _, st := range s.AffixStats[slot][pos] {
			ch.Base.Add(st.Attribute, st.Value)
		}
	}
	return nil
}

// UpdateAttributes runs the modifier pipeline and scoring over the assembled
// base attributes: convert, buff, convert-after-buffs, derived stats, the
// profession branch, the validity check, then damage, survivability and
// healing. Returns false when the character fails the validity constraints;
// in that case the score slots are undefined and must not be read.
//
// noRounding disables the half-to-even rounding of conversion contributions
// to point-style attributes; the stochastic benchmark uses raw precision.
func UpdateAttributes(ch *character.Character, s *gear.Settings, comb *gear.Combination, noRounding bool) bool {
	ch.Attributes = ch.Base

	applyConverts(ch, comb.Modifiers.Converts, noRounding)
	for _, b := range comb.Modifiers.Buffs {
		ch.Attributes.Add(b.Target, b.Amount)
	}
	applyConvertsAfterBuffs(ch, comb.Modifiers.ConvertsAfterBuffs)
	deriveStats(ch)
	professionBranch(ch, s)

	if ch.Invalid(&s.Constraints) {
		return false
	}

	damage := ScorePower(ch, s, comb) + ScoreConditions(ch, s, comb) + ch.Attributes.Get(attribute.FlatDPS)
	ch.Attributes.Set(attribute.Damage, damage)
	ScoreSurvivability(ch, comb)
	ScoreHealing(ch)
	return true
}

// applyConverts feeds fractions of base-attribute values into targets. Every
// source reads the pre-pipeline base value, so conversions never chain.
// Contributions to point-style targets round half-to-even unless disabled.
func applyConverts(ch *character.Character, convs []gear.Conversion, noRounding bool) {
	for _, conv := range convs {
		round := conv.Target.Point() && !noRounding
		for _, src := range conv.Sources {
			v := ch.Base.Get(src.Source) * src.Factor
			if round {
				v = math.RoundToEven(v)
			}
			ch.Attributes.Add(conv.Target, v)
		}
	}
}

// applyConvertsAfterBuffs is the post-buff conversion stage: sources read the
// live working values, and the three probability-like crit-chance sources are
// clamped to [0,1] before scaling.
func applyConvertsAfterBuffs(ch *character.Character, convs []gear.Conversion) {
	for _, conv := range convs {
		for _, src := range conv.Sources {
			v := ch.Attributes.Get(src.Source)
			switch src.Source {
			case attribute.CriticalChance, attribute.CloneCriticalChance, attribute.PhantasmCriticalChance:
				v = clamp01(v)
			}
			ch.Attributes.Add(conv.Target, v*src.Factor)
		}
	}
}

// deriveStats recomputes the derived attributes in their fixed order.
func deriveStats(ch *character.Character) {
	attrs := &ch.Attributes
	attrs.Add(attribute.CriticalChance, (attrs.Get(attribute.Precision)-1000)/21/100)
	attrs.Add(attribute.CriticalDamage, attrs.Get(attribute.Ferocity)/15/100)
	attrs.Add(attribute.BoonDuration, attrs.Get(attribute.Concentration)/15/100)
	attrs.Set(attribute.Health, math.Round(
		(attrs.Get(attribute.Health)+attrs.Get(attribute.Vitality)*10)*(1+attrs.Get(attribute.MaxHealth))))
}

// professionBranch applies the two mutually exclusive secondary-power paths.
// The clone/phantasm profession mirrors the primary crit derivations onto its
// illusion stats; any other build with a secondary power coefficient
// accumulates the alternate path from the primary derived values plus the
// alternate-source contributions.
func professionBranch(ch *character.Character, s *gear.Settings) {
	attrs := &ch.Attributes
	if s.Profession == gear.ProfessionMesmer {
		critFromPrecision := (attrs.Get(attribute.Precision) - 1000) / 21 / 100
		attrs.Add(attribute.CloneCriticalChance, critFromPrecision)
		attrs.Add(attribute.PhantasmCriticalChance, critFromPrecision)
		attrs.Add(attribute.PhantasmCriticalDamage, attrs.Get(attribute.Ferocity)/15/100)
		return
	}
	if attrs.Get(attribute.Power2Coefficient) > 0 {
		attrs.Add(attribute.AltPower, attrs.Get(attribute.Power))
		attrs.Add(attribute.AltCriticalChance,
			attrs.Get(attribute.CriticalChance)+attrs.Get(attribute.AltPrecision)/21/100)
		attrs.Add(attribute.AltCriticalDamage,
			attrs.Get(attribute.CriticalDamage)+attrs.Get(attribute.AltFerocity)/15/100)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
