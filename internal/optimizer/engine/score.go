package engine

import (
	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/character"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/condition"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

const (
	// referenceArmor is the enemy-armor constant in-game tooltips divide
	// skill damage by. Fixed domain constant, not tunable.
	referenceArmor = 2597
	// survivabilityScale normalizes effective health into the survivability
	// score.
	survivabilityScale = 1967
	// healingBase and healingCoefficient model one representative
	// healing-skill profile (a druid celestial-avatar pulse).
	healingBase        = 390
	healingCoefficient = 0.3
)

// ScorePower computes strike damage per second: crit-weighted effective power
// scaled by the coefficient attributes, the secondary power path when one is
// present, and siphon damage. Intermediate values are written to their score
// slots; the returned sum excludes condition and flat contributions.
func ScorePower(ch *character.Character, s *gear.Settings, comb *gear.Combination) float64 {
	attrs := &ch.Attributes
	mods := &comb.Modifiers

	critChance := clamp01(attrs.Get(attribute.CriticalChance))
	strikeMult := mods.DamageMultiplier(attribute.OutgoingStrikeDamage)
	effectivePower := attrs.Get(attribute.Power) *
		(1 + critChance*(attrs.Get(attribute.CriticalDamage)*mods.DamageMultiplier(attribute.OutgoingCriticalDamage)-1)) *
		strikeMult
	nonCritPower := attrs.Get(attribute.Power) * strikeMult
	attrs.Set(attribute.EffectivePower, effectivePower)
	attrs.Set(attribute.NonCritEffectivePower, nonCritPower)

	powerDPS := attrs.Get(attribute.PowerCoefficient)/referenceArmor*effectivePower +
		attrs.Get(attribute.NonCritPowerCoefficient)/referenceArmor*nonCritPower
	attrs.Set(attribute.PowerDPS, powerDPS)

	power2DPS := 0.0
	if coeff := attrs.Get(attribute.Power2Coefficient); coeff > 0 {
		if s.Profession == gear.ProfessionMesmer {
			phantasmCrit := clamp01(attrs.Get(attribute.PhantasmCriticalChance))
			phantasmPower := attrs.Get(attribute.Power) *
				(1 + phantasmCrit*(attrs.Get(attribute.PhantasmCriticalDamage)*mods.DamageMultiplier(attribute.OutgoingPhantasmCriticalDamage)-1)) *
				mods.DamageMultiplier(attribute.OutgoingPhantasmDamage)
			attrs.Set(attribute.PhantasmEffectivePower, phantasmPower)
			power2DPS = coeff / referenceArmor * phantasmPower
		} else {
			altCrit := clamp01(attrs.Get(attribute.AltCriticalChance))
			altPower := attrs.Get(attribute.AltPower) *
				(1 + altCrit*(attrs.Get(attribute.AltCriticalDamage)*mods.DamageMultiplier(attribute.OutgoingAltCriticalDamage)-1)) *
				strikeMult * mods.DamageMultiplier(attribute.OutgoingAltDamage)
			attrs.Set(attribute.AltEffectivePower, altPower)
			power2DPS = coeff / referenceArmor * altPower
		}
	}
	attrs.Set(attribute.Power2DPS, power2DPS)

	siphonDPS := attrs.Get(attribute.SiphonBaseCoefficient) * mods.DamageMultiplier(attribute.OutgoingSiphonDamage)
	attrs.Set(attribute.SiphonDPS, siphonDPS)

	return powerDPS + power2DPS + siphonDPS
}

// ScoreConditions computes damage-over-time per second across the
// combination's relevant conditions, in their caller-supplied order.
//
// Confusion blends its passive tick with the on-skill-use tick weighted by
// the attack rate; Torment blends stationary and moving ticks weighted by
// movement uptime. A non-positive tick falls back to 1 so coefficient-only
// conditions still contribute their stack value.
func ScoreConditions(ch *character.Character, s *gear.Settings, comb *gear.Combination) float64 {
	attrs := &ch.Attributes
	attrs.Add(attribute.ConditionDuration, attrs.Get(attribute.Expertise)/15/100)

	conditionMult := comb.Modifiers.DamageMultiplier(attribute.OutgoingConditionDamage)
	conditionDamage := attrs.Get(attribute.ConditionDamage)
	globalDuration := attrs.Get(attribute.ConditionDuration)

	total := 0.0
	for _, cond := range comb.RelevantConditions {
		mult := conditionMult * comb.Modifiers.DamageMultiplier(cond.DamageModifier())
		normal := (cond.Factor(s.WvW, false)*conditionDamage + cond.BaseDamage(s.WvW, false)) * mult

		tick := normal
		switch cond {
		case condition.Confusion:
			active := (cond.Factor(s.WvW, true)*conditionDamage + cond.BaseDamage(s.WvW, true)) * mult
			tick = normal + active*s.AttackRate
		case condition.Torment:
			moving := (cond.Factor(s.WvW, true)*conditionDamage + cond.BaseDamage(s.WvW, true)) * mult
			tick = normal*(1-s.MovementUptime) + moving*s.MovementUptime
		}
		attrs.Set(cond.DamageTick(), tick)

		stacks := attrs.Get(cond.Coefficient()) *
			(1 + clamp01(attrs.Get(cond.Duration())+globalDuration))
		attrs.Set(cond.Stacks(), stacks)

		dps := stacks
		if tick > 0 {
			dps = stacks * tick
		}
		attrs.Set(cond.DPS(), dps)
		total += dps
	}
	return total
}

// ScoreSurvivability folds toughness into armor and scores effective health
// against incoming strike damage.
func ScoreSurvivability(ch *character.Character, comb *gear.Combination) {
	attrs := &ch.Attributes
	attrs.Add(attribute.Armor, attrs.Get(attribute.Toughness))
	effectiveHealth := attrs.Get(attribute.Health) * attrs.Get(attribute.Armor) *
		(1 / comb.Modifiers.DamageMultiplier(attribute.IncomingStrikeDamage))
	attrs.Set(attribute.EffectiveHealth, effectiveHealth)
	attrs.Set(attribute.Survivability, effectiveHealth/survivabilityScale)
}

// ScoreHealing scores the representative healing profile scaled by the
// outgoing-healing percent pool.
func ScoreHealing(ch *character.Character) {
	attrs := &ch.Attributes
	effectiveHealing := (attrs.Get(attribute.HealingPower)*healingCoefficient + healingBase) *
		(1 + attrs.Get(attribute.OutgoingHealing))
	attrs.Set(attribute.EffectiveHealing, effectiveHealing)
	attrs.Set(attribute.Healing, effectiveHealing)
}
