// Package attribute defines the closed attribute set Gearsmith scores builds
// with, and the dense register file keyed by it.
package attribute

import "fmt"

// Attribute identifies one slot in the attribute register file. Attributes
// carry no independent identity; they are pure indices.
type Attribute int

const (
	// Primary gear stats.
	Power Attribute = iota
	Precision
	Toughness
	Vitality

	// Secondary gear stats.
	Ferocity
	ConditionDamage
	Expertise
	Concentration
	HealingPower
	AgonyResistance

	// Derived combat stats.
	CriticalChance
	CriticalDamage
	ConditionDuration
	BoonDuration
	Health
	Armor

	// Percent pools.
	MaxHealth
	OutgoingHealing

	// Per-condition bookkeeping, five slots per condition kind.
	BleedingCoefficient
	BleedingDuration
	BleedingStacks
	BleedingDamageTick
	BleedingDPS
	BurningCoefficient
	BurningDuration
	BurningStacks
	BurningDamageTick
	BurningDPS
	ConfusionCoefficient
	ConfusionDuration
	ConfusionStacks
	ConfusionDamageTick
	ConfusionDPS
	PoisonCoefficient
	PoisonDuration
	PoisonStacks
	PoisonDamageTick
	PoisonDPS
	TormentCoefficient
	TormentDuration
	TormentStacks
	TormentDamageTick
	TormentDPS

	// Clone and phantasm stats for the illusion-based profession.
	CloneCriticalChance
	PhantasmCriticalChance
	PhantasmCriticalDamage
	PhantasmEffectivePower

	// Alternate-path stats for builds with a secondary power source.
	AltPower
	AltPrecision
	AltFerocity
	AltCriticalChance
	AltCriticalDamage
	AltEffectivePower

	// Skill coefficients supplied by the combination.
	PowerCoefficient
	NonCritPowerCoefficient
	Power2Coefficient
	SiphonBaseCoefficient
	FlatDPS

	// Damage-multiplier keys. These are never stored in the register file;
	// they key the combination's multiplier table.
	OutgoingStrikeDamage
	OutgoingCriticalDamage
	OutgoingConditionDamage
	OutgoingSiphonDamage
	IncomingStrikeDamage
	OutgoingPhantasmDamage
	OutgoingPhantasmCriticalDamage
	OutgoingAltDamage
	OutgoingAltCriticalDamage
	OutgoingBleedingDamage
	OutgoingBurningDamage
	OutgoingConfusionDamage
	OutgoingPoisonDamage
	OutgoingTormentDamage

	// Score slots written by the evaluator.
	EffectivePower
	NonCritEffectivePower
	PowerDPS
	Power2DPS
	SiphonDPS
	Damage
	EffectiveHealth
	Survivability
	EffectiveHealing
	Healing

	// Count is the size of the register file. Not a valid attribute.
	Count
)

var names = [Count]string{
	Power:           "Power",
	Precision:       "Precision",
	Toughness:       "Toughness",
	Vitality:        "Vitality",
	Ferocity:        "Ferocity",
	ConditionDamage: "Condition Damage",
	Expertise:       "Expertise",
	Concentration:   "Concentration",
	HealingPower:    "Healing Power",
	AgonyResistance: "Agony Resistance",

	CriticalChance:    "Critical Chance",
	CriticalDamage:    "Critical Damage",
	ConditionDuration: "Condition Duration",
	BoonDuration:      "Boon Duration",
	Health:            "Health",
	Armor:             "Armor",

	MaxHealth:       "Max Health",
	OutgoingHealing: "Outgoing Healing",

	BleedingCoefficient:  "Bleeding Coefficient",
	BleedingDuration:     "Bleeding Duration",
	BleedingStacks:       "Bleeding Stacks",
	BleedingDamageTick:   "Bleeding Damage Tick",
	BleedingDPS:          "Bleeding DPS",
	BurningCoefficient:   "Burning Coefficient",
	BurningDuration:      "Burning Duration",
	BurningStacks:        "Burning Stacks",
	BurningDamageTick:    "Burning Damage Tick",
	BurningDPS:           "Burning DPS",
	ConfusionCoefficient: "Confusion Coefficient",
	ConfusionDuration:    "Confusion Duration",
	ConfusionStacks:      "Confusion Stacks",
	ConfusionDamageTick:  "Confusion Damage Tick",
	ConfusionDPS:         "Confusion DPS",
	PoisonCoefficient:    "Poison Coefficient",
	PoisonDuration:       "Poison Duration",
	PoisonStacks:         "Poison Stacks",
	PoisonDamageTick:     "Poison Damage Tick",
	PoisonDPS:            "Poison DPS",
	TormentCoefficient:   "Torment Coefficient",
	TormentDuration:      "Torment Duration",
	TormentStacks:        "Torment Stacks",
	TormentDamageTick:    "Torment Damage Tick",
	TormentDPS:           "Torment DPS",

	CloneCriticalChance:    "Clone Critical Chance",
	PhantasmCriticalChance: "Phantasm Critical Chance",
	PhantasmCriticalDamage: "Phantasm Critical Damage",
	PhantasmEffectivePower: "Phantasm Effective Power",

	AltPower:          "Alt Power",
	AltPrecision:      "Alt Precision",
	AltFerocity:       "Alt Ferocity",
	AltCriticalChance: "Alt Critical Chance",
	AltCriticalDamage: "Alt Critical Damage",
	AltEffectivePower: "Alt Effective Power",

	PowerCoefficient:        "Power Coefficient",
	NonCritPowerCoefficient: "NonCrit Power Coefficient",
	Power2Coefficient:       "Power2 Coefficient",
	SiphonBaseCoefficient:   "Siphon Base Coefficient",
	FlatDPS:                 "Flat DPS",

	OutgoingStrikeDamage:           "Outgoing Strike Damage",
	OutgoingCriticalDamage:         "Outgoing Critical Damage",
	OutgoingConditionDamage:        "Outgoing Condition Damage",
	OutgoingSiphonDamage:           "Outgoing Siphon Damage",
	IncomingStrikeDamage:           "Incoming Strike Damage",
	OutgoingPhantasmDamage:         "Outgoing Phantasm Damage",
	OutgoingPhantasmCriticalDamage: "Outgoing Phantasm Critical Damage",
	OutgoingAltDamage:              "Outgoing Alt Damage",
	OutgoingAltCriticalDamage:      "Outgoing Alt Critical Damage",
	OutgoingBleedingDamage:         "Outgoing Bleeding Damage",
	OutgoingBurningDamage:          "Outgoing Burning Damage",
	OutgoingConfusionDamage:        "Outgoing Confusion Damage",
	OutgoingPoisonDamage:           "Outgoing Poison Damage",
	OutgoingTormentDamage:          "Outgoing Torment Damage",

	EffectivePower:        "Effective Power",
	NonCritEffectivePower: "NonCrit Effective Power",
	PowerDPS:              "Power DPS",
	Power2DPS:             "Power2 DPS",
	SiphonDPS:             "Siphon DPS",
	Damage:                "Damage",
	EffectiveHealth:       "Effective Health",
	Survivability:         "Survivability",
	EffectiveHealing:      "Effective Healing",
	Healing:               "Healing",
}

var byName = func() map[string]Attribute {
	m := make(map[string]Attribute, Count)
	for a := Power; a < Count; a++ {
		m[names[a]] = a
	}
	return m
}()

// Valid reports whether a is a member of the attribute set.
func (a Attribute) Valid() bool {
	return a >= 0 && a < Count
}

// String returns the display name used in requests, catalogs and exports.
func (a Attribute) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Attribute(%d)", int(a))
	}
	return names[a]
}

// Point reports whether a is a point-style stat: one whose natural unit is a
// whole stat point. Conversion contributions to point stats are rounded
// half-to-even before they are applied.
func (a Attribute) Point() bool {
	switch a {
	case Power, Precision, Toughness, Vitality, Ferocity,
		ConditionDamage, Expertise, Concentration, HealingPower, AgonyResistance:
		return true
	default:
		return false
	}
}

// Parse resolves a display name to its Attribute.
func Parse(name string) (Attribute, error) {
	a, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("unknown attribute %q", name)
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler so attributes serialize as
// display names, including as JSON map keys.
func (a Attribute) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid attribute %d", int(a))
	}
	return []byte(names[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Attribute) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
