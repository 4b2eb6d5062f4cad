// Package condition enumerates the damage-over-time effects Gearsmith scores
// and carries their per-mode damage tables.
package condition

import (
	"fmt"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
)

// Condition is one damage-over-time effect kind.
type Condition int

const (
	Bleeding Condition = iota
	Burning
	Confusion
	Poison
	Torment

	count
)

var names = [count]string{
	Bleeding:  "Bleeding",
	Burning:   "Burning",
	Confusion: "Confusion",
	Poison:    "Poison",
	Torment:   "Torment",
}

// tick is one row of the condition damage table: damage per stack per second
// is factor*ConditionDamage + base.
type tick struct {
	factor float64
	base   float64
}

// mode bundles the normal tick with the special-variant tick for one game
// mode. Conditions without a special variant repeat the normal row.
type mode struct {
	normal  tick
	special tick
}

// Damage tables for the two balance splits. The special rows are the
// Confusion on-skill-use tick and the Torment moving tick; note the Torment
// rows swap between modes (stationary bonus in PvE, moving bonus in WvW).
var (
	pve = [count]mode{
		Bleeding:  {normal: tick{0.06, 22}, special: tick{0.06, 22}},
		Burning:   {normal: tick{0.155, 131}, special: tick{0.155, 131}},
		Confusion: {normal: tick{0.035, 18.25}, special: tick{0.0975, 49.5}},
		Poison:    {normal: tick{0.06, 33.5}, special: tick{0.06, 33.5}},
		Torment:   {normal: tick{0.09, 31.8}, special: tick{0.06, 22}},
	}
	wvw = [count]mode{
		Bleeding:  {normal: tick{0.06, 22}, special: tick{0.06, 22}},
		Burning:   {normal: tick{0.155, 131}, special: tick{0.155, 131}},
		Confusion: {normal: tick{0.05, 26}, special: tick{0.0975, 49.5}},
		Poison:    {normal: tick{0.06, 33.5}, special: tick{0.06, 33.5}},
		Torment:   {normal: tick{0.06, 22}, special: tick{0.09, 31.8}},
	}
)

// slotSet names the five register-file slots and the damage-multiplier key
// belonging to one condition.
type slotSet struct {
	coefficient attribute.Attribute
	duration    attribute.Attribute
	stacks      attribute.Attribute
	damageTick  attribute.Attribute
	dps         attribute.Attribute
	damageMod   attribute.Attribute
}

var slots = [count]slotSet{
	Bleeding: {
		attribute.BleedingCoefficient, attribute.BleedingDuration,
		attribute.BleedingStacks, attribute.BleedingDamageTick,
		attribute.BleedingDPS, attribute.OutgoingBleedingDamage,
	},
	Burning: {
		attribute.BurningCoefficient, attribute.BurningDuration,
		attribute.BurningStacks, attribute.BurningDamageTick,
		attribute.BurningDPS, attribute.OutgoingBurningDamage,
	},
	Confusion: {
		attribute.ConfusionCoefficient, attribute.ConfusionDuration,
		attribute.ConfusionStacks, attribute.ConfusionDamageTick,
		attribute.ConfusionDPS, attribute.OutgoingConfusionDamage,
	},
	Poison: {
		attribute.PoisonCoefficient, attribute.PoisonDuration,
		attribute.PoisonStacks, attribute.PoisonDamageTick,
		attribute.PoisonDPS, attribute.OutgoingPoisonDamage,
	},
	Torment: {
		attribute.TormentCoefficient, attribute.TormentDuration,
		attribute.TormentStacks, attribute.TormentDamageTick,
		attribute.TormentDPS, attribute.OutgoingTormentDamage,
	},
}

// All returns every condition kind in enumeration order.
func All() []Condition {
	return []Condition{Bleeding, Burning, Confusion, Poison, Torment}
}

// Valid reports whether c is a member of the condition set.
func (c Condition) Valid() bool {
	return c >= 0 && c < count
}

// String returns the display name.
func (c Condition) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Condition(%d)", int(c))
	}
	return names[c]
}

// Parse resolves a display name to its Condition.
func Parse(name string) (Condition, error) {
	for c := Condition(0); c < count; c++ {
		if names[c] == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown condition %q", name)
}

// Special reports whether c has an activity-dependent tick variant: Confusion
// (on skill use) and Torment (while moving).
func (c Condition) Special() bool {
	return c == Confusion || c == Torment
}

// Factor returns the condition-damage coefficient of the damage tick for the
// given game mode and variant.
//
// Precondition: c.Valid(). Panics otherwise.
func (c Condition) Factor(wvwMode, special bool) float64 {
	return c.row(wvwMode, special).factor
}

// BaseDamage returns the flat part of the damage tick for the given game mode
// and variant.
//
// Precondition: c.Valid(). Panics otherwise.
func (c Condition) BaseDamage(wvwMode, special bool) float64 {
	return c.row(wvwMode, special).base
}

func (c Condition) row(wvwMode, special bool) tick {
	if !c.Valid() {
		panic(fmt.Sprintf("condition: table lookup with invalid condition %d", int(c)))
	}
	table := &pve
	if wvwMode {
		table = &wvw
	}
	if special {
		return table[c].special
	}
	return table[c].normal
}

// Coefficient returns the register slot holding the summed stack coefficient.
func (c Condition) Coefficient() attribute.Attribute { return c.slot().coefficient }

// Duration returns the register slot holding the condition-specific duration
// bonus.
func (c Condition) Duration() attribute.Attribute { return c.slot().duration }

// Stacks returns the register slot the evaluator writes the computed stack
// count to.
func (c Condition) Stacks() attribute.Attribute { return c.slot().stacks }

// DamageTick returns the register slot the evaluator writes the per-stack
// tick damage to.
func (c Condition) DamageTick() attribute.Attribute { return c.slot().damageTick }

// DPS returns the register slot the evaluator writes the final per-condition
// damage score to.
func (c Condition) DPS() attribute.Attribute { return c.slot().dps }

// DamageModifier returns the multiplier-table key scaling this condition's
// damage.
func (c Condition) DamageModifier() attribute.Attribute { return c.slot().damageMod }

func (c Condition) slot() slotSet {
	if !c.Valid() {
		panic(fmt.Sprintf("condition: slot lookup with invalid condition %d", int(c)))
	}
	return slots[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Condition) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid condition %d", int(c))
	}
	return []byte(names[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Condition) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
