package gear

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/condition"
)

// Stat is a single additive attribute contribution granted by one affix in
// one slot.
type Stat struct {
	Attribute attribute.Attribute `json:"attribute"`
	Value     float64             `json:"value"`
}

// ConversionSource is one term of a conversion: a fraction of the source
// attribute's value.
type ConversionSource struct {
	Source attribute.Attribute `json:"source"`
	Factor float64             `json:"factor"`
}

// Conversion feeds fractions of one or more source attributes into a target
// attribute. Sources are applied in order.
type Conversion struct {
	Target  attribute.Attribute `json:"target"`
	Sources []ConversionSource  `json:"sources"`
}

// Bonus is a flat additive attribute bonus.
type Bonus struct {
	Target attribute.Attribute `json:"target"`
	Amount float64             `json:"amount"`
}

// Modifiers holds the three ordered transformation stages of a combination
// plus its damage-multiplier table. Converts read pre-modifier base values;
// Buffs are flat; ConvertsAfterBuffs read the post-buff working values.
type Modifiers struct {
	Converts           []Conversion                    `json:"convert,omitempty"`
	Buffs              []Bonus                         `json:"buff,omitempty"`
	ConvertsAfterBuffs []Conversion                    `json:"convertAfterBuffs,omitempty"`
	DamageMultipliers  map[attribute.Attribute]float64 `json:"damageMultiplier,omitempty"`
}

// DamageMultiplier returns the stacked multiplier stored under key a, or 1
// when the table has no entry for it.
//
// Precondition: a.Valid(). Panics otherwise.
func (m *Modifiers) DamageMultiplier(a attribute.Attribute) float64 {
	if !a.Valid() {
		panic(fmt.Sprintf("gear: DamageMultiplier with invalid attribute %d", int(a)))
	}
	if v, ok := m.DamageMultipliers[a]; ok {
		return v
	}
	return 1
}

// Combination is one immutable "extras" loadout (runes, sigils, food, traits)
// tested against every gear assignment.
type Combination struct {
	// Name is an optional display label for reports; it has no effect on
	// scoring.
	Name               string                          `json:"name,omitempty"`
	BaseAttributes     map[attribute.Attribute]float64 `json:"baseAttributes"`
	Modifiers          Modifiers                       `json:"modifiers"`
	RelevantConditions []condition.Condition           `json:"relevantConditions,omitempty"`
}

// Validate checks that every enum reference inside the combination is a
// member of its closed set and that the relevant-condition list is a proper
// ordered set.
func (c *Combination) Validate() error {
	var errs []string
	for a := range c.BaseAttributes {
		if !a.Valid() {
			errs = append(errs, fmt.Sprintf("base attribute %d out of range", int(a)))
		}
	}
	errs = append(errs, validateConversions("convert", c.Modifiers.Converts)...)
	for _, b := range c.Modifiers.Buffs {
		if !b.Target.Valid() {
			errs = append(errs, fmt.Sprintf("buff target %d out of range", int(b.Target)))
		}
	}
	errs = append(errs, validateConversions("convertAfterBuffs", c.Modifiers.ConvertsAfterBuffs)...)
	for a := range c.Modifiers.DamageMultipliers {
		if !a.Valid() {
			errs = append(errs, fmt.Sprintf("damage multiplier key %d out of range", int(a)))
		}
	}
	seen := make(map[condition.Condition]bool, len(c.RelevantConditions))
	for _, cond := range c.RelevantConditions {
		if !cond.Valid() {
			errs = append(errs, fmt.Sprintf("condition %d out of range", int(cond)))
			continue
		}
		if seen[cond] {
			errs = append(errs, fmt.Sprintf("condition %s listed twice", cond))
		}
		seen[cond] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("combination %q: %s", c.Name, strings.Join(errs, "; "))
	}
	return nil
}

func validateConversions(stage string, convs []Conversion) []string {
	var errs []string
	for _, conv := range convs {
		if !conv.Target.Valid() {
			errs = append(errs, fmt.Sprintf("%s target %d out of range", stage, int(conv.Target)))
		}
		for _, src := range conv.Sources {
			if !src.Source.Valid() {
				errs = append(errs, fmt.Sprintf("%s source %d out of range", stage, int(src.Source)))
			}
		}
	}
	return errs
}
