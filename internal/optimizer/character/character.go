// Package character defines the mutable scratch entity the evaluator scores
// gear assignments into.
package character

import (
	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// Character is a single-owner scratch buffer. One instance is allocated per
// search worker and reused for every leaf; the evaluator clears it at the
// start of each evaluation, so no field ever carries state across leaves.
//
// Invariant: after Clear, Gear holds only AffixNone, both register files are
// zero and CombinationID is zero. RankBy survives Clear.
type Character struct {
	// Gear is the current assignment, one affix per slot.
	Gear []gear.Affix `json:"gear"`
	// Base holds attributes assembled from the combination plus gear deltas,
	// before the modifier pipeline runs.
	Base attribute.Array `json:"baseAttributes"`
	// Attributes is the working register file the pipeline and the scores
	// are written to.
	Attributes attribute.Array `json:"attributes"`
	// CombinationID is the index of the combination this evaluation used.
	CombinationID int `json:"combination_id"`
	// RankBy names the attribute that orders this character in results.
	RankBy attribute.Attribute `json:"rankby"`
}

// New returns a cleared Character with the given ranking attribute and slot
// count.
//
// Precondition: slots > 0 and rankBy.Valid().
func New(rankBy attribute.Attribute, slots int) *Character {
	return &Character{
		Gear:   make([]gear.Affix, slots),
		RankBy: rankBy,
	}
}

// Clear resets every per-leaf field so the buffer can be reused.
//
// Postcondition: Score() == 0 and every gear slot is AffixNone.
func (c *Character) Clear() {
	for i := range c.Gear {
		c.Gear[i] = gear.AffixNone
	}
	c.Base.Clear()
	c.Attributes.Clear()
	c.CombinationID = 0
}

// SetGear copies the assignment into the scratch gear slice.
//
// Precondition: len(assignment) == len(c.Gear).
func (c *Character) SetGear(assignment []gear.Affix) {
	copy(c.Gear, assignment)
}

// Clone returns a deep copy safe to retain after c is cleared and reused.
func (c *Character) Clone() *Character {
	dup := *c
	dup.Gear = make([]gear.Affix, len(c.Gear))
	copy(dup.Gear, c.Gear)
	return &dup
}

// Score returns the value of the ranking attribute.
func (c *Character) Score() float64 {
	return c.Attributes.Get(c.RankBy)
}

// Invalid reports whether the character violates any of the configured
// constraints. Percent constraints compare against fractional attributes, so
// the thresholds are divided by 100 here.
func (c *Character) Invalid(cs *gear.Constraints) bool {
	if cs.MinBoonDuration != nil && c.Attributes.Get(attribute.BoonDuration) < *cs.MinBoonDuration/100 {
		return true
	}
	if cs.MinHealingPower != nil && c.Attributes.Get(attribute.HealingPower) < *cs.MinHealingPower {
		return true
	}
	if cs.MinToughness != nil && c.Attributes.Get(attribute.Toughness) < *cs.MinToughness {
		return true
	}
	if cs.MaxToughness != nil && c.Attributes.Get(attribute.Toughness) > *cs.MaxToughness {
		return true
	}
	if cs.MinHealth != nil && c.Attributes.Get(attribute.Health) < *cs.MinHealth {
		return true
	}
	if cs.MinCritChance != nil && c.Attributes.Get(attribute.CriticalChance) < *cs.MinCritChance/100 {
		return true
	}
	return false
}
