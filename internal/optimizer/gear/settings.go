package gear

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
)

// ProfessionMesmer is the profession whose builds derive clone and phantasm
// stats. The evaluator branches on an exact match of this name.
const ProfessionMesmer = "Mesmer"

// Constraints are optional floors and caps a build must satisfy to enter the
// results. A nil field means unconstrained. MinBoonDuration and MinCritChance
// are percent points (100 = 100%); the rest are raw attribute values.
type Constraints struct {
	MinBoonDuration *float64 `json:"minBoonDuration,omitempty"`
	MinHealingPower *float64 `json:"minHealingPower,omitempty"`
	MinToughness    *float64 `json:"minToughness,omitempty"`
	MaxToughness    *float64 `json:"maxToughness,omitempty"`
	MinHealth       *float64 `json:"minHealth,omitempty"`
	MinCritChance   *float64 `json:"minCritChance,omitempty"`
}

// Settings is the immutable configuration of one search.
//
// AffixOptions and AffixStats are parallel per slot: the position of an affix
// in AffixOptions[slot] is the index of its stat deltas in AffixStats[slot].
// That positional join is load-bearing throughout the evaluator.
type Settings struct {
	Profession string              `json:"profession"`
	WvW        bool                `json:"wvw"`
	RankBy     attribute.Attribute `json:"rankby"`
	Slots      int                 `json:"slots"`

	AffixOptions [][]Affix  `json:"affixes"`
	AffixStats   [][][]Stat `json:"affixStats"`

	MaxResults     int         `json:"maxResults"`
	AttackRate     float64     `json:"attackRate"`
	MovementUptime float64     `json:"movementUptime"`
	Constraints    Constraints `json:"constraints"`
}

// Normalize rewrites degenerate inputs into their canonical form: a slot with
// an empty candidate list becomes the single sentinel AffixNone with no
// deltas, so the slot keeps branching factor 1 and positional indexing stays
// intact. Safe to call more than once.
func (s *Settings) Normalize() {
	if len(s.AffixOptions) != s.Slots || len(s.AffixStats) != s.Slots {
		return
	}
	for i := range s.AffixOptions {
		if len(s.AffixOptions[i]) == 0 {
			s.AffixOptions[i] = []Affix{AffixNone}
			s.AffixStats[i] = [][]Stat{{}}
		}
	}
}

// Validate is the fail-fast structural check run before any traversal. It
// reports every problem it finds, joined with "; ".
func (s *Settings) Validate() error {
	var errs []string
	if s.Slots <= 0 {
		errs = append(errs, fmt.Sprintf("slots must be positive, got %d", s.Slots))
	}
	if !s.RankBy.Valid() {
		errs = append(errs, fmt.Sprintf("rankby attribute %d out of range", int(s.RankBy)))
	}
	if s.MaxResults <= 0 {
		errs = append(errs, fmt.Sprintf("maxResults must be positive, got %d", s.MaxResults))
	}
	if s.AttackRate < 0 || s.AttackRate > 1 {
		errs = append(errs, fmt.Sprintf("attackRate must be in [0,1], got %v", s.AttackRate))
	}
	if s.MovementUptime < 0 || s.MovementUptime > 1 {
		errs = append(errs, fmt.Sprintf("movementUptime must be in [0,1], got %v", s.MovementUptime))
	}
	if len(s.AffixOptions) != s.Slots {
		errs = append(errs, fmt.Sprintf("affix options cover %d slots, want %d", len(s.AffixOptions), s.Slots))
	}
	if len(s.AffixStats) != s.Slots {
		errs = append(errs, fmt.Sprintf("affix stats cover %d slots, want %d", len(s.AffixStats), s.Slots))
	}
	if len(s.AffixOptions) == s.Slots && len(s.AffixStats) == s.Slots {
		for i := range s.AffixOptions {
			if len(s.AffixStats[i]) != len(s.AffixOptions[i]) {
				errs = append(errs, fmt.Sprintf("slot %d has %d candidates but %d stat entries",
					i, len(s.AffixOptions[i]), len(s.AffixStats[i])))
			}
			for _, a := range s.AffixOptions[i] {
				if !a.Valid() {
					errs = append(errs, fmt.Sprintf("slot %d candidate affix %d out of range", i, int(a)))
				}
			}
			for j, stats := range s.AffixStats[i] {
				for _, st := range stats {
					if !st.Attribute.Valid() {
						errs = append(errs, fmt.Sprintf("slot %d candidate %d stat attribute %d out of range",
							i, j, int(st.Attribute)))
					}
				}
			}
		}
	}
	if lo, hi := s.Constraints.MinToughness, s.Constraints.MaxToughness; lo != nil && hi != nil && *hi < *lo {
		errs = append(errs, fmt.Sprintf("maxToughness %v below minToughness %v", *hi, *lo))
	}
	if len(errs) > 0 {
		return fmt.Errorf("settings: %s", strings.Join(errs, "; "))
	}
	return nil
}

// CandidateIndex returns the position of a in slot's candidate list, or -1
// when the affix is not a candidate for that slot.
//
// Precondition: 0 <= slot < Slots.
func (s *Settings) CandidateIndex(slot int, a Affix) int {
	for i, candidate := range s.AffixOptions[slot] {
		if candidate == a {
			return i
		}
	}
	return -1
}
