// Package gear models the searchable equipment space: affixes, per-slot stat
// deltas, extras combinations and the search settings that bind them.
package gear

import "fmt"

// Affix identifies one selectable stat prefix for a gear slot.
type Affix int

const (
	// AffixNone marks an unused slot, e.g. the off-hand removed by a
	// two-handed weapon. It contributes no stats but still occupies a
	// position in the candidate list.
	AffixNone Affix = iota
	// AffixCustom is a caller-defined prefix whose deltas are supplied
	// explicitly and never resolved through a catalog.
	AffixCustom

	AffixApothecary
	AffixAssassin
	AffixBerserker
	AffixCavalier
	AffixCelestial
	AffixCommander
	AffixCrusader
	AffixDiviner
	AffixDire
	AffixGiver
	AffixGrieving
	AffixHarrier
	AffixKnight
	AffixMagi
	AffixMarauder
	AffixMarshal
	AffixMinstrel
	AffixNomad
	AffixPlaguedoctor
	AffixRabid
	AffixRitualist
	AffixSentinel
	AffixSeraph
	AffixShaman
	AffixSinister
	AffixSoldier
	AffixTrailblazer
	AffixValkyrie
	AffixViper
	AffixWanderer
	AffixZealot

	affixCount
)

var affixNames = [affixCount]string{
	AffixNone:         "None",
	AffixCustom:       "Custom",
	AffixApothecary:   "Apothecary",
	AffixAssassin:     "Assassin",
	AffixBerserker:    "Berserker",
	AffixCavalier:     "Cavalier",
	AffixCelestial:    "Celestial",
	AffixCommander:    "Commander",
	AffixCrusader:     "Crusader",
	AffixDiviner:      "Diviner",
	AffixDire:         "Dire",
	AffixGiver:        "Giver",
	AffixGrieving:     "Grieving",
	AffixHarrier:      "Harrier",
	AffixKnight:       "Knight",
	AffixMagi:         "Magi",
	AffixMarauder:     "Marauder",
	AffixMarshal:      "Marshal",
	AffixMinstrel:     "Minstrel",
	AffixNomad:        "Nomad",
	AffixPlaguedoctor: "Plaguedoctor",
	AffixRabid:        "Rabid",
	AffixRitualist:    "Ritualist",
	AffixSentinel:     "Sentinel",
	AffixSeraph:       "Seraph",
	AffixShaman:       "Shaman",
	AffixSinister:     "Sinister",
	AffixSoldier:      "Soldier",
	AffixTrailblazer:  "Trailblazer",
	AffixValkyrie:     "Valkyrie",
	AffixViper:        "Viper",
	AffixWanderer:     "Wanderer",
	AffixZealot:       "Zealot",
}

var affixByName = func() map[string]Affix {
	m := make(map[string]Affix, affixCount)
	for a := AffixNone; a < affixCount; a++ {
		m[affixNames[a]] = a
	}
	return m
}()

// Valid reports whether a is a member of the affix set.
func (a Affix) Valid() bool {
	return a >= 0 && a < affixCount
}

// String returns the display name.
func (a Affix) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Affix(%d)", int(a))
	}
	return affixNames[a]
}

// ParseAffix resolves a display name to its Affix.
func ParseAffix(name string) (Affix, error) {
	a, ok := affixByName[name]
	if !ok {
		return 0, fmt.Errorf("unknown affix %q", name)
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Affix) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid affix %d", int(a))
	}
	return []byte(affixNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Affix) UnmarshalText(text []byte) error {
	parsed, err := ParseAffix(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
