// Package catalog resolves (affix, slot) pairs into concrete stat deltas.
// A catalog document carries affix profiles (which attributes an affix
// raises, and in what shape) and per-slot budgets (how many points a slot
// grants for each shape), so a request can name its slots instead of
// spelling out every delta.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/attribute"
	"github.com/cory-johannsen/gearsmith/internal/optimizer/gear"
)

// Affix kinds select a slot's budget row.
const (
	KindTriple    = "triple"
	KindQuadruple = "quadruple"
	KindCelestial = "celestial"
)

// profileDoc is the YAML shape of one affix profile. Attribute references
// are display names; they resolve during Parse.
type profileDoc struct {
	Kind  string   `yaml:"kind"`
	Major []string `yaml:"major"`
	Minor []string `yaml:"minor,omitempty"`
}

// Budget is one slot's stat values for a single affix kind.
type Budget struct {
	Major float64 `yaml:"major"`
	Minor float64 `yaml:"minor,omitempty"`
}

type document struct {
	Affixes map[string]profileDoc        `yaml:"affixes"`
	Slots   map[string]map[string]Budget `yaml:"slots"`
}

type profile struct {
	kind  string
	major []attribute.Attribute
	minor []attribute.Attribute
}

// Catalog is a parsed, name-resolved catalog document.
type Catalog struct {
	profiles map[gear.Affix]profile
	slots    map[string]map[string]Budget
}

// Load reads and parses the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. Unknown YAML fields, unknown affix or
// attribute names and unknown kinds are errors.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: parsing: %w", err)
	}

	cat := &Catalog{
		profiles: make(map[gear.Affix]profile, len(doc.Affixes)),
		slots:    doc.Slots,
	}
	for name, p := range doc.Affixes {
		affix, err := gear.ParseAffix(name)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if p.Kind != KindTriple && p.Kind != KindQuadruple && p.Kind != KindCelestial {
			return nil, fmt.Errorf("catalog: affix %s: unknown kind %q", affix, p.Kind)
		}
		prof := profile{kind: p.Kind}
		if prof.major, err = parseAttributes(p.Major); err != nil {
			return nil, fmt.Errorf("catalog: affix %s: %w", affix, err)
		}
		if prof.minor, err = parseAttributes(p.Minor); err != nil {
			return nil, fmt.Errorf("catalog: affix %s: %w", affix, err)
		}
		cat.profiles[affix] = prof
	}
	for slotName, budgets := range doc.Slots {
		for kind := range budgets {
			if kind != KindTriple && kind != KindQuadruple && kind != KindCelestial {
				return nil, fmt.Errorf("catalog: slot %q: unknown kind %q", slotName, kind)
			}
		}
	}
	return cat, nil
}

func parseAttributes(names []string) ([]attribute.Attribute, error) {
	out := make([]attribute.Attribute, 0, len(names))
	for _, name := range names {
		a, err := attribute.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// SlotStats expands one (affix, slot) pair into its stat deltas: major
// attributes at the slot's major value, minor attributes at the minor value.
//
// AffixNone expands to no stats. AffixCustom cannot be expanded; its deltas
// are always supplied explicitly.
func (c *Catalog) SlotStats(affix gear.Affix, slotName string) ([]gear.Stat, error) {
	if affix == gear.AffixNone {
		return []gear.Stat{}, nil
	}
	if affix == gear.AffixCustom {
		return nil, errors.New("catalog: custom affixes carry explicit deltas")
	}
	prof, ok := c.profiles[affix]
	if !ok {
		return nil, fmt.Errorf("catalog: no profile for affix %s", affix)
	}
	budgets, ok := c.slots[slotName]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown slot %q", slotName)
	}
	budget, ok := budgets[prof.kind]
	if !ok {
		return nil, fmt.Errorf("catalog: slot %q has no %s budget", slotName, prof.kind)
	}
	stats := make([]gear.Stat, 0, len(prof.major)+len(prof.minor))
	for _, a := range prof.major {
		stats = append(stats, gear.Stat{Attribute: a, Value: budget.Major})
	}
	for _, a := range prof.minor {
		stats = append(stats, gear.Stat{Attribute: a, Value: budget.Minor})
	}
	return stats, nil
}

// BuildAffixStats expands the full per-slot, per-candidate delta grid
// parallel to options.
//
// Precondition: len(slotNames) == len(options).
func (c *Catalog) BuildAffixStats(slotNames []string, options [][]gear.Affix) ([][][]gear.Stat, error) {
	if len(slotNames) != len(options) {
		return nil, fmt.Errorf("catalog: %d slot names for %d slots", len(slotNames), len(options))
	}
	out := make([][][]gear.Stat, len(options))
	for slot, candidates := range options {
		out[slot] = make([][]gear.Stat, len(candidates))
		for i, affix := range candidates {
			stats, err := c.SlotStats(affix, slotNames[slot])
			if err != nil {
				return nil, err
			}
			out[slot][i] = stats
		}
	}
	return out, nil
}
