// Package traits defines species characteristics as a bit set.
package traits

import (
	"fmt"
	"strings"
)

// Trait defines a species characteristic.
type Trait uint32

const (
	// Lifecycle traits
	Perennial        Trait = 1 << iota // Never enters senescence from maturity
	NeedsPollination                   // Harvest requires the pollination flag

	// Neighbor interaction traits
	AttractsBeneficials // Raises beneficial attraction once flowering
	SuppressesNematodes // Suppresses root-feeder spawns in and around its cell

	// Structure affinity
	TrellisLoving // Benefits from an adjacent trellis (yield up, BN draw down)
)

// traitNames maps config names to traits.
var traitNames = map[string]Trait{
	"perennial":            Perennial,
	"needs_pollination":    NeedsPollination,
	"attracts_beneficials": AttractsBeneficials,
	"suppresses_nematodes": SuppressesNematodes,
	"trellis_loving":       TrellisLoving,
}

// Has checks if a trait set contains a trait.
func (t Trait) Has(other Trait) bool {
	return t&other != 0
}

// Add adds a trait to the set.
func (t Trait) Add(other Trait) Trait {
	return t | other
}

// Remove removes a trait from the set.
func (t Trait) Remove(other Trait) Trait {
	return t &^ other
}

// Parse converts config names into a trait set.
func Parse(names []string) (Trait, error) {
	var set Trait
	for _, name := range names {
		tr, ok := traitNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown trait %q", name)
		}
		set = set.Add(tr)
	}
	return set, nil
}

// TraitNames returns human-readable names for traits.
func TraitNames(t Trait) []string {
	var names []string
	if t.Has(Perennial) {
		names = append(names, "Perennial")
	}
	if t.Has(NeedsPollination) {
		names = append(names, "Needs Pollination")
	}
	if t.Has(AttractsBeneficials) {
		names = append(names, "Attracts Beneficials")
	}
	if t.Has(SuppressesNematodes) {
		names = append(names, "Suppresses Nematodes")
	}
	if t.Has(TrellisLoving) {
		names = append(names, "Trellis Loving")
	}
	return names
}
