package domain

import (
	"slices"
)

// Medal weights used for the weighted score.
const (
	GoldWeight   = 3
	SilverWeight = 2
	BronzeWeight = 1
)

// CountryTally holds the per-medal counts of one country.
type CountryTally struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Total returns gold+silver+bronze. Ranking is computed from this value.
func (t CountryTally) Total() int { return t.Gold + t.Silver + t.Bronze }

// Weight returns the weighted score 3*gold + 2*silver + 1*bronze.
// It sizes the color scale only and never influences ranking.
func (t CountryTally) Weight() int {
	return GoldWeight*t.Gold + SilverWeight*t.Silver + BronzeWeight*t.Bronze
}

// Count returns the slot matching m, or 0 for MedalNone.
func (t CountryTally) Count(m Medal) int {
	switch m {
	case MedalGold:
		return t.Gold
	case MedalSilver:
		return t.Silver
	case MedalBronze:
		return t.Bronze
	default:
		return 0
	}
}

// IsZero reports whether the country has no medal at all.
func (t CountryTally) IsZero() bool { return t.Total() == 0 }

// DominantMedal returns the best medal type the country has won:
// Gold if any gold, else Silver, else Bronze, else MedalNone.
func (t CountryTally) DominantMedal() Medal {
	switch {
	case t.Gold > 0:
		return MedalGold
	case t.Silver > 0:
		return MedalSilver
	case t.Bronze > 0:
		return MedalBronze
	default:
		return MedalNone
	}
}

func (t *CountryTally) add(m Medal) {
	switch m {
	case MedalGold:
		t.Gold++
	case MedalSilver:
		t.Silver++
	case MedalBronze:
		t.Bronze++
	}
}

// Tallies maps a country name to its tally.
type Tallies map[string]CountryTally

// Lookup returns the tally of country, or a zero tally when the country has
// no rows in the dataset.
func (t Tallies) Lookup(country string) CountryTally { return t[country] }

// Has reports whether the country appeared in the input.
func (t Tallies) Has(country string) bool {
	_, ok := t[country]
	return ok
}

// Countries returns the country names sorted ascending.
func (t Tallies) Countries() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TotalMedals returns the sum of all slots across every country.
func (t Tallies) TotalMedals() int {
	total := 0
	for _, tally := range t {
		total += tally.Total()
	}
	return total
}

// MaxWeight returns the largest weighted score across all countries, or 0
// for an empty mapping.
func (t Tallies) MaxWeight() int {
	best := 0
	for _, tally := range t {
		best = max(best, tally.Weight())
	}
	return best
}
