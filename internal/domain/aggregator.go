package domain

import (
	"cmp"
	"slices"
	"strings"
)

// Aggregate reduces medal records into per-country tallies.
// Every record is one medal instance; duplicates are counted, not merged.
// A record whose medal is MedalNone adds its country to the result without
// incrementing any slot, so every country present in the input appears
// exactly once in the returned mapping.
//
// Aggregate is pure and never fails: an empty input yields an empty mapping.
//
// Example:
//
//	tallies := Aggregate(records)
//	ch := tallies.Lookup("Switzerland") // zero tally when absent
func Aggregate(records []MedalRecord) Tallies {
	tallies := make(Tallies)
	for _, r := range records {
		tally := tallies[r.Country]
		tally.add(r.Medal)
		tallies[r.Country] = tally
	}
	return tallies
}

// Ranks maps a country name to its competition rank (1 is best).
type Ranks map[string]int

// Lookup returns the rank of country and whether it is ranked at all.
func (r Ranks) Lookup(country string) (int, bool) {
	rank, ok := r[country]
	return rank, ok
}

// Standing is one row of a ranked table.
type Standing struct {
	Country string       `json:"country"`
	Tally   CountryTally `json:"tally"`
	Total   int          `json:"total"`
	Weight  int          `json:"weight"`
	Rank    int          `json:"rank"`
}

// Rank assigns standard competition ranks ("1224") by total medal count.
// Countries are ordered by total descending; the first gets rank 1, a
// country tied with its predecessor shares the predecessor's rank, and any
// other country gets its 1-based position in the ordering. A tie block of
// size k therefore advances the next distinct rank by k:
//
//	{A: 2, B: 2, C: 1} -> {A: 1, B: 1, C: 3}
//
// Equal totals are ordered by country name for determinism; this never
// changes the assigned ranks. An empty mapping yields an empty result.
func Rank(tallies Tallies) Ranks {
	return ranksOf(Standings(tallies))
}

func ranksOf(standings []Standing) Ranks {
	ranks := make(Ranks, len(standings))
	for _, s := range standings {
		ranks[s.Country] = s.Rank
	}
	return ranks
}

// Standings returns the ranked table behind Rank, ordered best first.
func Standings(tallies Tallies) []Standing {
	standings := make([]Standing, 0, len(tallies))
	for country, tally := range tallies {
		standings = append(standings, Standing{
			Country: country,
			Tally:   tally,
			Total:   tally.Total(),
			Weight:  tally.Weight(),
		})
	}

	slices.SortFunc(standings, func(a, b Standing) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.Country, b.Country)
	})

	rank := 0
	for i := range standings {
		if i == 0 || standings[i].Total != standings[i-1].Total {
			rank = i + 1
		}
		standings[i].Rank = rank
	}
	return standings
}

// Summary is the result of aggregating a dataset once. It is built by
// Summarize and passed to every view derivation so totals are never
// recomputed inline.
type Summary struct {
	// Tallies holds the per-country medal counts.
	Tallies Tallies `json:"tallies"`

	// Ranks holds the competition rank of every country in Tallies.
	Ranks Ranks `json:"ranks"`

	// Standings is the ranked table, best first.
	Standings []Standing `json:"standings"`

	// MaxWeight is the largest weighted score and bounds the color scale.
	MaxWeight int `json:"max_weight"`

	// Records is the number of input rows.
	Records int `json:"records"`

	// Medals is the number of rows that carried a medal.
	Medals int `json:"medals"`
}

// Summarize aggregates and ranks records once. The ranked table and the
// rank lookup share a single sort.
func Summarize(records []MedalRecord) Summary {
	tallies := Aggregate(records)
	standings := Standings(tallies)
	return Summary{
		Tallies:   tallies,
		Ranks:     ranksOf(standings),
		Standings: standings,
		MaxWeight: tallies.MaxWeight(),
		Records:   len(records),
		Medals:    tallies.TotalMedals(),
	}
}

// ColorDomain is the input domain of the log color scale that paints the
// globe. Min is the floor assigned to countries without medals.
type ColorDomain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ColorDomain returns [floor, max(floor, MaxWeight)].
// A log scale cannot include zero, hence the positive floor.
func (s Summary) ColorDomain(floor float64) ColorDomain {
	return ColorDomain{Min: floor, Max: max(floor, float64(s.MaxWeight))}
}

// ColorValue returns the value a country is painted with: its weighted
// score, or floor when it has none.
func (s Summary) ColorValue(country string, floor float64) float64 {
	if w := s.Tallies.Lookup(country).Weight(); w > 0 {
		return float64(w)
	}
	return floor
}
