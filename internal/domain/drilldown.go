package domain

import (
	"cmp"
	"slices"
	"strings"
)

// DefaultAthleteLimit is the number of athletes shown in a country's
// athlete breakdown.
const DefaultAthleteLimit = 10

// DefaultTopCountries is the number of countries in a top list.
const DefaultTopCountries = 10

// YearCount is the number of medals a country won in one year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// AthleteCount is the number of medals one athlete won for a country.
type AthleteCount struct {
	Athlete string `json:"athlete"`
	Count   int    `json:"count"`
}

// MedalsByYear groups the medal rows of country by year, ascending.
// Each year appears once; years where the country only has MedalNone rows
// are omitted. An unknown country yields an empty slice.
func MedalsByYear(records []MedalRecord, country string) []YearCount {
	counts := make(map[int]int)
	for _, r := range records {
		if r.Country != country || !r.HasMedal() {
			continue
		}
		counts[r.Year]++
	}

	years := make([]YearCount, 0, len(counts))
	for year, count := range counts {
		years = append(years, YearCount{Year: year, Count: count})
	}
	slices.SortFunc(years, func(a, b YearCount) int { return cmp.Compare(a.Year, b.Year) })
	return years
}

// MedalsByAthlete returns the top DefaultAthleteLimit athletes of country by
// medal count. See MedalsByAthleteN.
func MedalsByAthlete(records []MedalRecord, country string) []AthleteCount {
	return MedalsByAthleteN(records, country, DefaultAthleteLimit)
}

// MedalsByAthleteN counts medal rows per athlete for country, sorts them by
// count descending and keeps the first limit entries. Athletes with equal
// counts keep the order in which they first appear in records.
// A limit <= 0 returns every athlete.
func MedalsByAthleteN(records []MedalRecord, country string, limit int) []AthleteCount {
	index := make(map[string]int)
	var athletes []AthleteCount
	for _, r := range records {
		if r.Country != country || !r.HasMedal() {
			continue
		}
		i, ok := index[r.Athlete]
		if !ok {
			i = len(athletes)
			index[r.Athlete] = i
			athletes = append(athletes, AthleteCount{Athlete: r.Athlete})
		}
		athletes[i].Count++
	}

	slices.SortStableFunc(athletes, func(a, b AthleteCount) int { return cmp.Compare(b.Count, a.Count) })
	if limit > 0 && len(athletes) > limit {
		athletes = athletes[:limit]
	}
	if athletes == nil {
		return []AthleteCount{}
	}
	return athletes
}

// CountrySeries is the per-year medal series of one country.
type CountrySeries struct {
	Country string      `json:"country"`
	Years   []YearCount `json:"years"`
}

// CompareByYear returns one MedalsByYear series per country, in the order
// the countries were given. Duplicate and empty names are skipped.
func CompareByYear(records []MedalRecord, countries []string) []CountrySeries {
	seen := make(map[string]struct{}, len(countries))
	series := make([]CountrySeries, 0, len(countries))
	for _, country := range countries {
		if country == "" {
			continue
		}
		if _, dup := seen[country]; dup {
			continue
		}
		seen[country] = struct{}{}
		series = append(series, CountrySeries{
			Country: country,
			Years:   MedalsByYear(records, country),
		})
	}
	return series
}

// GenderCount is the number of rows per athlete sex.
type GenderCount struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// GenderDistribution counts rows by sex. Rows with an unknown sex are ignored.
func GenderDistribution(records []MedalRecord) GenderCount {
	var gc GenderCount
	for _, r := range records {
		switch r.Sex {
		case SexMale:
			gc.Male++
		case SexFemale:
			gc.Female++
		}
	}
	return gc
}

// Criterion selects the value a top list is sorted by.
type Criterion string

// Supported top list criteria.
const (
	CriterionTotal  Criterion = "total"
	CriterionGold   Criterion = "gold"
	CriterionSilver Criterion = "silver"
	CriterionBronze Criterion = "bronze"
)

// ParseCriterion accepts a criterion name ("gold") or a dashboard label
// ("Top Gold"), case-insensitively. An empty string selects CriterionTotal.
func ParseCriterion(s string) (Criterion, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "top ")
	switch Criterion(v) {
	case "", CriterionTotal:
		return CriterionTotal, nil
	case CriterionGold, CriterionSilver, CriterionBronze:
		return Criterion(v), nil
	default:
		return "", &CriterionError{Value: s}
	}
}

// Value extracts the sort value of t for the criterion.
func (c Criterion) Value(t CountryTally) int {
	switch c {
	case CriterionGold:
		return t.Gold
	case CriterionSilver:
		return t.Silver
	case CriterionBronze:
		return t.Bronze
	default:
		return t.Total()
	}
}

// CountryValue pairs a country with the value it was sorted by.
type CountryValue struct {
	Country  string       `json:"country"`
	Tally    CountryTally `json:"tally"`
	Value    int          `json:"value"`
	Dominant Medal        `json:"dominant"`
}

// TopCountries returns the n countries with the highest value for the
// criterion, best first, ties ordered by country name. n <= 0 returns all.
func TopCountries(tallies Tallies, criterion Criterion, n int) []CountryValue {
	top := make([]CountryValue, 0, len(tallies))
	for country, tally := range tallies {
		top = append(top, CountryValue{
			Country:  country,
			Tally:    tally,
			Value:    criterion.Value(tally),
			Dominant: tally.DominantMedal(),
		})
	}

	slices.SortFunc(top, func(a, b CountryValue) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Country, b.Country)
	})
	if n > 0 && len(top) > n {
		top = top[:n]
	}
	return top
}

// Countries returns every country in tallies except exclude, sorted.
// It backs the comparison picker, which never offers the selected country.
func Countries(tallies Tallies, exclude string) []string {
	names := tallies.Countries()
	return slices.DeleteFunc(names, func(name string) bool { return name == exclude })
}
