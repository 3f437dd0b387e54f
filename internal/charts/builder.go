package charts

import (
	"strconv"

	"github.com/ahrav/go-medals/internal/domain"
)

// Palette used for line series, one color per country.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// Medal and gender colors.
const (
	ColorGold    = "#ffd700"
	ColorSilver  = "#c0c0c0"
	ColorBronze  = "#cd7f32"
	ColorNone    = "#69b3a2"
	ColorAthlete = "#556b2f"
	ColorMale    = "#3498db"
	ColorFemale  = "#e74c3c"
)

// MedalColor returns the bar color of a medal type.
func MedalColor(m domain.Medal) string {
	switch m {
	case domain.MedalGold:
		return ColorGold
	case domain.MedalSilver:
		return ColorSilver
	case domain.MedalBronze:
		return ColorBronze
	default:
		return ColorNone
	}
}

// CountryMedals builds the gold/silver/bronze bar chart of one country.
func CountryMedals(country string, tally domain.CountryTally) *ChartConfig {
	medals := []domain.Medal{domain.MedalGold, domain.MedalSilver, domain.MedalBronze}
	points := make([]ChartPoint, 0, len(medals))
	for _, m := range medals {
		points = append(points, ChartPoint{
			Label: m.String(),
			Value: float64(tally.Count(m)),
			Color: MedalColor(m),
		})
	}

	return &ChartConfig{
		ChartType: TypeBar,
		Title:     country,
		XAxis:     "Medal",
		YAxis:     "Count",
		Series:    []ChartSeries{{Name: country, Data: points}},
		Colors:    []string{ColorGold, ColorSilver, ColorBronze},
		ShowGrid:  true,
	}
}

// Athletes builds the horizontal bar chart of a country's top athletes.
// It returns nil when there is nothing to plot.
func Athletes(country string, athletes []domain.AthleteCount) *ChartConfig {
	if len(athletes) == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(athletes))
	for _, a := range athletes {
		points = append(points, ChartPoint{Label: a.Athlete, Value: float64(a.Count)})
	}

	return &ChartConfig{
		ChartType: TypeBar,
		Title:     "Top athletes: " + country,
		XAxis:     "Athlete",
		YAxis:     "Medals",
		Series:    []ChartSeries{{Name: country, Data: points, Color: ColorAthlete}},
		Colors:    []string{ColorAthlete},
		ShowGrid:  true,
	}
}

// Years builds the medals-per-year line chart with one series per country,
// in the order given. It returns nil when no series has a point.
func Years(series []domain.CountrySeries) *ChartConfig {
	if !hasPoints(series) {
		return nil
	}

	out := make([]ChartSeries, 0, len(series))
	for i, s := range series {
		points := make([]ChartPoint, 0, len(s.Years))
		for _, y := range s.Years {
			points = append(points, ChartPoint{Label: strconv.Itoa(y.Year), Value: float64(y.Count)})
		}
		out = append(out, ChartSeries{
			Name:  s.Country,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return &ChartConfig{
		ChartType:  TypeLine,
		Title:      "Medals per year",
		XAxis:      "Year",
		YAxis:      "Medals",
		Series:     out,
		Colors:     assignColors(len(out)),
		ShowLegend: len(out) > 1,
		ShowGrid:   true,
	}
}

// TopCountries builds the top countries bar chart. Each bar is colored by
// the country's dominant medal.
func TopCountries(criterion domain.Criterion, top []domain.CountryValue) *ChartConfig {
	if len(top) == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(top))
	for _, cv := range top {
		points = append(points, ChartPoint{
			Label: cv.Country,
			Value: float64(cv.Value),
			Color: MedalColor(cv.Dominant),
		})
	}

	return &ChartConfig{
		ChartType: TypeBar,
		Title:     "Top " + string(criterion),
		XAxis:     "Country",
		YAxis:     "Medals",
		Series:    []ChartSeries{{Name: string(criterion), Data: points}},
		ShowGrid:  true,
	}
}

// Gender builds the male/female pie chart. It returns nil when both counts
// are zero.
func Gender(gc domain.GenderCount) *ChartConfig {
	if gc.Male == 0 && gc.Female == 0 {
		return nil
	}

	return &ChartConfig{
		ChartType: TypePie,
		Title:     "Gender distribution",
		Series: []ChartSeries{{
			Name: "Athletes",
			Data: []ChartPoint{
				{Label: "Male", Value: float64(gc.Male), Color: ColorMale},
				{Label: "Female", Value: float64(gc.Female), Color: ColorFemale},
			},
		}},
		Colors:     []string{ColorMale, ColorFemale},
		ShowLegend: true,
	}
}

func hasPoints(series []domain.CountrySeries) bool {
	for _, s := range series {
		if len(s.Years) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := range count {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
