package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-medals/internal/domain"
)

func TestCountryMedals(t *testing.T) {
	cfg := CountryMedals("Norway", domain.CountryTally{Gold: 3, Silver: 1})

	require.NotNil(t, cfg)
	assert.Equal(t, TypeBar, cfg.ChartType)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, []ChartPoint{
		{Label: "Gold", Value: 3, Color: ColorGold},
		{Label: "Silver", Value: 1, Color: ColorSilver},
		{Label: "Bronze", Value: 0, Color: ColorBronze},
	}, cfg.Series[0].Data)
}

func TestAthletes(t *testing.T) {
	assert.Nil(t, Athletes("Chad", nil))
	assert.Nil(t, Athletes("Chad", []domain.AthleteCount{}))

	cfg := Athletes("USA", []domain.AthleteCount{{Athlete: "Phelps", Count: 28}, {Athlete: "Biles", Count: 7}})
	require.NotNil(t, cfg)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, "Phelps", cfg.Series[0].Data[0].Label)
	assert.Equal(t, 28.0, cfg.Series[0].Data[0].Value)
	assert.True(t, cfg.ShowGrid)
}

func TestYears(t *testing.T) {
	t.Run("no points", func(t *testing.T) {
		assert.Nil(t, Years(nil))
		assert.Nil(t, Years([]domain.CountrySeries{{Country: "Chad", Years: []domain.YearCount{}}}))
	})

	t.Run("one series per country in order", func(t *testing.T) {
		cfg := Years([]domain.CountrySeries{
			{Country: "Norway", Years: []domain.YearCount{{Year: 1994, Count: 2}, {Year: 1998, Count: 5}}},
			{Country: "Sweden", Years: []domain.YearCount{{Year: 1994, Count: 1}}},
		})

		require.NotNil(t, cfg)
		assert.Equal(t, TypeLine, cfg.ChartType)
		require.Len(t, cfg.Series, 2)
		assert.Equal(t, "Norway", cfg.Series[0].Name)
		assert.Equal(t, "Sweden", cfg.Series[1].Name)
		assert.Equal(t, ChartPoint{Label: "1998", Value: 5}, cfg.Series[0].Data[1])
		assert.NotEqual(t, cfg.Series[0].Color, cfg.Series[1].Color)
		assert.Len(t, cfg.Colors, 2)
		assert.True(t, cfg.ShowLegend)
	})
}

func TestTopCountries(t *testing.T) {
	assert.Nil(t, TopCountries(domain.CriterionGold, nil))

	cfg := TopCountries(domain.CriterionGold, []domain.CountryValue{
		{Country: "USA", Value: 10, Dominant: domain.MedalGold},
		{Country: "Kenya", Value: 0, Dominant: domain.MedalSilver},
	})
	require.NotNil(t, cfg)
	assert.Equal(t, "Top gold", cfg.Title)
	assert.Equal(t, ColorGold, cfg.Series[0].Data[0].Color)
	assert.Equal(t, ColorSilver, cfg.Series[0].Data[1].Color)
}

func TestGender(t *testing.T) {
	assert.Nil(t, Gender(domain.GenderCount{}))

	cfg := Gender(domain.GenderCount{Male: 3, Female: 2})
	require.NotNil(t, cfg)
	assert.Equal(t, TypePie, cfg.ChartType)
	assert.False(t, cfg.ShowGrid)
	assert.Equal(t, 3.0, cfg.Series[0].Data[0].Value)
	assert.Equal(t, 2.0, cfg.Series[0].Data[1].Value)
}

func TestMedalColor(t *testing.T) {
	assert.Equal(t, ColorBronze, MedalColor(domain.MedalBronze))
	assert.Equal(t, ColorNone, MedalColor(domain.MedalNone))
}

func TestChartConfig_JSON(t *testing.T) {
	data, err := json.Marshal(Gender(domain.GenderCount{Male: 1}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "pie", decoded["chartType"])
	assert.NotContains(t, decoded, "xAxis", "empty axes are omitted")
}
