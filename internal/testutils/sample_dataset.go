// Package testutils provides utilities for testing, including mock objects and
// test data generators. These components are intended for internal use within
// the project's test suites and are not part of the public API.
package testutils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ahrav/go-medals/internal/domain"
)

// SampleCountries are the countries used by GenerateSampleDataset. Weights
// skew the draw so the sample has a realistic long tail.
var SampleCountries = []struct {
	Name   string
	Weight int
}{
	{"United States", 30}, {"Germany", 18}, {"Soviet Union", 16}, {"Great Britain", 14},
	{"France", 12}, {"Italy", 10}, {"Sweden", 9}, {"Norway", 8}, {"Switzerland", 7},
	{"Japan", 7}, {"Australia", 6}, {"Kenya", 3}, {"Jamaica", 3}, {"Chad", 1}, {"Tuvalu", 1},
}

var (
	firstNames = []string{"Anna", "Lars", "Maria", "Paul", "Yuki", "Eliud", "Simone", "Roger", "Ingrid", "Usain"}
	lastNames  = []string{"Berg", "Keller", "Rossi", "Smith", "Tanaka", "Kipchoge", "Meier", "Dupont", "Bolt", "Larsen"}
)

// GenerateSampleDataset creates a synthetic medal dataset for tests and
// local development. The seed parameter controls randomization; use a fixed
// value for reproducible tests. Roughly a third of the rows carry no medal.
func GenerateSampleDataset(size int, seed int64) []domain.MedalRecord {
	rng := rand.New(rand.NewSource(seed))

	totalWeight := 0
	for _, c := range SampleCountries {
		totalWeight += c.Weight
	}

	records := make([]domain.MedalRecord, 0, size)
	for range size {
		records = append(records, domain.MedalRecord{
			Country: pickCountry(rng, totalWeight),
			Medal:   pickMedal(rng),
			Athlete: firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			Year:    1896 + 4*rng.Intn(32),
			Sex:     domain.Sex(1 + rng.Intn(2)),
		})
	}
	return records
}

// GenerateSampleDatasetDefault creates a dataset with a time-based seed.
func GenerateSampleDatasetDefault(size int) []domain.MedalRecord {
	return GenerateSampleDataset(size, time.Now().UnixNano())
}

func pickCountry(rng *rand.Rand, totalWeight int) string {
	n := rng.Intn(totalWeight)
	for _, c := range SampleCountries {
		if n < c.Weight {
			return c.Name
		}
		n -= c.Weight
	}
	return SampleCountries[len(SampleCountries)-1].Name
}

func pickMedal(rng *rand.Rand) domain.Medal {
	if rng.Intn(3) == 0 {
		return domain.MedalNone
	}
	return domain.Medal(1 + rng.Intn(3))
}

// FixtureRecords returns a small hand-written dataset whose tallies are
// known:
//
//	Norway      2 gold, 1 silver          total 3, rank 1
//	Sweden      1 gold, 1 silver, 1 bronze total 3, rank 1
//	Finland     1 bronze                  total 1, rank 3
//	Chad        no medal                  total 0, rank 4
func FixtureRecords() []domain.MedalRecord {
	return []domain.MedalRecord{
		{Country: "Norway", Medal: domain.MedalGold, Athlete: "Marit Bjorgen", Year: 2010, Sex: domain.SexFemale},
		{Country: "Norway", Medal: domain.MedalGold, Athlete: "Marit Bjorgen", Year: 2014, Sex: domain.SexFemale},
		{Country: "Norway", Medal: domain.MedalSilver, Athlete: "Ole Einar Bjorndalen", Year: 2010, Sex: domain.SexMale},
		{Country: "Sweden", Medal: domain.MedalGold, Athlete: "Charlotte Kalla", Year: 2014, Sex: domain.SexFemale},
		{Country: "Sweden", Medal: domain.MedalSilver, Athlete: "Marcus Hellner", Year: 2010, Sex: domain.SexMale},
		{Country: "Sweden", Medal: domain.MedalBronze, Athlete: "Charlotte Kalla", Year: 2018, Sex: domain.SexFemale},
		{Country: "Finland", Medal: domain.MedalBronze, Athlete: "Iivo Niskanen", Year: 2018, Sex: domain.SexMale},
		{Country: "Chad", Medal: domain.MedalNone, Athlete: "Bibiro Ali Taher", Year: 2016, Sex: domain.SexMale},
	}
}

// DatasetStatistics summarizes a generated dataset.
type DatasetStatistics struct {
	Records   int
	Medals    map[domain.Medal]int
	Countries int
	Years     int
}

// ComputeDatasetStatistics counts rows per medal, countries and years.
func ComputeDatasetStatistics(records []domain.MedalRecord) DatasetStatistics {
	stats := DatasetStatistics{Records: len(records), Medals: make(map[domain.Medal]int)}
	countries := make(map[string]struct{})
	years := make(map[int]struct{})
	for _, r := range records {
		stats.Medals[r.Medal]++
		countries[r.Country] = struct{}{}
		years[r.Year] = struct{}{}
	}
	stats.Countries = len(countries)
	stats.Years = len(years)
	return stats
}

// SaveDataset writes records as a JSON array.
func SaveDataset(records []domain.MedalRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	return nil
}

// SaveDatasetCSV writes records as CSV with a Name,Sex,Year,Medal,Country
// header.
func SaveDatasetCSV(records []domain.MedalRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Name", "Sex", "Year", "Medal", "Country"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Athlete, r.Sex.String(), strconv.Itoa(r.Year), r.Medal.String(), r.Country}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset file: %w", err)
	}
	return f.Close()
}
