package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ahrav/go-medals/internal/domain"
	"github.com/ahrav/go-medals/internal/testutils"
)

func main() {
	var (
		size       = flag.Int("size", 5000, "Number of medal rows to generate")
		seed       = flag.Int64("seed", 0, "Random seed; 0 uses the current time")
		outputPath = flag.String("output", "Data/data.json", "Output file path")
		format     = flag.String("format", "json", "Output format: json or csv")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	records := testutils.GenerateSampleDataset(*size, *seed)

	var err error
	switch *format {
	case "json":
		err = testutils.SaveDataset(records, *outputPath)
	case "csv":
		err = testutils.SaveDatasetCSV(records, *outputPath)
	default:
		log.Fatalf("Unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("Failed to save dataset: %v", err)
	}

	stats := testutils.ComputeDatasetStatistics(records)

	fmt.Printf("Generated sample medal dataset:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Seed: %d\n", *seed)
	fmt.Printf("- Rows: %d\n", stats.Records)
	fmt.Printf("- Gold/Silver/Bronze/None: %d/%d/%d/%d\n",
		stats.Medals[domain.MedalGold], stats.Medals[domain.MedalSilver],
		stats.Medals[domain.MedalBronze], stats.Medals[domain.MedalNone])
	fmt.Printf("- Countries: %d\n", stats.Countries)
	fmt.Printf("- Games: %d\n", stats.Years)
	fmt.Printf("\nThis dataset is synthetic and only suitable for development.\n")
}
