package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ahrav/go-medals/internal/application"
	"github.com/ahrav/go-medals/internal/charts"
	"github.com/ahrav/go-medals/internal/domain"
)

// Output formats of the report command.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
	FormatText   = "text"
	FormatCSV    = "csv"
)

// report is a rendered query result. Data is what the json formats print;
// Header and Rows feed csv and Lines feed text.
type report struct {
	Title  string     `json:"title"`
	Data   any        `json:"data"`
	Header []string   `json:"-"`
	Rows   [][]string `json:"-"`
	Lines  []string   `json:"-"`
}

func runReport(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("report", flag.ContinueOnError)
	configPath := flags.String("config", "", "Path to the YAML config file")
	country := flags.String("country", "", "Report one country instead of the overview")
	top := flags.String("top", "", "Report the top countries by total, gold, silver or bronze")
	n := flags.Int("n", 0, "Length of the top list, 0 uses the config")
	format := flags.String("format", FormatText, "Output format: json, pretty, text, csv")
	outFile := flags.String("out", "", "Write output to file instead of stdout")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *country != "" && *top != "" {
		return fmt.Errorf("-country and -top are mutually exclusive")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	dash, err := newDashboard(cfg, logger, nil)
	if err != nil {
		return err
	}
	if _, err := dash.Load(context.Background()); err != nil {
		return err
	}

	var r report
	switch {
	case *country != "":
		name := dash.ResolveCountry(*country)
		r = countryReport(dash.Country(name), dash.Athletes(name), dash.Years(name), dash.Formatter())
	case *top != "":
		criterion, err := domain.ParseCriterion(*top)
		if err != nil {
			return err
		}
		r = topReport(criterion, dash.Top(criterion, *n), dash.Formatter())
	default:
		r = overviewReport(dash.Overview(), dash.Formatter())
	}

	w := stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := writeReport(w, *format, r); err != nil {
		return err
	}
	if *outFile != "" {
		logger.WithField("path", *outFile).Info("report written")
	}
	return nil
}

func overviewReport(ov application.Overview, f *charts.NumberFormatter) report {
	r := report{
		Title:  "Medal standings",
		Data:   ov,
		Header: []string{"Rank", "Country", "Gold", "Silver", "Bronze", "Total", "Weight"},
	}
	r.Lines = append(r.Lines, fmt.Sprintf("%s countries, %s medals", f.Int(ov.Countries), f.Int(ov.Medals)))
	for _, s := range ov.Standings {
		r.Rows = append(r.Rows, []string{
			strconv.Itoa(s.Rank), s.Country,
			strconv.Itoa(s.Tally.Gold), strconv.Itoa(s.Tally.Silver), strconv.Itoa(s.Tally.Bronze),
			strconv.Itoa(s.Total), strconv.Itoa(s.Weight),
		})
		r.Lines = append(r.Lines, fmt.Sprintf("%3d. %s (%s)", s.Rank, f.Label(s.Country, s.Tally), f.Tally(s.Tally)))
	}
	return r
}

func countryReport(
	detail application.CountryDetail,
	athletes []domain.AthleteCount,
	years []domain.YearCount,
	f *charts.NumberFormatter,
) report {
	r := report{
		Title: detail.Country,
		Data: struct {
			application.CountryDetail
			Athletes []domain.AthleteCount `json:"athletes"`
			Years    []domain.YearCount    `json:"years"`
		}{detail, athletes, years},
		Header: []string{"Kind", "Label", "Count"},
	}

	r.Lines = append(r.Lines, detail.Label)
	if !detail.InDataset {
		r.Lines = append(r.Lines, "Not in the dataset.")
		return r
	}
	r.Lines = append(r.Lines, fmt.Sprintf("Rank %d, %s", detail.Rank, detail.TallyLabel))
	r.Rows = append(r.Rows,
		[]string{"medal", domain.MedalGold.String(), strconv.Itoa(detail.Tally.Gold)},
		[]string{"medal", domain.MedalSilver.String(), strconv.Itoa(detail.Tally.Silver)},
		[]string{"medal", domain.MedalBronze.String(), strconv.Itoa(detail.Tally.Bronze)},
	)

	if len(athletes) > 0 {
		r.Lines = append(r.Lines, "", "Top athletes:")
	}
	for _, a := range athletes {
		r.Rows = append(r.Rows, []string{"athlete", a.Athlete, strconv.Itoa(a.Count)})
		r.Lines = append(r.Lines, fmt.Sprintf("  %s: %s", a.Athlete, f.Int(a.Count)))
	}

	if len(years) > 0 {
		r.Lines = append(r.Lines, "", "Medals by year:")
	}
	for _, y := range years {
		r.Rows = append(r.Rows, []string{"year", strconv.Itoa(y.Year), strconv.Itoa(y.Count)})
		r.Lines = append(r.Lines, fmt.Sprintf("  %d: %s", y.Year, f.Int(y.Count)))
	}
	return r
}

func topReport(criterion domain.Criterion, top []domain.CountryValue, f *charts.NumberFormatter) report {
	r := report{
		Title:  "Top " + string(criterion),
		Data:   top,
		Header: []string{"Position", "Country", string(criterion), "Dominant"},
	}
	for i, c := range top {
		r.Rows = append(r.Rows, []string{strconv.Itoa(i + 1), c.Country, strconv.Itoa(c.Value), c.Dominant.String()})
		r.Lines = append(r.Lines, fmt.Sprintf("%3d. %s %s", i+1, c.Country, f.Int(c.Value)))
	}
	return r
}

// writeReport renders r in format.
func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case FormatJSON:
		return json.NewEncoder(w).Encode(r)
	case FormatPretty:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatText:
		_, err := fmt.Fprintf(w, "%s\n%s\n", r.Title, strings.Join(r.Lines, "\n"))
		return err
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(r.Header); err != nil {
			return err
		}
		if err := cw.WriteAll(r.Rows); err != nil {
			return err
		}
		return cw.Error()
	default:
		return fmt.Errorf("unknown format %q: use json, pretty, text or csv", format)
	}
}
