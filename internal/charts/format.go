package charts

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ahrav/go-medals/internal/domain"
)

// NumberFormatter formats counts with the grouping rules of a locale,
// e.g. 1'234 for de-CH.
type NumberFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewNumberFormatter parses locale as a BCP 47 tag.
func NewNumberFormatter(locale string) (*NumberFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &NumberFormatter{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// Locale returns the formatter's language tag.
func (f *NumberFormatter) Locale() language.Tag { return f.tag }

// Int formats n with locale grouping.
func (f *NumberFormatter) Int(n int) string { return f.printer.Sprintf("%d", n) }

// Label is the tooltip of a country on the globe, "Norway: 1,234 medals".
func (f *NumberFormatter) Label(country string, tally domain.CountryTally) string {
	total := tally.Total()
	if total == 1 {
		return f.printer.Sprintf("%s: %d medal", country, total)
	}
	return f.printer.Sprintf("%s: %d medals", country, total)
}

// Tally formats the three slots, "Gold 3, Silver 0, Bronze 1,200".
func (f *NumberFormatter) Tally(tally domain.CountryTally) string {
	return f.printer.Sprintf("Gold %d, Silver %d, Bronze %d", tally.Gold, tally.Silver, tally.Bronze)
}
