// Package lookup resolves user supplied country names onto the countries of
// the loaded dataset.
package lookup

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-medals/internal/ports"
)

var (
	_ ports.CountryResolver = (*FuzzyResolver)(nil)

	// foldCaser is a package-level Unicode case folder shared by all
	// resolvers.
	foldCaser = cases.Fold()
)

// MaxNameLength bounds the names the resolver compares. Longer input never
// matches.
const MaxNameLength = 256

// ErrInvalidThreshold is returned for thresholds outside [0, 1].
var ErrInvalidThreshold = errors.New("threshold must be between 0 and 1")

// FuzzyResolver matches a misspelled country name against candidates using
// the Levenshtein distance of the case folded names. It is stateless and
// safe for concurrent use.
type FuzzyResolver struct {
	threshold float64
}

// NewFuzzyResolver creates a resolver accepting candidates whose similarity
// is at least threshold. A zero threshold accepts the closest candidate
// whatever its distance.
func NewFuzzyResolver(threshold float64) (*FuzzyResolver, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return &FuzzyResolver{threshold: threshold}, nil
}

// Threshold returns the minimum accepted similarity.
func (r *FuzzyResolver) Threshold() float64 { return r.threshold }

// Resolve returns the candidate most similar to name. Ties keep the earliest
// candidate, so callers pass candidates in a stable order. It reports false
// when name is empty, too long, or no candidate reaches the threshold.
func (r *FuzzyResolver) Resolve(name string, candidates []string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		return "", false
	}
	prepared := foldCaser.String(name)

	best, bestScore := "", -1.0
	for _, c := range candidates {
		if len(c) > MaxNameLength {
			continue
		}
		score := Similarity(prepared, foldCaser.String(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < 0 || bestScore < r.threshold {
		return "", false
	}
	return best, true
}

// Similarity returns 1 - distance/maxLen for two strings, where distance is
// the rune-level Levenshtein distance. Identical strings score 1.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	similarity := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	return max(similarity, 0)
}
