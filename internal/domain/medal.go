// Package domain contains pure, dependency-free domain models and the medal
// aggregation core used by every outer layer of the dashboard.
package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Medal is the medal awarded for a single result row.
// The zero value is MedalNone, so a row with a missing or unrecognised medal
// contributes to no tally slot.
type Medal uint8

// Medal values in the order used by tallies and charts.
const (
	MedalNone Medal = iota
	MedalGold
	MedalSilver
	MedalBronze
)

// ParseMedal converts a dataset medal label into a Medal.
// Matching is case-insensitive and ignores surrounding whitespace.
// Anything that is not gold, silver or bronze (including "NA") is MedalNone.
func ParseMedal(s string) Medal {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gold":
		return MedalGold
	case "silver":
		return MedalSilver
	case "bronze":
		return MedalBronze
	default:
		return MedalNone
	}
}

// String returns the dataset label of the medal.
func (m Medal) String() string {
	switch m {
	case MedalGold:
		return "Gold"
	case MedalSilver:
		return "Silver"
	case MedalBronze:
		return "Bronze"
	default:
		return "None"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Medal) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (m *Medal) UnmarshalText(text []byte) error {
	*m = ParseMedal(string(text))
	return nil
}

// Sex of the athlete behind a record.
type Sex uint8

// Sex values. SexUnknown counts toward neither gender.
const (
	SexUnknown Sex = iota
	SexMale
	SexFemale
)

// ParseSex converts the dataset's "M"/"F" codes into a Sex.
func ParseSex(s string) Sex {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return SexMale
	case "F":
		return SexFemale
	default:
		return SexUnknown
	}
}

// String returns the dataset code of the sex, or an empty string when unknown.
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "M"
	case SexFemale:
		return "F"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Sex) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (s *Sex) UnmarshalText(text []byte) error {
	*s = ParseSex(string(text))
	return nil
}

// MedalRecord is one row of the medal dataset: one medal instance won by one
// athlete for one country in one year. Records are never mutated once loaded.
type MedalRecord struct {
	Country string `json:"Country"`
	Medal   Medal  `json:"Medal"`
	Athlete string `json:"Name"`
	Year    int    `json:"Year"`
	Sex     Sex    `json:"Sex"`
}

// HasMedal reports whether the record contributes to a tally slot.
func (r MedalRecord) HasMedal() bool { return r.Medal != MedalNone }

// UnmarshalJSON decodes a dataset row leniently. Fields with an unexpected
// JSON type fall back to their zero value instead of failing the whole
// dataset: a numeric medal becomes MedalNone and a year given as a string is
// parsed when possible.
func (r *MedalRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = MedalRecord{
		Country: rawString(raw["Country"]),
		Medal:   ParseMedal(rawString(raw["Medal"])),
		Athlete: rawString(raw["Name"]),
		Year:    rawInt(raw["Year"]),
		Sex:     ParseSex(rawString(raw["Sex"])),
	}
	return nil
}

func rawString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func rawInt(msg json.RawMessage) int {
	if len(msg) == 0 {
		return 0
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	}
	return ParseYear(rawString(msg))
}

// ParseYear parses a year column value, returning 0 when it is malformed.
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
