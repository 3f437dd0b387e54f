package httpapi

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	errUnknownCountry = errors.New("unknown country")
	errBadQuery       = errors.New("bad query")
)

// topQuery is the query of /api/top.
type topQuery struct {
	By string `validate:"omitempty,criterion"`
	N  int    `validate:"min=0,max=50"`
}

// viewQuery is the query of /api/view.
type viewQuery struct {
	Selected string   `validate:"max=256"`
	Compare  []string `validate:"max=5,dive,max=256"`
	By       string   `validate:"omitempty,criterion"`
	Dark     *bool
}

// compareQuery is the query of /api/compare.
type compareQuery struct {
	Countries []string `validate:"required,min=1,max=6,dive,required,max=256"`
}

func parseTopQuery(q url.Values) (topQuery, error) {
	n, err := intParam(q, "n")
	if err != nil {
		return topQuery{}, err
	}
	return topQuery{By: q.Get("by"), N: n}, nil
}

func parseViewQuery(q url.Values) (viewQuery, error) {
	dark, err := boolParam(q, "dark")
	if err != nil {
		return viewQuery{}, err
	}
	return viewQuery{
		Selected: strings.TrimSpace(q.Get("selected")),
		Compare:  q["compare"],
		By:       q.Get("by"),
		Dark:     dark,
	}, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadQuery, name)
	}
	return n, nil
}

func boolParam(q url.Values, name string) (*bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", errBadQuery, name)
	}
	return &b, nil
}
