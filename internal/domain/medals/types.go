// Package medals holds the Olympic results table and the pure functions that
// filter and aggregate it for the dashboard.
package medals

import (
	"fmt"
	"math"
	"strings"
)

// Sex is the sex selector value. Records only carry Man or Woman; All is a
// selector-only value that disables the sex predicate.
type Sex string

const (
	SexAll   Sex = "All"
	SexMan   Sex = "Man"
	SexWoman Sex = "Woman"
)

// ParseSex accepts All, Man or Woman in any case. An empty string means All.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return SexAll, nil
	case "man":
		return SexMan, nil
	case "woman":
		return SexWoman, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSex, s)
	}
}

// Record is one (athlete, event, medal) row of the results table.
type Record struct {
	Country    string `json:"country_name"`
	Sex        Sex    `json:"sex"`
	Year       int    `json:"date"`
	MedalType  string `json:"medal_type"`
	AthleteURL string `json:"athlete_url"`
}

// Window is an inclusive year range.
type Window struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Empty reports whether no year can satisfy the window.
func (w Window) Empty() bool { return w.Min > w.Max }

// Contains reports whether year lies inside the window.
func (w Window) Contains(year int) bool { return year >= w.Min && year <= w.Max }

// Extend returns the window with its upper bound moved by n years. The bound
// saturates at the integer limits instead of wrapping.
func (w Window) Extend(n int) Window {
	switch {
	case n > 0 && w.Max > math.MaxInt-n:
		return Window{Min: w.Min, Max: math.MaxInt}
	case n < 0 && w.Max < math.MinInt-n:
		return Window{Min: w.Min, Max: math.MinInt}
	}
	return Window{Min: w.Min, Max: w.Max + n}
}

// YearCount is one point of the per-year series.
type YearCount struct {
	Year     int `json:"year"`
	Medals   int `json:"medals"`
	Athletes int `json:"athletes"`
}

// AthleteCount is one bar of the top athletes chart.
type AthleteCount struct {
	URL    string `json:"athlete_url"`
	Name   string `json:"name"`
	Medals int    `json:"medals"`
}
