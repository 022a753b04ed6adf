package medals

import (
	"sort"
	"strings"
)

// YearlyCounts groups rows by year. Medals counts rows with a medal type and
// Athletes counts rows with an athlete URL. The result is ordered by year.
func YearlyCounts(rows []Record) []YearCount {
	byYear := make(map[int]*YearCount)
	for _, r := range rows {
		c, ok := byYear[r.Year]
		if !ok {
			c = &YearCount{Year: r.Year}
			byYear[r.Year] = c
		}
		if r.MedalType != "" {
			c.Medals++
		}
		if r.AthleteURL != "" {
			c.Athletes++
		}
	}
	out := make([]YearCount, 0, len(byYear))
	for _, c := range byYear {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TotalMedals sums the per-year medal counts for years inside
// [window.Min, window.Max+cycleOffset]. The offset lets the readout include
// the Games that follow the selected upper bound.
func TotalMedals(rows []Record, window Window, cycleOffset int) int {
	w := window.Extend(cycleOffset)
	if w.Empty() {
		return 0
	}
	total := 0
	for _, c := range YearlyCounts(rows) {
		if w.Contains(c.Year) {
			total += c.Medals
		}
	}
	return total
}

// TopAthletes counts medals per athlete URL and returns at most n athletes,
// highest count first. Equal counts are ordered by URL so the result does not
// depend on input order. Rows without an athlete URL are ignored.
func TopAthletes(rows []Record, n int) []AthleteCount {
	if n <= 0 {
		return []AthleteCount{}
	}
	counts := make(map[string]int)
	for _, r := range rows {
		if r.AthleteURL == "" {
			continue
		}
		if _, ok := counts[r.AthleteURL]; !ok {
			counts[r.AthleteURL] = 0
		}
		if r.MedalType != "" {
			counts[r.AthleteURL]++
		}
	}
	out := make([]AthleteCount, 0, len(counts))
	for url, c := range counts {
		out = append(out, AthleteCount{URL: url, Name: DisplayName(url), Medals: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Medals != out[j].Medals {
			return out[i].Medals > out[j].Medals
		}
		return out[i].URL < out[j].URL
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// DisplayName turns an athlete URL into a short label: the last path segment,
// then its last hyphen-separated token.
//
//	https://olympics.com/en/athletes/paavo-nurmi -> nurmi
func DisplayName(url string) string {
	seg := url
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.LastIndex(seg, "-"); i >= 0 {
		seg = seg[i+1:]
	}
	return seg
}
