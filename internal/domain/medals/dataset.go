package medals

import "sort"

// Dataset is the immutable results table. It is built once at startup and
// shared by reference; nothing mutates it afterwards.
type Dataset struct {
	records   []Record
	countries []string
	years     []int
	span      Window
}

// NewDataset copies records into a new Dataset and indexes countries and years.
func NewDataset(records []Record) *Dataset {
	d := &Dataset{records: make([]Record, len(records))}
	copy(d.records, records)

	countries := make(map[string]struct{})
	years := make(map[int]struct{})
	for i, r := range d.records {
		countries[r.Country] = struct{}{}
		years[r.Year] = struct{}{}
		if i == 0 || r.Year < d.span.Min {
			d.span.Min = r.Year
		}
		if i == 0 || r.Year > d.span.Max {
			d.span.Max = r.Year
		}
	}
	d.countries = make([]string, 0, len(countries))
	for c := range countries {
		d.countries = append(d.countries, c)
	}
	sort.Strings(d.countries)
	d.years = make([]int, 0, len(years))
	for y := range years {
		d.years = append(d.years, y)
	}
	sort.Ints(d.years)
	if len(d.records) == 0 {
		// An empty table has no year that can match.
		d.span = Window{Min: 0, Max: -1}
	}
	return d
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.records) }

// Countries returns the sorted distinct country names.
func (d *Dataset) Countries() []string {
	out := make([]string, len(d.countries))
	copy(out, d.countries)
	return out
}

// Years returns the sorted distinct years.
func (d *Dataset) Years() []int {
	out := make([]int, len(d.years))
	copy(out, d.years)
	return out
}

// YearSpan returns the window covering every year in the table.
func (d *Dataset) YearSpan() Window { return d.span }

// each calls fn for every row without copying the table.
func (d *Dataset) each(fn func(Record)) {
	for _, r := range d.records {
		fn(r)
	}
}
