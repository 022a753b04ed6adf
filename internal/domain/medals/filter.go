package medals

// Filter returns the rows whose country is in countries, whose sex matches
// sex (SexAll matches every row) and whose year lies inside window.
//
// An empty country list, a reversed window or values that match nothing all
// yield an empty, non-nil slice.
func Filter(ds *Dataset, countries []string, sex Sex, window Window) []Record {
	out := []Record{}
	if ds == nil || len(countries) == 0 || window.Empty() {
		return out
	}
	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[c] = struct{}{}
	}
	ds.each(func(r Record) {
		if _, ok := allowed[r.Country]; !ok {
			return
		}
		if sex != SexAll && r.Sex != sex {
			return
		}
		if !window.Contains(r.Year) {
			return
		}
		out = append(out, r)
	})
	return out
}
