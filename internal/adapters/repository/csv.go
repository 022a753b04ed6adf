package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/medalboard/internal/domain/medals"
)

// CSVSource reads the results table from a CSV file with a header row.
// Extra columns, such as a pandas index, are ignored.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSVSource for path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load reads and validates every row.
func (s *CSVSource) Load(ctx context.Context) (*medals.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(ctx, f)
}

// ReadCSV parses a results table from r.
func ReadCSV(ctx context.Context, r io.Reader) (*medals.Dataset, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []medals.Record
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rec, err := idx.record(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		records = append(records, rec)
	}
	return medals.NewDataset(records), nil
}

type columns struct {
	country, sex, date, medal, athlete int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(h), `"`))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	if _, ok := pos[ColSex]; !ok {
		if i, ok := pos[ColSexAlias]; ok {
			pos[ColSex] = i
		}
	}
	var missing []string
	get := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	c := columns{
		country: get(ColCountry),
		sex:     get(ColSex),
		date:    get(ColDate),
		medal:   get(ColMedalType),
		athlete: get(ColAthleteURL),
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return c, nil
}

func (c columns) record(row []string) (medals.Record, error) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	year, err := parseYear(field(c.date))
	if err != nil {
		return medals.Record{}, err
	}
	sex, err := parseRecordSex(field(c.sex))
	if err != nil {
		return medals.Record{}, err
	}
	return medals.Record{
		Country:    field(c.country),
		Sex:        sex,
		Year:       year,
		MedalType:  field(c.medal),
		AthleteURL: field(c.athlete),
	}, nil
}
