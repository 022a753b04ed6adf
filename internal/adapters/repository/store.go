// Package repository loads the Olympic results table from disk.
package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/medalboard/internal/domain/medals"
)

// Column names of the results table.
const (
	ColCountry    = "country_name"
	ColSex        = "sex"
	ColSexAlias   = "sexe"
	ColDate       = "date"
	ColMedalType  = "medal_type"
	ColAthleteURL = "athlete_url"
)

// Formats accepted by Open.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Source loads the full results table once.
type Source interface {
	Load(ctx context.Context) (*medals.Dataset, error)
}

// Open returns the Source for path. An empty format is guessed from the file
// extension: .db, .sqlite and .sqlite3 are SQLite, everything else is CSV.
func Open(path, format string, opts ...Option) (Source, error) {
	if format == "" {
		format = guessFormat(path)
	}
	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVSource(path), nil
	case FormatSQLite:
		return NewSQLiteSource(path, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func guessFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

// parseYear accepts "1896" as well as "1896.0", which pandas writes for
// float columns.
func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

// parseRecordSex maps a stored sex value; records never carry All.
func parseRecordSex(s string) (medals.Sex, error) {
	sex, err := medals.ParseSex(s)
	if err != nil {
		return "", err
	}
	if sex == medals.SexAll {
		return "", fmt.Errorf("invalid record sex %q", s)
	}
	return sex, nil
}
