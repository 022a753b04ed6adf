package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/okian/medalboard/internal/domain/medals"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads the results table from a SQLite database, opened read-only.
type SQLiteSource struct {
	path string
	opts options
}

// NewSQLiteSource creates a SQLiteSource for the database at path.
func NewSQLiteSource(path string, opts ...Option) *SQLiteSource {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SQLiteSource{path: path, opts: o}
}

// Load reads every row of the configured table.
func (s *SQLiteSource) Load(ctx context.Context) (*medals.Dataset, error) {
	if !tableName.MatchString(s.opts.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.opts.table)
	}
	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return readTable(ctx, db, s.opts.table)
}

func readTable(ctx context.Context, db *sql.DB, table string) (*medals.Dataset, error) {
	cols, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	sexCol := ColSex
	if _, ok := cols[ColSex]; !ok {
		sexCol = ColSexAlias
	}
	var missing []string
	for _, c := range []string{ColCountry, sexCol, ColDate, ColMedalType, ColAthleteURL} {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumn, missing)
	}

	// Identifiers are validated above; they cannot be bound as parameters.
	query := fmt.Sprintf("SELECT %s, %s, %s, %s, %s FROM %s",
		ColCountry, sexCol, ColDate, ColMedalType, ColAthleteURL, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = rows.Close() }()

	var records []medals.Record
	n := 0
	for rows.Next() {
		n++
		var country, sex, year, medal, athlete sql.NullString
		if err := rows.Scan(&country, &sex, &year, &medal, &athlete); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedRow, n, err)
		}
		y, err := parseYear(year.String)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedRow, n, err)
		}
		sx, err := parseRecordSex(sex.String)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformedRow, n, err)
		}
		records = append(records, medals.Record{
			Country:    country.String,
			Sex:        sx,
			Year:       y,
			MedalType:  medal.String,
			AthleteURL: athlete.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	return medals.NewDataset(records), nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]struct{})
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
		cols[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: table %q not found", ErrMissingColumn, table)
	}
	return cols, nil
}
