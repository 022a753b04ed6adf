// Package config defines dashboard configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config filled with defaults.
// - Load layers defaults, an optional YAML file and MEDALBOARD_* env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "github.com/okian/medalboard/internal/domain/view"

// Data source formats understood by the repository layer.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// Debug turns on development mode: debug logging in text format.
	Debug bool `koanf:"debug"`

	// DataPath points at the results table loaded at startup.
	DataPath string `koanf:"data_path"`

	// DataFormat is csv or sqlite. Empty means guess from the file extension.
	DataFormat string `koanf:"data_format"`

	// SQLiteTable names the table read when DataFormat is sqlite.
	SQLiteTable string `koanf:"sqlite_table"`

	// TopAthletes caps the number of bars in the best athletes chart.
	TopAthletes int `koanf:"top_athletes"`

	// CycleOffset extends the upper bound of the medal total window, in years.
	CycleOffset int `koanf:"cycle_offset"`

	// DefaultCountries preselects countries in the country menu.
	DefaultCountries []string `koanf:"default_countries"`

	// MarkStart and MarkStep place labels on the year slider.
	MarkStart int `koanf:"mark_start"`
	MarkStep  int `koanf:"mark_step"`

	// Title and Subtitle head the page.
	Title    string `koanf:"title"`
	Subtitle string `koanf:"subtitle"`

	// PNGWidth and PNGHeight size exported charts. Zero keeps the renderer default.
	PNGWidth  int `koanf:"png_width"`
	PNGHeight int `koanf:"png_height"`
}

// New creates a Config with defaults.
func New() *Config {
	page := view.DefaultSettings()
	return &Config{
		LogLevel:         "info",
		Addr:             ":8050",
		DataPath:         "pays_results.csv",
		SQLiteTable:      "results",
		TopAthletes:      10,
		CycleOffset:      4,
		DefaultCountries: page.DefaultCountries,
		MarkStart:        page.MarkStart,
		MarkStep:         page.MarkStep,
		Title:            page.Title,
		Subtitle:         page.Subtitle,
	}
}

// Page returns the page settings carried by c.
func (c *Config) Page() view.Settings {
	return view.Settings{
		Title:            c.Title,
		Subtitle:         c.Subtitle,
		MarkStart:        c.MarkStart,
		MarkStep:         c.MarkStep,
		DefaultCountries: c.DefaultCountries,
	}
}
