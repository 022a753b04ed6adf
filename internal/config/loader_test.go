package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/medalboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8050")
				convey.So(cfg.TopAthletes, convey.ShouldEqual, 10)
				convey.So(cfg.CycleOffset, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MEDALBOARD_ADDR", ":8080")
			_ = os.Setenv("MEDALBOARD_DEBUG", "true")
			_ = os.Setenv("MEDALBOARD_DATA_PATH", "/data/results.db")
			_ = os.Setenv("MEDALBOARD_DATA_FORMAT", "sqlite")
			_ = os.Setenv("MEDALBOARD_TOP_ATHLETES", "5")
			_ = os.Setenv("MEDALBOARD_CYCLE_OFFSET", "0")
			_ = os.Setenv("MEDALBOARD_DEFAULT_COUNTRIES", "France, Italy")
			_ = os.Setenv("MEDALBOARD_PNG_WIDTH", "800")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Debug, convey.ShouldBeTrue)
				convey.So(cfg.DataPath, convey.ShouldEqual, "/data/results.db")
				convey.So(cfg.DataFormat, convey.ShouldEqual, config.FormatSQLite)
				convey.So(cfg.TopAthletes, convey.ShouldEqual, 5)
				convey.So(cfg.CycleOffset, convey.ShouldEqual, 0)
				convey.So(cfg.DefaultCountries, convey.ShouldResemble, []string{"France", "Italy"})
				convey.So(cfg.PNGWidth, convey.ShouldEqual, 800)
				convey.So(cfg.PNGHeight, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_path: "results.csv"
top_athletes: 20
default_countries: ["Japan", "Kenya"]
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MEDALBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataPath, convey.ShouldEqual, "results.csv")
				convey.So(cfg.TopAthletes, convey.ShouldEqual, 20)
				convey.So(cfg.DefaultCountries, convey.ShouldResemble, []string{"Japan", "Kenya"})
				convey.So(cfg.CycleOffset, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When an explicit path is passed", func() {
			tmpFile := createTempConfigFile(`addr: ":7070"`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then it should be used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\ntop_athletes: 20\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MEDALBOARD_CONFIG", tmpFile)
			_ = os.Setenv("MEDALBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TopAthletes, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MEDALBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("MEDALBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MEDALBOARD_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("MEDALBOARD_TOP_ATHLETES", "ten")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidate(t *testing.T) {
	convey.Convey("Given configs with invalid values", t, func() {
		cases := map[string]func(*config.Config){
			"data_path must not be empty":                   func(c *config.Config) { c.DataPath = " " },
			"top_athletes must be at least 1":               func(c *config.Config) { c.TopAthletes = 0 },
			"cycle_offset must not be negative":             func(c *config.Config) { c.CycleOffset = -4 },
			"mark_step must not be negative":                func(c *config.Config) { c.MarkStep = -1 },
			"png_width and png_height must not be negative": func(c *config.Config) { c.PNGHeight = -1 },
			"unknown data_format":                           func(c *config.Config) { c.DataFormat = "parquet" },
		}

		for want, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, want)
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"MEDALBOARD_CONFIG",
		"MEDALBOARD_ADDR",
		"MEDALBOARD_DEBUG",
		"MEDALBOARD_DATA_PATH",
		"MEDALBOARD_DATA_FORMAT",
		"MEDALBOARD_TOP_ATHLETES",
		"MEDALBOARD_CYCLE_OFFSET",
		"MEDALBOARD_DEFAULT_COUNTRIES",
		"MEDALBOARD_PNG_WIDTH",
		"MEDALBOARD_PNG_HEIGHT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "medalboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
