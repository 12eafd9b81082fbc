// Package config loads HarborGuide settings from an optional YAML file and
// HARBOR_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit path is given and the file exists.
const DefaultPath = "harborguide.yaml"

// Ask modes.
const (
	AskModeStub    = "stub"
	AskModeLLMOnly = "llm_only"
	AskModeCards   = "cards"
	AskModeKPIs    = "kpis"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Cards   CardsConfig   `yaml:"cards"`
	Ask     AskConfig     `yaml:"ask"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port          int    `yaml:"port"`
	AllowedOrigin string `yaml:"allowed_origin"`
}

type DataConfig struct {
	// WorkbookPath is loaded into the snapshot cache at startup.
	WorkbookPath  string `yaml:"workbook_path"`
	WatchWorkbook bool   `yaml:"watch_workbook"`
	DBPath        string `yaml:"db_path"`
}

type CardsConfig struct {
	MaxChars   int `yaml:"max_chars"`
	MaxColumns int `yaml:"max_columns"`
	SampleRows int `yaml:"sample_rows"`
}

type AskConfig struct {
	Mode string `yaml:"mode"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          5300,
			AllowedOrigin: "http://localhost:8501",
		},
		Data: DataConfig{
			WorkbookPath: "data/data.xlsx",
			DBPath:       "data/harborguide.db",
		},
		Cards: CardsConfig{
			MaxChars:   80000,
			MaxColumns: 8,
			SampleRows: 10,
		},
		Ask: AskConfig{Mode: AskModeCards},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (or DefaultPath when path is empty and present), applies
// environment overrides and validates the result. An explicit path that does
// not exist is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString := func(env string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
	setInt := func(env string, dst *int) error {
		v := strings.TrimSpace(os.Getenv(env))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", env, v)
		}
		*dst = n
		return nil
	}

	if err := setInt("HARBOR_PORT", &c.Server.Port); err != nil {
		return err
	}
	setString("HARBOR_ALLOWED_ORIGIN", &c.Server.AllowedOrigin)
	setString("HARBOR_DATA_XLSX_PATH", &c.Data.WorkbookPath)
	setString("HARBOR_DB", &c.Data.DBPath)
	if v := strings.TrimSpace(os.Getenv("HARBOR_WATCH_WORKBOOK")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HARBOR_WATCH_WORKBOOK: %q is not a boolean", v)
		}
		c.Data.WatchWorkbook = b
	}
	for env, dst := range map[string]*int{
		"HARBOR_CARD_MAX_CHARS":   &c.Cards.MaxChars,
		"HARBOR_CARD_MAX_COLUMNS": &c.Cards.MaxColumns,
		"HARBOR_CARD_SAMPLE_ROWS": &c.Cards.SampleRows,
	} {
		if err := setInt(env, dst); err != nil {
			return err
		}
	}
	setString("HARBOR_ASK_MODE", &c.Ask.Mode)
	setString("HARBOR_LOG_LEVEL", &c.Logging.Level)
	setString("HARBOR_LOG_FORMAT", &c.Logging.Format)

	c.Ask.Mode = strings.ToLower(c.Ask.Mode)
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Cards.MaxChars <= 0 {
		errs = append(errs, fmt.Errorf("cards.max_chars must be positive, got %d", c.Cards.MaxChars))
	}
	if c.Cards.MaxColumns <= 0 {
		errs = append(errs, fmt.Errorf("cards.max_columns must be positive, got %d", c.Cards.MaxColumns))
	}
	if c.Cards.SampleRows <= 0 {
		errs = append(errs, fmt.Errorf("cards.sample_rows must be positive, got %d", c.Cards.SampleRows))
	}
	switch c.Ask.Mode {
	case AskModeStub, AskModeLLMOnly, AskModeCards, AskModeKPIs:
	default:
		errs = append(errs, fmt.Errorf("ask.mode must be one of stub, llm_only, cards, kpis; got %q", c.Ask.Mode))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	if c.Data.DBPath == "" {
		errs = append(errs, errors.New("data.db_path is required"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
