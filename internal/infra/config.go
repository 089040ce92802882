package infra

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Money is a decimal that yaml can decode from a plain scalar
// (yaml.v3 does not consult encoding.TextUnmarshaler).
type Money struct {
	decimal.Decimal
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("bad decimal %q: %w", value.Value, err)
	}
	m.Decimal = d
	return nil
}

func money(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// TrancheConfig seeds one instrument class.
type TrancheConfig struct {
	Name          string `yaml:"name"`
	Percentage    int    `yaml:"percentage"`
	Volume        Money  `yaml:"volume"`
	YieldRate     Money  `yaml:"yield_rate"`
	Reserve       Money  `yaml:"reserve"`
	CashFlowTotal Money  `yaml:"cash_flow_total"`
	TotalUnits    int64  `yaml:"total_units"`
}

// Config holds the full application configuration. Loaded from YAML,
// then overridden by environment variables where supported.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Trading struct {
		InitialCash     Money `yaml:"initial_cash"`
		TickIntervalSec int   `yaml:"tick_interval_sec"`
	} `yaml:"trading"`

	Tranches []TrancheConfig `yaml:"tranches"`

	Audit struct {
		DSN string `yaml:"dsn"`
	} `yaml:"audit"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the built-in tranche universe and session
// parameters, used when no config file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "tranche-go"
	cfg.App.Version = "1.0.0"
	cfg.Trading.InitialCash = money(decimal.NewFromInt(10_000_000))
	cfg.Trading.TickIntervalSec = 5
	cfg.Audit.DSN = ":memory:"
	cfg.Logging.Level = "info"
	cfg.Tranches = []TrancheConfig{
		{
			Name:          "Senior",
			Percentage:    60,
			Volume:        money(decimal.NewFromInt(2_100_000_000)),
			YieldRate:     money(decimal.RequireFromString("0.4")),
			Reserve:       money(decimal.NewFromInt(14_000_000).Mul(decimal.NewFromInt(12))),
			CashFlowTotal: money(decimal.RequireFromString("8314166.67").Mul(decimal.NewFromInt(12))),
			TotalUnits:    2_100_000,
		},
		{
			Name:          "Mezzanine",
			Percentage:    30,
			Volume:        money(decimal.NewFromInt(1_050_000_000)),
			YieldRate:     money(decimal.RequireFromString("0.7")),
			Reserve:       money(decimal.NewFromInt(7_000_000).Mul(decimal.NewFromInt(12))),
			CashFlowTotal: money(decimal.RequireFromString("7331666.67").Mul(decimal.NewFromInt(12))),
			TotalUnits:    1_050_000,
		},
		{
			Name:          "Equity",
			Percentage:    10,
			Volume:        money(decimal.NewFromInt(350_000_000)),
			YieldRate:     money(decimal.RequireFromString("1.7")),
			Reserve:       money(decimal.NewFromInt(2_333_333)),
			CashFlowTotal: money(decimal.RequireFromString("5979167.37")),
			TotalUnits:    350_000,
		},
	}
	return cfg
}

// LoadConfig reads and parses the configuration file. A missing file is
// not an error: the built-in defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		overrideWithEnv(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if !c.Trading.InitialCash.IsPositive() {
		return fmt.Errorf("initial cash must be positive")
	}
	if c.Trading.TickIntervalSec <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}

	if len(c.Tranches) != 3 {
		return fmt.Errorf("exactly three tranches are required, got %d", len(c.Tranches))
	}
	seen := make(map[string]bool, len(c.Tranches))
	for _, t := range c.Tranches {
		if t.Name == "" {
			return fmt.Errorf("tranche name must not be empty")
		}
		if seen[t.Name] {
			return fmt.Errorf("duplicate tranche name: %s", t.Name)
		}
		seen[t.Name] = true
		if !t.Volume.IsPositive() {
			return fmt.Errorf("tranche %s: volume must be positive", t.Name)
		}
		if !t.YieldRate.IsPositive() {
			return fmt.Errorf("tranche %s: yield rate must be positive", t.Name)
		}
		if t.TotalUnits <= 0 {
			return fmt.Errorf("tranche %s: total units must be positive", t.Name)
		}
	}
	return nil
}

// overrideWithEnv applies environment variable overrides when present.
func overrideWithEnv(cfg *Config) {
	if level := os.Getenv("TRANCHE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if interval := os.Getenv("TRANCHE_TICK_INTERVAL_SEC"); interval != "" {
		if n, err := strconv.Atoi(interval); err == nil && n > 0 {
			cfg.Trading.TickIntervalSec = n
		}
	}
	if dsn := os.Getenv("TRANCHE_AUDIT_DSN"); dsn != "" {
		cfg.Audit.DSN = dsn
	}
}
