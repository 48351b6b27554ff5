package config

import (
	"os"
	"strconv"

	"github.com/MGmoket/stock-assistant/internal/backtest"
	"github.com/MGmoket/stock-assistant/internal/indicator"
	"github.com/MGmoket/stock-assistant/internal/pattern"
	"github.com/MGmoket/stock-assistant/internal/planner"
	"github.com/MGmoket/stock-assistant/internal/screener"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvCapital   = "ADVISOR_CAPITAL"
	EnvRiskPct   = "ADVISOR_RISK_PCT"
	EnvSentiment = "ADVISOR_SENTIMENT"
)

// Config is the whole advisor.yaml file.
type Config struct {
	// Capital is the account size used for position sizing.
	Capital float64 `yaml:"capital" json:"capital" validate:"gt=0"`
	// RiskPct is the fraction of capital risked per trade.
	RiskPct float64 `yaml:"risk_pct" json:"risk_pct" validate:"gt=0,lt=1"`
	// Sentiment is today's market-sentiment score; absent keeps the
	// sentiment gate closed.
	Sentiment *float64 `yaml:"sentiment,omitempty" json:"sentiment,omitempty" validate:"omitempty,gte=0,lte=100"`

	DataDir      string `yaml:"data_dir" json:"data_dir" validate:"required"`
	ResultsDir   string `yaml:"results_dir" json:"results_dir" validate:"required"`
	HoldingsFile string `yaml:"holdings_file,omitempty" json:"holdings_file,omitempty"`
	// PresetsFile replaces the built-in preset catalog when set.
	PresetsFile string `yaml:"presets_file,omitempty" json:"presets_file,omitempty"`
	// Concurrency bounds the batch runner.
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"gt=0"`

	Screen     screener.Options      `yaml:"screen" json:"screen"`
	Indicators indicator.Params      `yaml:"indicators" json:"indicators"`
	Score      indicator.ScoreConfig `yaml:"score" json:"score"`
	Patterns   pattern.Thresholds    `yaml:"patterns" json:"patterns"`
	Planner    planner.Config        `yaml:"planner" json:"planner"`
	Backtest   backtest.Config       `yaml:"backtest" json:"backtest"`
}

// Default returns a complete configuration for a 30000 account risking 2%
// per trade.
func Default() Config {
	return Config{
		Capital:     30000,
		RiskPct:     0.02,
		DataDir:     "data",
		ResultsDir:  "results",
		Concurrency: 4,
		Screen:      screener.Options{MainBoardOnly: true, ExcludeST: true, Limit: 20},
		Indicators:  indicator.DefaultParams(),
		Score:       indicator.DefaultScoreConfig(),
		Patterns:    pattern.DefaultThresholds(),
		Planner:     planner.DefaultConfig(),
		Backtest:    backtest.DefaultConfig(),
	}
}

// Load reads path over the defaults, then applies environment overrides
// and validates. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		key string
		set func(float64)
	}{
		{EnvCapital, func(v float64) { c.Capital = v }},
		{EnvRiskPct, func(v float64) { c.RiskPct = v }},
		{EnvSentiment, func(v float64) { c.Sentiment = &v }},
	}

	for _, o := range overrides {
		raw := os.Getenv(o.key)
		if raw == "" {
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", o.key)
		}

		o.set(v)
	}

	return nil
}

// Validate checks the top-level fields and every embedded table.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid advisor config", err)
	}

	checks := []func() error{
		c.Indicators.Validate,
		c.Score.Validate,
		c.Patterns.Validate,
		c.Planner.Validate,
		c.Backtest.Validate,
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}

	return nil
}

// SentimentScore returns the configured sentiment as an option.
func (c Config) SentimentScore() optional.Option[float64] {
	if c.Sentiment == nil {
		return optional.None[float64]()
	}

	return optional.Some(*c.Sentiment)
}

// ScreenOptions returns the screen options with the sentiment filled in.
func (c Config) ScreenOptions() screener.Options {
	opts := c.Screen
	opts.Sentiment = c.SentimentScore()

	return opts
}

// Catalog returns the preset catalog in effect.
func (c Config) Catalog() (*screener.Catalog, error) {
	if c.PresetsFile == "" {
		return screener.DefaultCatalog(), nil
	}

	return screener.LoadCatalogFile(c.PresetsFile)
}
