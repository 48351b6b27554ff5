package backtest

import (
	"os"

	"github.com/MGmoket/stock-assistant/internal/version"
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/MGmoket/stock-assistant/pkg/utils"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RuleName selects the entry/exit rule.
type RuleName string

const (
	// RuleMACross enters when the fast MA crosses above the slow MA and
	// exits on the opposite cross.
	RuleMACross RuleName = "ma_cross"
	// RuleMACDCross enters when the MACD histogram turns positive and exits
	// when it turns negative.
	RuleMACDCross RuleName = "macd_cross"
)

// ExecutionTiming fixes the price at which signals are filled.
type ExecutionTiming string

const (
	// ExecutionSignalClose fills at the close of the signal bar.
	ExecutionSignalClose ExecutionTiming = "signal_close"
	// ExecutionNextOpen fills at the open of the bar after the signal.
	ExecutionNextOpen ExecutionTiming = "next_open"
)

// StopKind selects how the initial stop is placed.
type StopKind string

const (
	StopPercent StopKind = "percent"
	StopATR     StopKind = "atr"
)

// SizingKind selects how many shares each trade buys.
type SizingKind string

const (
	// SizingFixedFraction invests Fraction of the running equity, so gains
	// and losses compound.
	SizingFixedFraction SizingKind = "fixed_fraction"
	// SizingFixedCapital invests Fraction of the initial capital every
	// trade.
	SizingFixedCapital SizingKind = "fixed_capital"
)

type StopPolicy struct {
	Kind StopKind `yaml:"kind" json:"kind" validate:"required,oneof=percent atr" jsonschema:"enum=percent,enum=atr,default=percent"`
	// Percent is the stop distance below entry for the percent policy.
	Percent float64 `yaml:"percent" json:"percent" validate:"gt=0,lt=1" jsonschema:"description=Stop distance below entry as a fraction,default=0.05"`
	// ATRMultiple scales the ATR for the atr policy.
	ATRMultiple float64 `yaml:"atr_multiple" json:"atr_multiple" validate:"gt=0" jsonschema:"description=ATR multiple below entry,default=2"`
	ATRPeriod   int     `yaml:"atr_period" json:"atr_period" validate:"gt=0" jsonschema:"default=14"`
}

type Sizing struct {
	Kind SizingKind `yaml:"kind" json:"kind" validate:"required,oneof=fixed_fraction fixed_capital" jsonschema:"enum=fixed_fraction,enum=fixed_capital,default=fixed_fraction"`
	// Fraction of equity or capital committed per trade.
	Fraction float64 `yaml:"fraction" json:"fraction" validate:"gt=0,lte=1" jsonschema:"description=Fraction of equity committed per trade,default=0.8"`
	LotSize  int64   `yaml:"lot_size" json:"lot_size" validate:"gt=0" jsonschema:"default=100"`
}

// Config is the complete, explicit parameter set of a backtest run.
type Config struct {
	// Version is the engine version the config was written for.
	Version    string          `yaml:"version" json:"version" validate:"required" jsonschema:"required,description=Engine version the config targets"`
	Rule       RuleName        `yaml:"rule" json:"rule" validate:"required,oneof=ma_cross macd_cross" jsonschema:"required,enum=ma_cross,enum=macd_cross"`
	Fast       int             `yaml:"fast" json:"fast" validate:"gt=0,ltfield=Slow" jsonschema:"description=Fast MA period,default=5"`
	Slow       int             `yaml:"slow" json:"slow" validate:"gt=0" jsonschema:"description=Slow MA period,default=20"`
	MACDFast   int             `yaml:"macd_fast" json:"macd_fast" validate:"gt=0,ltfield=MACDSlow" jsonschema:"default=12"`
	MACDSlow   int             `yaml:"macd_slow" json:"macd_slow" validate:"gt=0" jsonschema:"default=26"`
	MACDSignal int             `yaml:"macd_signal" json:"macd_signal" validate:"gt=0" jsonschema:"default=9"`
	Execution  ExecutionTiming `yaml:"execution" json:"execution" validate:"required,oneof=signal_close next_open" jsonschema:"enum=signal_close,enum=next_open,default=signal_close"`
	Stop       StopPolicy      `yaml:"stop" json:"stop"`
	Sizing     Sizing          `yaml:"sizing" json:"sizing"`
	// InitialCapital is the starting equity.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0" jsonschema:"default=30000"`
}

// DefaultConfig returns the ma_cross 5/20 replay with a 5% stop, fills at
// the signal close and 80% of running equity per trade.
func DefaultConfig() Config {
	return Config{
		Version:    version.GetVersion(),
		Rule:       RuleMACross,
		Fast:       5,
		Slow:       20,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		Execution:  ExecutionSignalClose,
		Stop: StopPolicy{
			Kind:        StopPercent,
			Percent:     0.05,
			ATRMultiple: 2,
			ATRPeriod:   14,
		},
		Sizing: Sizing{
			Kind:     SizingFixedFraction,
			Fraction: 0.8,
			LotSize:  100,
		},
		InitialCapital: 30000,
	}
}

// Validate checks field bounds and engine version compatibility.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if err := version.CheckCompatibility(version.GetVersion(), c.Version); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads a YAML config. Absent fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read backtest config %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML config over the defaults and validates it.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Schema returns the JSON schema of Config.
func Schema() (string, error) {
	return utils.JSONSchema(Config{})
}
