package planner

import (
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// RatingConfig holds the R-multiple and score bounds of the risk rating.
type RatingConfig struct {
	// LowRewardBelow rates plans under this R multiple low-reward.
	LowRewardBelow float64 `yaml:"low_reward_below" json:"low_reward_below" validate:"gt=0"`
	// FavorableAtLeast is the R multiple a favorable plan needs.
	FavorableAtLeast float64 `yaml:"favorable_at_least" json:"favorable_at_least" validate:"gtefield=LowRewardBelow"`
	// FavorableScore is the composite score a favorable plan needs.
	FavorableScore float64 `yaml:"favorable_score" json:"favorable_score" validate:"gte=0,lte=100"`
}

// LevelConfig drives stop and target suggestions.
type LevelConfig struct {
	// RecentBars is the window of the recent low and high.
	RecentBars int `yaml:"recent_bars" json:"recent_bars" validate:"gt=0"`
	// MaxStopPct is the widest stop distance as a fraction of entry.
	MaxStopPct float64 `yaml:"max_stop_pct" json:"max_stop_pct" validate:"gt=0,lt=1"`
	// HighMarkup lifts the recent high when capping the target.
	HighMarkup float64 `yaml:"high_markup" json:"high_markup" validate:"gte=0"`
	// MinTargetPct is the smallest target distance as a fraction of entry.
	MinTargetPct float64 `yaml:"min_target_pct" json:"min_target_pct" validate:"gt=0"`
}

// Config is the planner parameter table.
type Config struct {
	// LotSize is the minimum tradable share increment.
	LotSize int64 `yaml:"lot_size" json:"lot_size" validate:"gt=0"`
	// MinTick is the smallest meaningful per-share risk.
	MinTick float64 `yaml:"min_tick" json:"min_tick" validate:"gt=0"`
	// PricePrecision is the number of decimals of suggested prices.
	PricePrecision int32 `yaml:"price_precision" json:"price_precision" validate:"gte=0,lte=4"`
	// MaxHoldings caps open positions in batch planning; zero is unlimited.
	MaxHoldings int          `yaml:"max_holdings" json:"max_holdings" validate:"gte=0"`
	Rating      RatingConfig `yaml:"rating" json:"rating"`
	Levels      LevelConfig  `yaml:"levels" json:"levels"`
}

// DefaultConfig returns A-share settings.
func DefaultConfig() Config {
	return Config{
		LotSize:        100,
		MinTick:        0.01,
		PricePrecision: 2,
		MaxHoldings:    3,
		Rating: RatingConfig{
			LowRewardBelow:   1.5,
			FavorableAtLeast: 2.5,
			FavorableScore:   60,
		},
		Levels: LevelConfig{
			RecentBars:   10,
			MaxStopPct:   0.05,
			HighMarkup:   0.02,
			MinTargetPct: 0.03,
		},
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid planner config", err)
	}

	return nil
}
