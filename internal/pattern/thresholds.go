package pattern

import (
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Thresholds are the candle geometry ratios the detectors compare against.
// Ratios are fractions of the bar range unless noted.
type Thresholds struct {
	// DojiBodyPct is the largest body that still counts as a doji.
	DojiBodyPct float64 `yaml:"doji_body_pct" json:"doji_body_pct" validate:"gt=0,lt=1"`
	// SmallBodyPct is the largest body of a star or harami inner bar.
	SmallBodyPct float64 `yaml:"small_body_pct" json:"small_body_pct" validate:"gt=0,lt=1"`
	// LongBodyPct is the smallest body of a trend bar.
	LongBodyPct float64 `yaml:"long_body_pct" json:"long_body_pct" validate:"gt=0,lt=1"`
	// ShadowMinPct is the smallest lower shadow of a hammer or hanging man.
	ShadowMinPct float64 `yaml:"shadow_min_pct" json:"shadow_min_pct" validate:"gt=0,lt=1"`
	// ShadowMaxPct is the largest opposite shadow of a hammer or hanging man.
	ShadowMaxPct float64 `yaml:"shadow_max_pct" json:"shadow_max_pct" validate:"gt=0,lt=1"`
	// SoldierUpperPct is the largest closing shadow of a soldier or crow.
	SoldierUpperPct float64 `yaml:"soldier_upper_pct" json:"soldier_upper_pct" validate:"gt=0,lt=1"`
}

// DefaultThresholds returns the stock candle ratios.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DojiBodyPct:     0.10,
		SmallBodyPct:    0.30,
		LongBodyPct:     0.60,
		ShadowMinPct:    0.60,
		ShadowMaxPct:    0.15,
		SoldierUpperPct: 0.30,
	}
}

func (t Thresholds) Validate() error {
	if err := validator.New().Struct(t); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid pattern thresholds", err)
	}

	return nil
}
