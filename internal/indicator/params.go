package indicator

import (
	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Params is the indicator period table used when building analyses and
// snapshots.
type Params struct {
	// MAPeriods are the moving averages, shortest first.
	MAPeriods  []int   `yaml:"ma_periods" json:"ma_periods" validate:"required,min=1,dive,gt=0"`
	MACDFast   int     `yaml:"macd_fast" json:"macd_fast" validate:"gt=0,ltfield=MACDSlow"`
	MACDSlow   int     `yaml:"macd_slow" json:"macd_slow" validate:"gt=0"`
	MACDSignal int     `yaml:"macd_signal" json:"macd_signal" validate:"gt=0"`
	KDJPeriod  int     `yaml:"kdj_period" json:"kdj_period" validate:"gt=0"`
	KDJM1      int     `yaml:"kdj_m1" json:"kdj_m1" validate:"gt=0"`
	KDJM2      int     `yaml:"kdj_m2" json:"kdj_m2" validate:"gt=0"`
	BollPeriod int     `yaml:"boll_period" json:"boll_period" validate:"gt=1"`
	BollK      float64 `yaml:"boll_k" json:"boll_k" validate:"gt=0"`
	RSIPeriods []int   `yaml:"rsi_periods" json:"rsi_periods" validate:"required,min=1,dive,gt=0"`
	// ScoreRSIPeriod is the RSI read by the composite score.
	ScoreRSIPeriod   int `yaml:"score_rsi_period" json:"score_rsi_period" validate:"gt=0"`
	VolumePeriod     int `yaml:"volume_period" json:"volume_period" validate:"gt=0"`
	VolumeLongPeriod int `yaml:"volume_long_period" json:"volume_long_period" validate:"gt=0"`
	ATRPeriod        int `yaml:"atr_period" json:"atr_period" validate:"gt=0"`
	// PullbackMAPeriod is the average whose distance to price is reported.
	PullbackMAPeriod int `yaml:"pullback_ma_period" json:"pullback_ma_period" validate:"gt=0"`
	// ChangeLookback is the span of the multi-day percent change.
	ChangeLookback int `yaml:"change_lookback" json:"change_lookback" validate:"gt=0"`
	// LimitUpLookback is the span scanned for the largest daily gain.
	LimitUpLookback int `yaml:"limit_up_lookback" json:"limit_up_lookback" validate:"gt=0"`
}

// DefaultParams returns the periods used across the A-share toolkit.
func DefaultParams() Params {
	return Params{
		MAPeriods:        []int{5, 10, 20, 60},
		MACDFast:         12,
		MACDSlow:         26,
		MACDSignal:       9,
		KDJPeriod:        9,
		KDJM1:            3,
		KDJM2:            3,
		BollPeriod:       20,
		BollK:            2,
		RSIPeriods:       []int{6, 12, 14, 24},
		ScoreRSIPeriod:   6,
		VolumePeriod:     5,
		VolumeLongPeriod: 20,
		ATRPeriod:        14,
		PullbackMAPeriod: 10,
		ChangeLookback:   5,
		LimitUpLookback:  20,
	}
}

func (p Params) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid indicator params", err)
	}

	return nil
}

// Weights are the point contributions of each composite score term.
type Weights struct {
	// Base is the neutral starting score.
	Base float64 `yaml:"base" json:"base"`
	// MATrend scales (fraction of averages below price - 0.5).
	MATrend     float64 `yaml:"ma_trend" json:"ma_trend"`
	MAAlignment float64 `yaml:"ma_alignment" json:"ma_alignment"`
	// MACDCross is added on a golden cross and subtracted on a dead cross.
	MACDCross float64 `yaml:"macd_cross" json:"macd_cross"`
	// MACDTrend is added when DIF is above DEA without a cross, else subtracted.
	MACDTrend float64 `yaml:"macd_trend" json:"macd_trend"`
	KDJCross  float64 `yaml:"kdj_cross" json:"kdj_cross"`
	// KDJZone is added when K is oversold and subtracted when overbought.
	KDJZone         float64 `yaml:"kdj_zone" json:"kdj_zone"`
	BollLower       float64 `yaml:"boll_lower" json:"boll_lower"`
	BollUpper       float64 `yaml:"boll_upper" json:"boll_upper"`
	RSIZone         float64 `yaml:"rsi_zone" json:"rsi_zone"`
	VolumeSurgeUp   float64 `yaml:"volume_surge_up" json:"volume_surge_up"`
	VolumeSurgeDown float64 `yaml:"volume_surge_down" json:"volume_surge_down"`
	VolumePullback  float64 `yaml:"volume_pullback" json:"volume_pullback"`
}

// Levels are the thresholds the composite score compares against.
type Levels struct {
	KDJOversold   float64 `yaml:"kdj_oversold" json:"kdj_oversold"`
	KDJOverbought float64 `yaml:"kdj_overbought" json:"kdj_overbought" validate:"gtfield=KDJOversold"`
	BollLowerPct  float64 `yaml:"boll_lower_pct" json:"boll_lower_pct"`
	BollUpperPct  float64 `yaml:"boll_upper_pct" json:"boll_upper_pct" validate:"gtfield=BollLowerPct"`
	RSIOversold   float64 `yaml:"rsi_oversold" json:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought" json:"rsi_overbought" validate:"gtfield=RSIOversold"`
	VolumeSurge   float64 `yaml:"volume_surge" json:"volume_surge" validate:"gt=0"`
	VolumeShrink  float64 `yaml:"volume_shrink" json:"volume_shrink" validate:"gt=0,ltfield=VolumeSurge"`
	// Ratings are the lower bounds of strong-buy, buy, neutral and sell.
	Ratings [4]float64 `yaml:"ratings" json:"ratings"`
}

// ScoreConfig is the tunable table behind the composite score.
type ScoreConfig struct {
	Weights Weights `yaml:"weights" json:"weights"`
	Levels  Levels  `yaml:"levels" json:"levels"`
}

// DefaultScoreConfig returns the stock weighting.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		Weights: Weights{
			Base:            50,
			MATrend:         30,
			MAAlignment:     5,
			MACDCross:       15,
			MACDTrend:       5,
			KDJCross:        10,
			KDJZone:         5,
			BollLower:       8,
			BollUpper:       5,
			RSIZone:         8,
			VolumeSurgeUp:   5,
			VolumeSurgeDown: 5,
			VolumePullback:  3,
		},
		Levels: Levels{
			KDJOversold:   20,
			KDJOverbought: 80,
			BollLowerPct:  20,
			BollUpperPct:  80,
			RSIOversold:   30,
			RSIOverbought: 70,
			VolumeSurge:   1.3,
			VolumeShrink:  0.7,
			Ratings:       [4]float64{80, 60, 40, 20},
		},
	}
}

func (c ScoreConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid score config", err)
	}

	r := c.Levels.Ratings
	if r[0] <= r[1] || r[1] <= r[2] || r[2] <= r[3] {
		return errors.Newf(errors.ErrCodeInvalidThreshold, "rating bounds must be strictly decreasing, got %v", r)
	}

	return nil
}
