package types

import "time"

// Bias is the directional reading of a candlestick pattern.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNeutral Bias = "neutral"
)

// PatternMatch is one detected pattern ending at Index.
type PatternMatch struct {
	Index int       `yaml:"index" json:"index"`
	Time  time.Time `yaml:"time" json:"time"`
	Name  string    `yaml:"name" json:"name"`
	Bias  Bias      `yaml:"bias" json:"bias"`
	// Score is the signed strength, positive for bullish.
	Score float64 `yaml:"score" json:"score"`
}
