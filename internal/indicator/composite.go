package indicator

import (
	"math"

	"github.com/MGmoket/stock-assistant/internal/types"
)

// ScoreRating buckets the composite score.
type ScoreRating string

const (
	ScoreRatingStrongBuy  ScoreRating = "strong-buy"
	ScoreRatingBuy        ScoreRating = "buy"
	ScoreRatingNeutral    ScoreRating = "neutral"
	ScoreRatingSell       ScoreRating = "sell"
	ScoreRatingStrongSell ScoreRating = "strong-sell"
)

// Score is the composite technical score with its per-term breakdown.
type Score struct {
	Value  float64            `yaml:"value" json:"value"`
	Rating ScoreRating        `yaml:"rating" json:"rating"`
	Terms  map[string]float64 `yaml:"terms" json:"terms"`
	// Undefined lists terms skipped because their inputs were undefined.
	Undefined []string `yaml:"undefined,omitempty" json:"undefined,omitempty"`
}

// Composite scores the final bar of bars on a 0-100 scale.
func Composite(bars []types.Bar, params Params, cfg ScoreConfig) Score {
	return Analyze(bars, params).ScoreAt(len(bars)-1, cfg)
}

// ScoreAt scores index i. Every term reads only values up to i.
func (a *Analysis) ScoreAt(i int, cfg ScoreConfig) Score {
	w, lv := cfg.Weights, cfg.Levels
	score := Score{Terms: make(map[string]float64)}
	sum := w.Base
	term := func(name string, points float64, defined bool) {
		if !defined {
			score.Undefined = append(score.Undefined, name)

			return
		}

		score.Terms[name] = points
		sum += points
	}

	price := math.NaN()
	if i >= 0 && i < len(a.Bars) {
		price = a.Bars[i].Close
	}

	// Moving averages
	bullish, total := 0, 0
	for _, period := range a.Params.MAPeriods {
		if ma, ok := a.MA[period].Get(i); ok {
			total++
			if price > ma {
				bullish++
			}
		}
	}
	term("ma_trend", (float64(bullish)/float64(max(total, 1))-0.5)*w.MATrend, total > 0)

	aligned, ok := a.bullishAlignment(i)
	term("ma_alignment", boolPoints(aligned, w.MAAlignment), ok)

	// MACD
	dif, okDif := a.MACD.DIF.Get(i)
	dea, okDea := a.MACD.DEA.Get(i)
	switch {
	case GoldenCross(a.MACD.Histogram, i):
		term("macd", w.MACDCross, true)
	case DeadCross(a.MACD.Histogram, i):
		term("macd", -w.MACDCross, true)
	case okDif && okDea && dif > dea:
		term("macd", w.MACDTrend, true)
	default:
		term("macd", -w.MACDTrend, okDif && okDea)
	}

	// KDJ
	k, okK := a.KDJ.K.Get(i)
	kdjPoints := boolPoints(CrossUp(a.KDJ.K, a.KDJ.D, i), w.KDJCross)
	switch {
	case k < lv.KDJOversold:
		kdjPoints += w.KDJZone
	case k > lv.KDJOverbought:
		kdjPoints -= w.KDJZone
	}
	term("kdj", kdjPoints, okK)

	// Bollinger position
	pct, okPct := a.Boll.PercentB.Get(i)
	switch {
	case pct < lv.BollLowerPct:
		term("boll", w.BollLower, okPct)
	case pct > lv.BollUpperPct:
		term("boll", -w.BollUpper, okPct)
	default:
		term("boll", 0, okPct)
	}

	// RSI
	rsi, okRSI := a.RSI[a.Params.ScoreRSIPeriod].Get(i)
	switch {
	case rsi < lv.RSIOversold:
		term("rsi", w.RSIZone, okRSI)
	case rsi > lv.RSIOverbought:
		term("rsi", -w.RSIZone, okRSI)
	default:
		term("rsi", 0, okRSI)
	}

	// Volume and price
	ratio, okRatio := a.Volume.Ratio.Get(i)
	change, okChange := a.PercentChange(i, 1)
	switch {
	case change > 0 && ratio > lv.VolumeSurge:
		term("volume", w.VolumeSurgeUp, okRatio && okChange)
	case change < 0 && ratio > lv.VolumeSurge:
		term("volume", -w.VolumeSurgeDown, okRatio && okChange)
	case change < 0 && ratio < lv.VolumeShrink:
		term("volume", w.VolumePullback, okRatio && okChange)
	default:
		term("volume", 0, okRatio && okChange)
	}

	score.Value = math.Max(0, math.Min(100, sum))
	score.Rating = rate(score.Value, lv.Ratings)

	return score
}

func rate(value float64, bounds [4]float64) ScoreRating {
	switch {
	case value >= bounds[0]:
		return ScoreRatingStrongBuy
	case value >= bounds[1]:
		return ScoreRatingBuy
	case value >= bounds[2]:
		return ScoreRatingNeutral
	case value >= bounds[3]:
		return ScoreRatingSell
	default:
		return ScoreRatingStrongSell
	}
}

func boolPoints(set bool, points float64) float64 {
	if set {
		return points
	}

	return 0
}
