package pattern

import (
	"github.com/MGmoket/stock-assistant/internal/types"
)

// Detector inspects a window whose last bar is the candidate bar. The window
// always has exactly Lookback bars.
type Detector func(window []parts, th Thresholds) (types.Bias, bool)

// Pattern is one catalog entry.
type Pattern struct {
	Name string `yaml:"name" json:"name"`
	// Lookback is the number of bars the rule reads, candidate bar included.
	Lookback int `yaml:"lookback" json:"lookback"`
	// Score is the unsigned strength; matches carry it signed by bias.
	Score  float64  `yaml:"score" json:"score"`
	Detect Detector `yaml:"-" json:"-"`
}

const (
	Hammer             = "hammer"
	HangingMan         = "hanging_man"
	Engulfing          = "engulfing"
	Doji               = "doji"
	MorningStar        = "morning_star"
	EveningStar        = "evening_star"
	ThreeWhiteSoldiers = "three_white_soldiers"
	ThreeBlackCrows    = "three_black_crows"
	PiercingLine       = "piercing_line"
	DarkCloudCover     = "dark_cloud_cover"
	Harami             = "harami"
	MorningDojiStar    = "morning_doji_star"
)

// DefaultCatalog returns the twelve built-in patterns. Catalog order is the
// emission order for matches on the same bar.
func DefaultCatalog() []Pattern {
	return []Pattern{
		{Name: Hammer, Lookback: 3, Score: 10, Detect: hammer},
		{Name: HangingMan, Lookback: 3, Score: 8, Detect: hangingMan},
		{Name: Engulfing, Lookback: 2, Score: 8, Detect: engulfing},
		{Name: Doji, Lookback: 1, Score: 3, Detect: doji},
		{Name: MorningStar, Lookback: 3, Score: 10, Detect: morningStar},
		{Name: EveningStar, Lookback: 3, Score: 10, Detect: eveningStar},
		{Name: ThreeWhiteSoldiers, Lookback: 3, Score: 10, Detect: threeWhiteSoldiers},
		{Name: ThreeBlackCrows, Lookback: 3, Score: 10, Detect: threeBlackCrows},
		{Name: PiercingLine, Lookback: 2, Score: 8, Detect: piercingLine},
		{Name: DarkCloudCover, Lookback: 2, Score: 8, Detect: darkCloudCover},
		{Name: Harami, Lookback: 2, Score: 4, Detect: harami},
		{Name: MorningDojiStar, Lookback: 3, Score: 10, Detect: morningDojiStar},
	}
}

// ----- Single-candle detectors -----

// hammer: umbrella after a falling close across the two preceding bars.
func hammer(w []parts, th Thresholds) (types.Bias, bool) {
	falling := w[0].bar.Close > w[1].bar.Close
	return types.BiasBullish, falling && w[2].umbrella(th)
}

// hangingMan: umbrella after a rising close across the two preceding bars.
func hangingMan(w []parts, th Thresholds) (types.Bias, bool) {
	rising := w[0].bar.Close < w[1].bar.Close
	return types.BiasBearish, rising && w[2].umbrella(th)
}

func doji(w []parts, th Thresholds) (types.Bias, bool) {
	return types.BiasNeutral, w[0].doji(th)
}

// ----- Two-candle detectors -----

// engulfing: the second body covers the first and has the opposite color.
func engulfing(w []parts, _ Thresholds) (types.Bias, bool) {
	first, second := w[0], w[1]
	covers := second.bodyTop() >= first.bodyTop() &&
		second.bodyBottom() <= first.bodyBottom() &&
		second.body > first.body

	switch {
	case covers && first.bear() && second.bull():
		return types.BiasBullish, true
	case covers && first.bull() && second.bear():
		return types.BiasBearish, true
	default:
		return "", false
	}
}

// piercingLine: a long black bar, then a white bar opening below its low
// and closing above its midpoint but inside its body.
func piercingLine(w []parts, th Thresholds) (types.Bias, bool) {
	first, second := w[0], w[1]
	ok := first.bear() && first.long(th) && second.bull() &&
		second.bar.Open < first.bar.Low &&
		second.bar.Close > first.midpoint() &&
		second.bar.Close < first.bar.Open

	return types.BiasBullish, ok
}

// darkCloudCover mirrors piercingLine at a top.
func darkCloudCover(w []parts, th Thresholds) (types.Bias, bool) {
	first, second := w[0], w[1]
	ok := first.bull() && first.long(th) && second.bear() &&
		second.bar.Open > first.bar.High &&
		second.bar.Close < first.midpoint() &&
		second.bar.Close > first.bar.Open

	return types.BiasBearish, ok
}

// harami: a small body inside the previous long body. The bias is opposite
// to the first bar.
func harami(w []parts, th Thresholds) (types.Bias, bool) {
	first, second := w[0], w[1]
	inside := !second.flat &&
		second.bodyTop() < first.bodyTop() &&
		second.bodyBottom() > first.bodyBottom() &&
		second.body <= first.body*th.SmallBodyPct/th.LongBodyPct

	switch {
	case inside && first.long(th) && first.bear():
		return types.BiasBullish, true
	case inside && first.long(th) && first.bull():
		return types.BiasBearish, true
	default:
		return "", false
	}
}

// ----- Three-candle detectors -----

// star checks the shared star geometry: a long first bar, a small middle
// body gapping beyond the first body, and a third bar of the opposite color
// closing past the first body's midpoint.
func star(w []parts, th Thresholds, bullish bool, middle func(parts) bool) bool {
	first, mid, last := w[0], w[1], w[2]
	if !first.long(th) || !middle(mid) {
		return false
	}

	if bullish {
		return first.bear() && mid.bodyTop() < first.bodyBottom() &&
			last.bull() && last.bar.Close > first.midpoint()
	}

	return first.bull() && mid.bodyBottom() > first.bodyTop() &&
		last.bear() && last.bar.Close < first.midpoint()
}

func morningStar(w []parts, th Thresholds) (types.Bias, bool) {
	return types.BiasBullish, star(w, th, true, func(p parts) bool { return p.small(th) })
}

func eveningStar(w []parts, th Thresholds) (types.Bias, bool) {
	return types.BiasBearish, star(w, th, false, func(p parts) bool { return p.small(th) })
}

func morningDojiStar(w []parts, th Thresholds) (types.Bias, bool) {
	return types.BiasBullish, star(w, th, true, func(p parts) bool { return p.doji(th) })
}

// soldiers checks three same-colored bars, each opening inside the previous
// body and closing further in the trend direction with a short shadow at
// the close.
func soldiers(w []parts, th Thresholds, bullish bool) bool {
	for i, p := range w {
		if bullish && (!p.bull() || p.upperPct > th.SoldierUpperPct) {
			return false
		}

		if !bullish && (!p.bear() || p.lowerPct > th.SoldierUpperPct) {
			return false
		}

		if i == 0 {
			continue
		}

		prev := w[i-1]
		if p.bar.Open < prev.bodyBottom() || p.bar.Open > prev.bodyTop() {
			return false
		}

		if bullish && p.bar.Close <= prev.bar.Close {
			return false
		}

		if !bullish && p.bar.Close >= prev.bar.Close {
			return false
		}
	}

	return true
}

func threeWhiteSoldiers(w []parts, th Thresholds) (types.Bias, bool) {
	return types.BiasBullish, soldiers(w, th, true)
}

func threeBlackCrows(w []parts, th Thresholds) (types.Bias, bool) {
	return types.BiasBearish, soldiers(w, th, false)
}
