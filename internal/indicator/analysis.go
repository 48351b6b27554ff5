package indicator

import (
	"fmt"
	"math"
	"slices"

	"github.com/MGmoket/stock-assistant/internal/types"
)

// Analysis is every indicator line of one bar sequence computed with a
// single Params table. It is read-only after Analyze returns.
type Analysis struct {
	Bars       []types.Bar
	Params     Params
	MA         map[int]Series
	MACD       MACDLines
	KDJ        KDJLines
	Boll       BollingerLines
	RSI        map[int]Series
	Volume     VolumeLines
	VolumeLong VolumeLines
	ATR        Series
}

// Analyze computes all lines for bars. Short inputs produce undefined
// values, never an error.
func Analyze(bars []types.Bar, params Params) *Analysis {
	closes := types.Closes(bars)

	a := &Analysis{
		Bars:       bars,
		Params:     params,
		MA:         make(map[int]Series, len(params.MAPeriods)),
		MACD:       ComputeMACD(closes, params.MACDFast, params.MACDSlow, params.MACDSignal),
		KDJ:        ComputeKDJ(bars, params.KDJPeriod, params.KDJM1, params.KDJM2),
		Boll:       ComputeBollinger(closes, params.BollPeriod, params.BollK),
		RSI:        make(map[int]Series, len(params.RSIPeriods)),
		Volume:     ComputeVolume(bars, params.VolumePeriod),
		VolumeLong: ComputeVolume(bars, params.VolumeLongPeriod),
		ATR:        ComputeATR(bars, params.ATRPeriod),
	}

	for _, period := range params.MAPeriods {
		a.MA[period] = SMA(closes, period)
	}

	if _, ok := a.MA[params.PullbackMAPeriod]; !ok {
		a.MA[params.PullbackMAPeriod] = SMA(closes, params.PullbackMAPeriod)
	}

	for _, period := range append(slices.Clone(params.RSIPeriods), params.ScoreRSIPeriod) {
		if _, ok := a.RSI[period]; !ok {
			a.RSI[period] = ComputeRSI(closes, period)
		}
	}

	return a
}

// PercentChange returns the close-to-close change in percent over lag bars
// ending at i.
func (a *Analysis) PercentChange(i, lag int) (float64, bool) {
	if i-lag < 0 || i >= len(a.Bars) || lag <= 0 {
		return 0, false
	}

	base := a.Bars[i-lag].Close
	if base == 0 {
		return 0, false
	}

	return (a.Bars[i].Close - base) / base * 100, true
}

// MaxDailyChange returns the largest one-bar percent change among the
// lookback bars ending at i.
func (a *Analysis) MaxDailyChange(i, lookback int) (float64, bool) {
	best := math.Inf(-1)
	found := false

	for j := max(i-lookback+1, 1); j <= i && j < len(a.Bars); j++ {
		if change, ok := a.PercentChange(j, 1); ok {
			best = math.Max(best, change)
			found = true
		}
	}

	return best, found
}

// MetricsAt returns every defined metric at index i keyed by its snapshot
// name. Undefined metrics are omitted. Boolean signals are 1 or 0.
func (a *Analysis) MetricsAt(i int) map[string]float64 {
	metrics := make(map[string]float64)
	put := func(name string, s Series) {
		if v, ok := s.Get(i); ok {
			metrics[name] = v
		}
	}
	flag := func(name string, defined, set bool) {
		if !defined {
			return
		}

		metrics[name] = 0
		if set {
			metrics[name] = 1
		}
	}

	if i < 0 || i >= len(a.Bars) {
		return metrics
	}

	price := a.Bars[i].Close
	metrics[types.MetricPrice] = price

	for period, series := range a.MA {
		put(fmt.Sprintf("ma_%d", period), series)
	}

	if ma, ok := a.MA[a.Params.PullbackMAPeriod].Get(i); ok && ma > 0 {
		metrics[fmt.Sprintf("ma_%d_distance_pct", a.Params.PullbackMAPeriod)] = math.Abs(price-ma) / ma * 100
	}

	if aligned, ok := a.bullishAlignment(i); ok {
		flag("ma_bullish_alignment", true, aligned)
	}

	put("macd_dif", a.MACD.DIF)
	put("macd_dea", a.MACD.DEA)
	put("macd_hist", a.MACD.Histogram)
	crossDefined := a.MACD.Histogram.Defined(i) && a.MACD.Histogram.Defined(i-1)
	flag("macd_golden_cross", crossDefined, GoldenCross(a.MACD.Histogram, i))
	flag("macd_dead_cross", crossDefined, DeadCross(a.MACD.Histogram, i))

	put("kdj_k", a.KDJ.K)
	put("kdj_d", a.KDJ.D)
	put("kdj_j", a.KDJ.J)
	kdjDefined := a.KDJ.K.Defined(i) && a.KDJ.K.Defined(i-1) && a.KDJ.D.Defined(i) && a.KDJ.D.Defined(i-1)
	flag("kdj_golden_cross", kdjDefined, CrossUp(a.KDJ.K, a.KDJ.D, i))

	put("boll_upper", a.Boll.Upper)
	put("boll_middle", a.Boll.Middle)
	put("boll_lower", a.Boll.Lower)
	put("boll_pct_b", a.Boll.PercentB)

	for period, series := range a.RSI {
		put(fmt.Sprintf("rsi_%d", period), series)
	}

	put(fmt.Sprintf("volume_avg_%d", a.Params.VolumePeriod), a.Volume.Average)
	put(fmt.Sprintf("volume_avg_%d", a.Params.VolumeLongPeriod), a.VolumeLong.Average)
	put("volume_ratio", a.Volume.Ratio)

	if i > 0 && a.Bars[i-1].Volume > 0 {
		metrics["volume_growth"] = a.Bars[i].Volume / a.Bars[i-1].Volume
	}

	put("atr", a.ATR)

	if change, ok := a.PercentChange(i, 1); ok {
		metrics["pct_change"] = change
	}

	if change, ok := a.PercentChange(i, a.Params.ChangeLookback); ok {
		metrics[fmt.Sprintf("pct_change_%d", a.Params.ChangeLookback)] = change
	}

	if change, ok := a.MaxDailyChange(i, a.Params.LimitUpLookback); ok {
		metrics[fmt.Sprintf("max_pct_change_%d", a.Params.LimitUpLookback)] = change
	}

	return metrics
}

// bullishAlignment reports whether at least three defined averages are
// ordered shortest above longest.
func (a *Analysis) bullishAlignment(i int) (bool, bool) {
	periods := slices.Clone(a.Params.MAPeriods)
	slices.Sort(periods)

	values := make([]float64, 0, len(periods))
	for _, period := range periods {
		if v, ok := a.MA[period].Get(i); ok {
			values = append(values, v)
		}
	}

	if len(values) < 3 {
		return false, false
	}

	for j := 1; j < len(values); j++ {
		if values[j-1] < values[j] {
			return false, true
		}
	}

	return true, true
}
