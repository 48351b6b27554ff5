package pattern

import (
	"github.com/MGmoket/stock-assistant/internal/types"
)

// parts is a bar split into body and shadows, each also as a fraction of
// the range. Bars with no range are flagged flat and match nothing.
type parts struct {
	bar                         types.Bar
	body, upper, lower          float64
	bodyPct, upperPct, lowerPct float64
	flat                        bool
}

func split(bar types.Bar) parts {
	p := parts{
		bar:   bar,
		body:  bar.Body(),
		upper: bar.UpperShadow(),
		lower: bar.LowerShadow(),
	}

	r := bar.Range()
	if r <= 0 {
		p.flat = true

		return p
	}

	p.bodyPct = p.body / r
	p.upperPct = p.upper / r
	p.lowerPct = p.lower / r

	return p
}

func (p parts) bull() bool {
	return !p.flat && p.bar.IsBullish()
}

func (p parts) bear() bool {
	return !p.flat && p.bar.IsBearish()
}

func (p parts) bodyTop() float64 {
	return max(p.bar.Open, p.bar.Close)
}

func (p parts) bodyBottom() float64 {
	return min(p.bar.Open, p.bar.Close)
}

func (p parts) midpoint() float64 {
	return (p.bar.Open + p.bar.Close) / 2
}

func (p parts) doji(th Thresholds) bool {
	return !p.flat && p.bodyPct <= th.DojiBodyPct
}

func (p parts) long(th Thresholds) bool {
	return !p.flat && p.bodyPct >= th.LongBodyPct
}

func (p parts) small(th Thresholds) bool {
	return !p.flat && p.bodyPct <= th.SmallBodyPct
}

// umbrella is the hammer/hanging-man shape: a real body on top of a long
// lower shadow with almost no upper shadow.
func (p parts) umbrella(th Thresholds) bool {
	return !p.flat &&
		p.bodyPct > th.DojiBodyPct &&
		p.lowerPct >= th.ShadowMinPct &&
		p.upperPct <= th.ShadowMaxPct
}
