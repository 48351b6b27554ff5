package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func (suite *SeriesTestSuite) TestAccessors() {
	s := Series{none(), value(2), value(3)}

	suite.Equal(3, s.Len())
	suite.True(s.At(0).IsNone())
	suite.True(s.At(-1).IsNone())
	suite.True(s.At(3).IsNone())
	suite.Equal(3.0, s.Last().Unwrap())
	suite.Equal(1, s.FirstDefined())
	suite.False(s.Defined(0))
	suite.True(s.Defined(1))

	v, ok := s.Get(1)
	suite.True(ok)
	suite.Equal(2.0, v)

	values := s.Values()
	suite.True(math.IsNaN(values[0]))
	suite.Equal([]float64{2, 3}, values[1:])
}

func (suite *SeriesTestSuite) TestFromValuesRejectsNaN() {
	s := fromValues([]float64{1, math.NaN(), math.Inf(1)})
	suite.True(s.Defined(0))
	suite.False(s.Defined(1))
	suite.False(s.Defined(2))
}

func (suite *SeriesTestSuite) TestEmptySeries() {
	var s Series
	suite.Equal(-1, s.FirstDefined())
	suite.True(s.Last().IsNone())
}

// ============================================================================
// Warm-up window
// ============================================================================

func (suite *SeriesTestSuite) TestWarmUpWindows() {
	const length = 80
	bars := barsFromCloses(wave(length, 20, 2)...)

	for _, ind := range []Indicator{
		NewMA(), NewEMA(), NewMACD(), NewKDJ(), NewBollingerBands(), NewRSI(), NewVolume(), NewATR(),
	} {
		w := ind.WarmUp()
		for line, series := range ind.Compute(bars) {
			suite.Run(string(ind.Name())+"/"+line, func() {
				suite.Equal(length, series.Len())

				first := w - 1
				if ind.Name() == "macd" && line == "dif" {
					first = 25
				}

				for i := 0; i < first; i++ {
					suite.Falsef(series.Defined(i), "index %d should be undefined", i)
				}

				for i := first; i < length; i++ {
					suite.Truef(series.Defined(i), "index %d should be defined", i)
				}
			})
		}
	}
}

func (suite *SeriesTestSuite) TestShortInputIsAllUndefined() {
	bars := barsFromCloses(10, 11, 12)

	for _, ind := range []Indicator{NewMA(), NewMACD(), NewRSI(), NewBollingerBands(), NewATR()} {
		for _, series := range ind.Compute(bars) {
			suite.Equal(3, series.Len())
			suite.Equal(-1, series.FirstDefined())
		}
	}
}
