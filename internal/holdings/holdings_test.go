package holdings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type HoldingsTestSuite struct {
	suite.Suite
}

func TestHoldingsSuite(t *testing.T) {
	suite.Run(t, new(HoldingsTestSuite))
}

func (suite *HoldingsTestSuite) TestParse() {
	h, err := Parse([]byte(`
holdings:
  - symbol: SH600519
    name: Moutai
    quantity: 100
    avg_cost: 1650.5
  - symbol: "1"
    quantity: 500
    avg_cost: 11.2
`))
	suite.Require().NoError(err)
	suite.Require().Len(h, 2)
	suite.Equal("600519", h[0].Symbol)
	suite.Equal("000001", h[1].Symbol)
	suite.True(h.Has("000001"))
	suite.False(h.Has("300750"))
	suite.InDelta(100*1650.5+500*11.2, MarketValue(h), 1e-9)
}

func (suite *HoldingsTestSuite) TestInvalid() {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{"bad symbol", "holdings:\n  - {symbol: abc, quantity: 1, avg_cost: 1}\n", errors.ErrCodeInvalidSymbol},
		{"zero quantity", "holdings:\n  - {symbol: '600519', quantity: 0, avg_cost: 1}\n", errors.ErrCodeInvalidParameter},
		{"negative cost", "holdings:\n  - {symbol: '600519', quantity: 1, avg_cost: -1}\n", errors.ErrCodeInvalidParameter},
		{
			"duplicate",
			"holdings:\n  - {symbol: '600519', quantity: 1, avg_cost: 1}\n  - {symbol: SH600519, quantity: 2, avg_cost: 1}\n",
			errors.ErrCodeDuplicatePosition,
		},
		{"not yaml", "holdings: [", errors.ErrCodeInvalidConfiguration},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := Parse([]byte(tc.yaml))
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func (suite *HoldingsTestSuite) TestLoad() {
	dir := suite.T().TempDir()

	h, err := Load(filepath.Join(dir, "missing.yaml"))
	suite.Require().NoError(err)
	suite.Empty(h)

	path := filepath.Join(dir, "holdings.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("holdings: []\n"), 0644))

	h, err = Load(path)
	suite.Require().NoError(err)
	suite.NotNil(h)
	suite.Empty(h)
}
