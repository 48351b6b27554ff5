package symbol

import (
	"testing"

	"github.com/MGmoket/stock-assistant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SymbolTestSuite struct {
	suite.Suite
}

func TestSymbolSuite(t *testing.T) {
	suite.Run(t, new(SymbolTestSuite))
}

func (suite *SymbolTestSuite) TestNormalize() {
	tests := []struct {
		input    string
		expected string
	}{
		{"600519", "600519"},
		{"sh600519", "600519"},
		{"SZ000001", "000001"},
		{"600519.SH", "600519"},
		{" 300750.sz ", "300750"},
		{"1", "000001"},
		{"bj830799", "830799"},
	}

	for _, tt := range tests {
		code, err := Normalize(tt.input)
		suite.NoError(err, tt.input)
		suite.Equal(tt.expected, code, tt.input)
	}
}

func (suite *SymbolTestSuite) TestNormalizeRejects() {
	for _, input := range []string{"", "SH", "6005190", "60A519", "HK00700"} {
		_, err := Normalize(input)
		suite.Error(err, input)
		suite.Equal(errors.ErrCodeInvalidSymbol, errors.GetCode(err), input)
	}

	suite.Panics(func() { MustNormalize("abc") })
}

func (suite *SymbolTestSuite) TestBoards() {
	suite.Equal(BoardShanghaiMain, BoardOf("600519"))
	suite.Equal(BoardShenzhenMain, BoardOf("000001"))
	suite.Equal(BoardShenzhenMain, BoardOf("002594"))
	suite.Equal(BoardChiNext, BoardOf("300750"))
	suite.Equal(BoardSTAR, BoardOf("688981"))
	suite.Equal(BoardBeijing, BoardOf("830799"))
	suite.Equal(BoardUnknown, BoardOf("900901"))

	suite.True(IsMainBoard("601318"))
	suite.False(IsMainBoard("300750"))
}

func (suite *SymbolTestSuite) TestLimits() {
	suite.True(IsST("*ST康美"))
	suite.True(IsST("st海润"))
	suite.False(IsST("贵州茅台"))

	suite.Equal(5.0, LimitPct("600000", "*ST浦发"))
	suite.Equal(10.0, LimitPct("600000", "浦发银行"))
	suite.Equal(20.0, LimitPct("300750", "宁德时代"))
	suite.Equal(30.0, LimitPct("830799", ""))

	suite.True(IsLimitUp(9.9, "600000", "", 0.2))
	suite.False(IsLimitUp(9.7, "600000", "", 0.2))
}
