package types

type IndicatorType string

const (
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeKDJ            IndicatorType = "kdj"
	IndicatorTypeBollingerBands IndicatorType = "boll"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeVolume         IndicatorType = "volume"
	IndicatorTypeATR            IndicatorType = "atr"
)
