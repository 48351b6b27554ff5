package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/MGmoket/stock-assistant/internal/types"
)

// DataGenerator generates daily A-share bars for tests and benchmarks.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// StartDate is the first trading day; weekends are skipped.
	StartDate time.Time
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility is the daily return standard deviation (0.02 = 2%)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// LimitPct clamps the daily change, as the exchange price limit does.
	LimitPct float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a main-board stock around 10 yuan.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Count:          250,
		InitialPrice:   10.0,
		Volatility:     0.02,
		Trend:          0.0,
		LimitPct:       0.10,
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion. Prices are
// rounded to the 0.01 tick and every bar passes types.ValidateBars.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	prevClose := tick(config.InitialPrice)
	day := config.StartDate

	for i := 0; i < config.Count; i++ {
		day = tradingDay(day)

		// Box-Muller transform for a standard normal draw
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		gap := config.Volatility * 0.2 * (g.rng.Float64()*2 - 1)
		change := config.Volatility*z + config.Trend/float64(config.Count)
		if config.LimitPct > 0 {
			change = math.Max(-config.LimitPct, math.Min(config.LimitPct, change))
		}

		open := tick(prevClose * (1 + gap))
		close := tick(prevClose * (1 + change))

		high := tick(math.Max(open, close) * (1 + g.rng.Float64()*config.Volatility*0.5))
		low := tick(math.Min(open, close) * (1 - g.rng.Float64()*config.Volatility*0.5))
		if low <= 0 {
			low = math.Min(open, close)
		}

		volume := config.VolumeBase * (1 + (g.rng.Float64()*2-1)*config.VolumeVariance)

		bars[i] = types.Bar{
			Time:   day,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: math.Round(math.Max(volume, 0)),
		}

		prevClose = close
		day = day.AddDate(0, 0, 1)
	}

	return bars
}

// GenerateMultiSymbol generates one series per symbol with slightly varied
// starting price and volatility.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string][]types.Bar {
	out := make(map[string][]types.Bar, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		out[symbol] = g.Generate(config)
	}

	return out
}

// GenerateBars is a convenience function producing count default bars
// with a fixed seed.
func GenerateBars(count int) []types.Bar {
	config := DefaultConfig()
	config.Count = count

	return NewDataGenerator(42).Generate(config)
}

func tradingDay(day time.Time) time.Time {
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}

	return day
}

func tick(price float64) float64 {
	return math.Round(price*100) / 100
}
