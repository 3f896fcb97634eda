package mock

import (
	"ChartService/internal/data"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// GeneratorConfig holds configuration for the financial data generator
type GeneratorConfig struct {
	Days       int
	Seed       int64
	EndDate    time.Time
	StartPrice float64
	MinPrice   float64
	Drift      float64
	Volatility float64
	Sectors    []string
}

// DefaultGeneratorConfig returns a sensible default configuration
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Days:       365,
		Seed:       42,
		EndDate:    time.Now(),
		StartPrice: 100.0,
		MinPrice:   10.0,
		Drift:      0.001,
		Volatility: 0.02, // 2% daily
		Sectors:    []string{"Technology", "Finance", "Healthcare", "Energy"},
	}
}

// FinancialDataGenerator produces a daily financial dataset
type FinancialDataGenerator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewFinancialDataGenerator creates a generator with default config
func NewFinancialDataGenerator() *FinancialDataGenerator {
	return NewFinancialDataGeneratorWithConfig(DefaultGeneratorConfig())
}

// NewFinancialDataGeneratorWithConfig creates a generator with custom config
func NewFinancialDataGeneratorWithConfig(config GeneratorConfig) *FinancialDataGenerator {
	sectors := make([]string, len(config.Sectors))
	copy(sectors, config.Sectors)
	config.Sectors = sectors

	return &FinancialDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the dataset: one row per day from EndDate-Days through EndDate inclusive
func (g *FinancialDataGenerator) Generate() (*data.Dataset, error) {
	if g.config.Days < 0 {
		return nil, fmt.Errorf("days must not be negative, got %d", g.config.Days)
	}
	if len(g.config.Sectors) == 0 {
		return nil, fmt.Errorf("at least one sector is required")
	}

	end := truncateToDay(g.config.EndDate)
	start := end.AddDate(0, 0, -g.config.Days)
	n := g.config.Days + 1

	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	// Simulate the closing price as a random walk
	closes := make([]float64, n)
	price := g.config.StartPrice
	for i := range closes {
		price = price * (1 + g.normal(g.config.Drift, g.config.Volatility))
		closes[i] = math.Max(price, g.config.MinPrice)
	}

	opens := g.scaled(closes, 0.98, 1.02)
	highs := g.scaled(closes, 1.00, 1.05)
	lows := g.scaled(closes, 0.95, 1.00)

	volume := make([]int64, n)
	for i := range volume {
		volume[i] = 1_000_000 + g.rng.Int63n(9_000_000)
	}

	revenue := g.uniformSeries(n, 50_000, 200_000)
	expenses := g.uniformSeries(n, 30_000, 150_000)

	sectors := make([]string, n)
	for i := range sectors {
		sectors[i] = g.config.Sectors[g.rng.Intn(len(g.config.Sectors))]
	}

	marketCap := g.uniformSeries(n, 1e9, 1e11)
	peRatio := g.uniformSeries(n, 10, 50)
	roi := g.uniformSeries(n, -10, 30)

	// High must cover the body of the candle and Low must sit below it
	for i := 0; i < n; i++ {
		highs[i] = math.Max(highs[i], math.Max(opens[i], closes[i]))
		lows[i] = math.Min(lows[i], math.Min(opens[i], closes[i]))
	}

	profit := make([]float64, n)
	returns := make([]float64, n)
	months := make([]string, n)
	quarters := make([]string, n)
	years := make([]int64, n)
	weekdays := make([]string, n)
	for i := 0; i < n; i++ {
		profit[i] = revenue[i] - expenses[i]
		if i > 0 {
			returns[i] = (closes[i]/closes[i-1] - 1) * 100
		}
		months[i] = dates[i].Format("2006-01")
		quarters[i] = fmt.Sprintf("%dQ%d", dates[i].Year(), (int(dates[i].Month())-1)/3+1)
		years[i] = int64(dates[i].Year())
		weekdays[i] = dates[i].Weekday().String()
	}

	return data.NewDataset(
		data.NewDatetimeColumn("Date", dates),
		data.NewNumericColumn("Open", opens),
		data.NewNumericColumn("High", highs),
		data.NewNumericColumn("Low", lows),
		data.NewNumericColumn("Close", closes),
		data.NewIntegerColumn("Volume", volume),
		data.NewNumericColumn("Revenue", revenue),
		data.NewNumericColumn("Expenses", expenses),
		data.NewCategoricalColumn("Sector", sectors),
		data.NewNumericColumn("Market_Cap", marketCap),
		data.NewNumericColumn("PE_Ratio", peRatio),
		data.NewNumericColumn("ROI", roi),
		data.NewNumericColumn("Profit", profit),
		data.NewNumericColumn("Returns", returns),
		data.NewCategoricalColumn("Month", months),
		data.NewCategoricalColumn("Quarter", quarters),
		data.NewIntegerColumn("Year", years),
		data.NewCategoricalColumn("Day_of_Week", weekdays),
	)
}

func (g *FinancialDataGenerator) normal(mean, stddev float64) float64 {
	return mean + g.rng.NormFloat64()*stddev
}

func (g *FinancialDataGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *FinancialDataGenerator) uniformSeries(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.uniform(lo, hi)
	}
	return out
}

func (g *FinancialDataGenerator) scaled(base []float64, lo, hi float64) []float64 {
	out := make([]float64, len(base))
	for i, v := range base {
		out[i] = v * g.uniform(lo, hi)
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
