package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Organisms  int `csv:"organisms"`
	Owned      int `csv:"owned"`
	Seed       int `csv:"seed"`
	Germinated int `csv:"germinated"`
	Growing    int `csv:"growing"`
	Mature     int `csv:"mature"`
	Pollinated int `csv:"pollinated"`
	Fruiting   int `csv:"fruiting"`
	Dead       int `csv:"dead"`
	Apple      int `csv:"apple"`
	Wheat      int `csv:"wheat"`

	// Events during window
	Transitions int `csv:"transitions"`
	Harvests    int `csv:"harvests"`
	Spread      int `csv:"spread"`
	Planted     int `csv:"planted"`
	Deaths      int `csv:"deaths"`
	Despawned   int `csv:"despawned"`

	// Credited to players during window
	SeedsCredited uint64 `csv:"seeds_credited"`
	FoodCredited  uint64 `csv:"food_credited"`

	// Generation distribution (sampled at window end)
	GenMean float64 `csv:"gen_mean"`
	GenStd  float64 `csv:"gen_std"`
	GenP50  float64 `csv:"gen_p50"`
	GenMax  float64 `csv:"gen_max"`

	// Stock distribution (sampled at window end)
	WaterMean float64 `csv:"water_mean"`
	WaterP10  float64 `csv:"water_p10"`
	WaterP50  float64 `csv:"water_p50"`
	WaterP90  float64 `csv:"water_p90"`
	SoilMean  float64 `csv:"soil_mean"`
	SoilP10   float64 `csv:"soil_p10"`
	SoilP50   float64 `csv:"soil_p50"`
	SoilP90   float64 `csv:"soil_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// Summarize computes mean, sample standard deviation and percentiles.
// Std is 0 for fewer than two values.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var d Distribution
	if n < 2 {
		d.Mean = sorted[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(sorted, nil)
	}
	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	d.Max = sorted[n-1]
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("organisms", s.Organisms),
		slog.Int("owned", s.Owned),
		slog.Int("apple", s.Apple),
		slog.Int("wheat", s.Wheat),
		slog.Int("transitions", s.Transitions),
		slog.Int("harvests", s.Harvests),
		slog.Int("spread", s.Spread),
		slog.Int("planted", s.Planted),
		slog.Int("deaths", s.Deaths),
		slog.Int("despawned", s.Despawned),
		slog.Uint64("seeds_credited", s.SeedsCredited),
		slog.Uint64("food_credited", s.FoodCredited),
		slog.Float64("gen_mean", s.GenMean),
		slog.Float64("water_p50", s.WaterP50),
		slog.Float64("soil_p50", s.SoilP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"organisms", s.Organisms,
		"owned", s.Owned,
		"seed", s.Seed,
		"growing", s.Growing,
		"fruiting", s.Fruiting,
		"dead", s.Dead,
		"transitions", s.Transitions,
		"harvests", s.Harvests,
		"spread", s.Spread,
		"planted", s.Planted,
		"despawned", s.Despawned,
		"seeds_credited", s.SeedsCredited,
		"food_credited", s.FoodCredited,
		"gen_mean", s.GenMean,
		"gen_max", s.GenMax,
		"water_p50", s.WaterP50,
		"soil_p50", s.SoilP50,
	)
}
