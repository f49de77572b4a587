// Package telemetry provides farm population statistics, run output and event logging.
package telemetry

import (
	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/species"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	// Event counters for current window
	transitions   int
	harvests      int
	spread        int
	planted       int
	deaths        int
	despawned     int
	seedsCredited uint64
	foodCredited  uint64
}

// NewCollector creates a new stats collector.
// windowTicks is the window length in ticks, dt the seconds per tick.
func NewCollector(windowTicks int, dt float32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		dt:                  dt,
	}
}

// RecordTransition records a phase change. Entering Death counts as a death.
func (c *Collector) RecordTransition(to components.LifePhase) {
	c.transitions++
	if to == components.PhaseDeath {
		c.deaths++
	}
}

// RecordDespawn records an organism removed after decay.
func (c *Collector) RecordDespawn() {
	c.despawned++
}

// RecordHarvest records n fruiting resolutions and spread seeds spawned.
func (c *Collector) RecordHarvest(harvests, spread int) {
	c.harvests += harvests
	c.spread += spread
}

// RecordPlanted records seeds planted by players.
func (c *Collector) RecordPlanted(n int) {
	c.planted += n
}

// RecordCredit adds a ledger credit to the window totals.
func (c *Collector) RecordCredit(res components.ResourceMap) {
	for k, qty := range res {
		switch k.Kind {
		case components.KindSeeds:
			c.seedsCredited += qty
		case components.KindFoodValue:
			c.foodCredited += qty
		}
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PopulationSample is the organism state sampled at window end.
type PopulationSample struct {
	PhaseCounts   []int // indexed by LifePhase
	SpeciesCounts map[species.Species]int
	Owned         int
	Generations   []float64
	Water         []float64
	Soil          []float64
}

// NewPopulationSample returns an empty sample with room for n organisms.
func NewPopulationSample(n int) PopulationSample {
	return PopulationSample{
		PhaseCounts:   make([]int, components.LifePhaseCount()),
		SpeciesCounts: make(map[species.Species]int),
		Generations:   make([]float64, 0, n),
		Water:         make([]float64, 0, n),
		Soil:          make([]float64, 0, n),
	}
}

// Add records one organism.
func (p *PopulationSample) Add(plant *components.Plant, stock *components.Resources, owned bool) {
	if int(plant.Phase) < len(p.PhaseCounts) {
		p.PhaseCounts[plant.Phase]++
	}
	p.SpeciesCounts[plant.Species]++
	if owned {
		p.Owned++
	}
	p.Generations = append(p.Generations, float64(plant.Generation))
	p.Water = append(p.Water, float64(stock.Water))
	p.Soil = append(p.Soil, float64(stock.Soil))
}

// Total returns the number of organisms in the sample.
func (p PopulationSample) Total() int {
	return len(p.Generations)
}

func (p PopulationSample) phase(ph components.LifePhase) int {
	if int(ph) < len(p.PhaseCounts) {
		return p.PhaseCounts[ph]
	}
	return 0
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop PopulationSample) WindowStats {
	gen := Summarize(pop.Generations)
	water := Summarize(pop.Water)
	soil := Summarize(pop.Soil)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Organisms:  pop.Total(),
		Owned:      pop.Owned,
		Seed:       pop.phase(components.PhaseSeed),
		Germinated: pop.phase(components.PhaseGerminated),
		Growing:    pop.phase(components.PhaseGrowing),
		Mature:     pop.phase(components.PhaseMature),
		Pollinated: pop.phase(components.PhasePollinated),
		Fruiting:   pop.phase(components.PhaseFruiting),
		Dead:       pop.phase(components.PhaseDeath),
		Apple:      pop.SpeciesCounts[species.Apple],
		Wheat:      pop.SpeciesCounts[species.Wheat],

		Transitions: c.transitions,
		Harvests:    c.harvests,
		Spread:      c.spread,
		Planted:     c.planted,
		Deaths:      c.deaths,
		Despawned:   c.despawned,

		SeedsCredited: c.seedsCredited,
		FoodCredited:  c.foodCredited,

		GenMean: gen.Mean,
		GenStd:  gen.Std,
		GenP50:  gen.P50,
		GenMax:  gen.Max,

		WaterMean: water.Mean,
		WaterP10:  water.P10,
		WaterP50:  water.P50,
		WaterP90:  water.P90,
		SoilMean:  soil.Mean,
		SoilP10:   soil.P10,
		SoilP50:   soil.P50,
		SoilP90:   soil.P90,
	}

	c.windowStartTick = currentTick
	c.transitions = 0
	c.harvests = 0
	c.spread = 0
	c.planted = 0
	c.deaths = 0
	c.despawned = 0
	c.seedsCredited = 0
	c.foodCredited = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
