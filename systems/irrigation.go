package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/config"
)

// IrrigationSystem refills organism water and soil stock every tick.
type IrrigationSystem struct {
	filter ecs.Filter1[components.Resources]

	enabled      bool
	waterPerTick uint32
	soilPerTick  uint32
	maxWater     uint32
	maxSoil      uint32
}

// NewIrrigationSystem creates an irrigation system using the global config.
func NewIrrigationSystem(w *ecs.World) *IrrigationSystem {
	cfg := config.Cfg().Irrigation
	return &IrrigationSystem{
		filter:       *ecs.NewFilter1[components.Resources](w),
		enabled:      cfg.Enabled,
		waterPerTick: cfg.WaterPerTick,
		soilPerTick:  cfg.SoilPerTick,
		maxWater:     cfg.MaxWater,
		maxSoil:      cfg.MaxSoil,
	}
}

// Update tops up every stock, capped. Returns the number of organisms touched.
func (s *IrrigationSystem) Update() int {
	if !s.enabled {
		return 0
	}
	n := 0
	query := s.filter.Query()
	for query.Next() {
		stock := query.Get()
		stock.Water = refill(stock.Water, s.waterPerTick, s.maxWater)
		stock.Soil = refill(stock.Soil, s.soilPerTick, s.maxSoil)
		n++
	}
	return n
}

func refill(v, add, limit uint32) uint32 {
	if v >= limit {
		return v
	}
	if add > limit-v {
		return limit
	}
	return v + add
}
