package components

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/species"
)

// Plant is the lifecycle state of one organism.
// Needs is only meaningful while Phase is Growing or Pollinated.
type Plant struct {
	Species    species.Species `inspect:"label"`
	Phase      LifePhase       `inspect:"label"`
	Needs      species.Needs   `inspect:"skip"`
	Generation uint32          `inspect:"label"` // completed fruiting cycles

	GerminationTimer float32 `inspect:"label,fmt:%.1fs"`
	MaturityTimer    float32 `inspect:"label,fmt:%.1fs"`
	DecayTimer       float32 `inspect:"label,fmt:%.1fs"`
}

// Resources is the water/soil stock an organism can draw on.
// Refilled by irrigation, drained by growth.
type Resources struct {
	Water uint32 `inspect:"bar"`
	Soil  uint32 `inspect:"bar"`
}

// OwnedBy links an organism to the player who receives its harvest.
// Wild organisms do not carry it.
type OwnedBy struct {
	Owner ecs.Entity
}
