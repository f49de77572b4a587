// Package species defines the plant species and their static growth policy.
package species

import "fmt"

// Species identifies a plant kind.
type Species uint8

const (
	Apple Species = iota
	Wheat
)

// speciesCount must stay last-value+1.
const speciesCount = 2

// All returns every species in declaration order.
func All() []Species {
	return []Species{Apple, Wheat}
}

// String returns the display name for a species.
func (s Species) String() string {
	switch s {
	case Apple:
		return "apple"
	case Wheat:
		return "wheat"
	default:
		return fmt.Sprintf("species(%d)", uint8(s))
	}
}

// Valid reports whether s is a known species.
func (s Species) Valid() bool {
	return s < speciesCount
}

// Parse looks up a species by its display name.
func Parse(name string) (Species, error) {
	for _, s := range All() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown species %q", name)
}

// GerminationNeeds are thresholds a seed's stock must meet to germinate.
// They are checked, not consumed.
type GerminationNeeds struct {
	Water uint32
	Soil  uint32
}

// Needs is a cumulative requirement depleted over many ticks.
// Used for both the growing and the fruiting stage.
type Needs struct {
	Water uint32
	Soil  uint32
	Light float32
	Time  float32
}

// Depleted reports whether every need has been satisfied.
func (n Needs) Depleted() bool {
	return n.Time <= 0 && n.Light <= 0 && n.Water == 0 && n.Soil == 0
}

// Endowment is the stock and timer a freshly spawned organism starts with.
type Endowment struct {
	Water            uint32
	Soil             uint32
	GerminationTimer float32
}

// GerminationNeeds returns the germination thresholds for s.
func (s Species) GerminationNeeds() GerminationNeeds {
	switch s {
	case Apple:
		return GerminationNeeds{Water: 1, Soil: 1}
	case Wheat:
		return GerminationNeeds{Water: 1, Soil: 1}
	default:
		return GerminationNeeds{}
	}
}

// GrowingNeeds returns the cumulative needs to go from sprout to mature.
func (s Species) GrowingNeeds() Needs {
	switch s {
	case Apple:
		return Needs{Water: 50, Soil: 50, Light: 100, Time: 100}
	case Wheat:
		return Needs{Water: 10, Soil: 10, Light: 10, Time: 10}
	default:
		return Needs{}
	}
}

// FruitingNeeds returns the cumulative needs between pollination and fruit.
func (s Species) FruitingNeeds() Needs {
	switch s {
	case Apple:
		return Needs{Water: 20, Soil: 20, Light: 40, Time: 40}
	case Wheat:
		return Needs{Water: 5, Soil: 5, Light: 5, Time: 5}
	default:
		return Needs{}
	}
}

// InitialEndowment returns the spawn-time stock for s.
func (s Species) InitialEndowment() Endowment {
	switch s {
	case Apple:
		return Endowment{Water: 1, Soil: 1, GerminationTimer: 5}
	case Wheat:
		return Endowment{Water: 1, Soil: 1, GerminationTimer: 3}
	default:
		return Endowment{}
	}
}

// SeedsPerGeneration is the seed yield credited to the owner per fruiting.
func (s Species) SeedsPerGeneration() uint64 {
	switch s {
	case Apple:
		return 15
	case Wheat:
		return 4
	default:
		return 0
	}
}

// SpreadPerFruiting is how many offspring a fruiting event tries to place.
func (s Species) SpreadPerFruiting() int {
	switch s {
	case Apple:
		return 1
	case Wheat:
		return 2
	default:
		return 0
	}
}

// SpreadDistance is the search radius, in blocks, for offspring placement.
func (s Species) SpreadDistance() int32 {
	switch s {
	case Apple:
		return 12
	case Wheat:
		return 4
	default:
		return 0
	}
}

// FoodValue is the food credited to the owner per fruiting.
func (s Species) FoodValue() uint64 {
	switch s {
	case Apple:
		return 10
	case Wheat:
		return 2
	default:
		return 0
	}
}

// WildOrganismsPerChunk is the wild population density used at world seeding.
func (s Species) WildOrganismsPerChunk() int {
	switch s {
	case Apple:
		return 1
	case Wheat:
		return 10
	default:
		return 0
	}
}

// MinGenerations is the lower bound of the viable fruiting count.
func (s Species) MinGenerations() uint32 {
	switch s {
	case Apple:
		return 10
	case Wheat:
		return 1
	default:
		return 0
	}
}

// MaxGenerations is the upper bound of the viable fruiting count.
func (s Species) MaxGenerations() uint32 {
	switch s {
	case Apple:
		return 200
	case Wheat:
		return 3
	default:
		return 0
	}
}

// Lifespan is the generation count past which a fruiting organism dies:
// the integer mean of MinGenerations and MaxGenerations.
func (s Species) Lifespan() uint32 {
	return (s.MinGenerations() + s.MaxGenerations()) / 2
}

// DecayTime is how long, in seconds, a dead organism lingers before removal.
func (s Species) DecayTime() float32 {
	switch s {
	case Apple:
		return 200
	case Wheat:
		return 20
	default:
		return 0
	}
}
