// Package components defines ECS components for the farming simulation.
package components

import (
	"fmt"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/voxel"
)

// ResourceKind distinguishes the harvestable outputs of a species.
type ResourceKind uint8

const (
	KindFoodValue ResourceKind = iota
	KindSeeds
)

func (k ResourceKind) String() string {
	switch k {
	case KindFoodValue:
		return "food"
	case KindSeeds:
		return "seeds"
	}
	return "unknown"
}

// FarmResource keys a resource mapping. Comparable, so usable as a map key.
type FarmResource struct {
	Kind    ResourceKind
	Species species.Species
}

// FoodValue returns the food resource key for s.
func FoodValue(s species.Species) FarmResource {
	return FarmResource{Kind: KindFoodValue, Species: s}
}

// Seeds returns the seed resource key for s.
func Seeds(s species.Species) FarmResource {
	return FarmResource{Kind: KindSeeds, Species: s}
}

func (r FarmResource) String() string {
	return r.Kind.String() + ":" + r.Species.String()
}

// ResourceMap is a quantity per resource.
type ResourceMap map[FarmResource]uint64

// Merge adds every quantity in other into m.
func (m ResourceMap) Merge(other ResourceMap) {
	for k, v := range other {
		m[k] += v
	}
}

// Clone returns an independent copy of m.
func (m ResourceMap) Clone() ResourceMap {
	out := make(ResourceMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Total sums all quantities.
func (m ResourceMap) Total() uint64 {
	var n uint64
	for _, v := range m {
		n += v
	}
	return n
}

// Keys returns the keys sorted by species then kind.
func (m ResourceMap) Keys() []FarmResource {
	keys := make([]FarmResource, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Species != keys[j].Species {
			return keys[i].Species < keys[j].Species
		}
		return keys[i].Kind < keys[j].Kind
	})
	return keys
}

func (m ResourceMap) String() string {
	s := "{"
	for i, k := range m.Keys() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%d", k, m[k])
	}
	return s + "}"
}

// Player marks a player entity.
type Player struct {
	Name string `inspect:"label"`
}

// PlayerInventory holds a player's accumulated harvest.
// Only the resource ledger writes to it.
type PlayerInventory struct {
	Resources ResourceMap
}

// CollectResource is a pending harvest credit for Owner.
// Lives on its own entity until the next ledger flush.
type CollectResource struct {
	Owner     ecs.Entity
	Resources ResourceMap
}

// PlantRequest asks for a seed to be planted at Pos on behalf of Player.
type PlantRequest struct {
	Player  ecs.Entity
	Pos     voxel.IVec3
	Species species.Species
}

// BlockFor returns the block painted for an organism of s in phase p.
func BlockFor(s species.Species, p LifePhase) voxel.BlockType {
	if p == PhaseSeed {
		return voxel.SeedPlanted
	}
	switch s {
	case species.Wheat:
		switch p {
		case PhaseGerminated, PhaseGrowing:
			return voxel.WheatSprouts
		case PhaseMature:
			return voxel.Wheat
		case PhasePollinated:
			return voxel.WheatFlowering
		case PhaseFruiting:
			return voxel.WheatRipe
		case PhaseDeath:
			return voxel.DeadWheat
		}
	case species.Apple:
		switch p {
		case PhaseGerminated, PhaseGrowing:
			return voxel.AppleSapling
		case PhaseMature:
			return voxel.AppleTree
		case PhasePollinated:
			return voxel.AppleTreeBlossom
		case PhaseFruiting:
			return voxel.AppleTreeWithApples
		case PhaseDeath:
			return voxel.DeadTree
		}
	}
	return voxel.Nothing
}
