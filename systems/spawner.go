package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/voxel"
)

// Spawner creates organisms. It does not check whether pos is occupied;
// callers that care must check growability first.
type Spawner struct {
	mapper   *ecs.Map3[components.Position, components.Plant, components.Resources]
	ownerMap *ecs.Map[components.OwnedBy]
	vox      voxel.World

	spawned int
}

// NewSpawner creates a spawner writing into w and painting into vox.
func NewSpawner(w *ecs.World, vox voxel.World) *Spawner {
	return &Spawner{
		mapper:   ecs.NewMap3[components.Position, components.Plant, components.Resources](w),
		ownerMap: ecs.NewMap[components.OwnedBy](w),
		vox:      vox,
	}
}

// SpawnOrganism creates an organism of sp in phase at pos with the species
// endowment, optionally owned, and paints its block.
func (s *Spawner) SpawnOrganism(sp species.Species, phase components.LifePhase, pos voxel.IVec3, owner *ecs.Entity) ecs.Entity {
	endow := sp.InitialEndowment()

	p := components.PositionOf(pos)
	plant := components.Plant{
		Species:          sp,
		Phase:            phase,
		GerminationTimer: endow.GerminationTimer,
	}
	switch phase {
	case components.PhaseGrowing:
		plant.Needs = sp.GrowingNeeds()
	case components.PhasePollinated:
		plant.Needs = sp.FruitingNeeds()
	case components.PhaseDeath:
		plant.DecayTimer = sp.DecayTime()
	}
	stock := components.Resources{Water: endow.Water, Soil: endow.Soil}

	e := s.mapper.NewEntity(&p, &plant, &stock)
	if owner != nil {
		s.ownerMap.Add(e, &components.OwnedBy{Owner: *owner})
	}

	s.vox.SetVoxel(pos, voxel.SolidOf(components.BlockFor(sp, phase)))
	s.spawned++
	return e
}

// Spawned returns the number of organisms created so far.
func (s *Spawner) Spawned() int {
	return s.spawned
}

// WildSite is the sampling area for one chunk column.
type WildSite struct {
	Origin voxel.IVec3
	Radius int32
}

// SeedWild scatters unowned seeds over sites, WildOrganismsPerChunk per
// species per site. Sites without enough growable surface get fewer.
func (s *Spawner) SeedWild(sites []WildSite, attemptsPerSample int) int {
	total := 0
	for _, site := range sites {
		for _, sp := range species.All() {
			n := sp.WildOrganismsPerChunk()
			attempts := 0
			if attemptsPerSample > 0 {
				attempts = n * attemptsPerSample
			}
			for _, surf := range voxel.SampleSurfaces(s.vox, site.Origin, site.Radius, n, attempts) {
				pos, ok := voxel.GrowableAbove(s.vox, surf.Pos)
				if !ok {
					continue
				}
				s.SpawnOrganism(sp, components.PhaseSeed, pos, nil)
				total++
			}
		}
	}
	return total
}
