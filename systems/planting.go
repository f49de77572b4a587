package systems

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/voxel"
)

// PlantingSystem turns PlantRequest entities into owned seeds.
type PlantingSystem struct {
	world      *ecs.World
	filter     ecs.Filter1[components.PlantRequest]
	requestMap *ecs.Map[components.PlantRequest]
	vox        voxel.World
	spawner    *Spawner

	requests []plantRequest

	// OnPlanted, when set, is called for every seed planted.
	OnPlanted func(player ecs.Entity, seed ecs.Entity, pos voxel.IVec3, sp species.Species)
}

type plantRequest struct {
	entity ecs.Entity
	req    components.PlantRequest
}

// PlantingReport summarizes one planting pass.
type PlantingReport struct {
	Requests int
	Planted  int
}

// NewPlantingSystem creates a planting system.
func NewPlantingSystem(w *ecs.World, vox voxel.World, spawner *Spawner) *PlantingSystem {
	return &PlantingSystem{
		world:      w,
		filter:     *ecs.NewFilter1[components.PlantRequest](w),
		requestMap: ecs.NewMap[components.PlantRequest](w),
		vox:        vox,
		spawner:    spawner,
	}
}

// Request queues a planting request for player at pos.
func (s *PlantingSystem) Request(player ecs.Entity, pos voxel.IVec3, sp species.Species) ecs.Entity {
	return s.requestMap.NewEntity(&components.PlantRequest{Player: player, Pos: pos, Species: sp})
}

// Update consumes every pending request. Requests whose target is not a
// growable spot are dropped. Requests are always removed.
func (s *PlantingSystem) Update() PlantingReport {
	s.requests = s.requests[:0]
	query := s.filter.Query()
	for query.Next() {
		s.requests = append(s.requests, plantRequest{entity: query.Entity(), req: *query.Get()})
	}

	var report PlantingReport
	for _, r := range s.requests {
		s.world.RemoveEntity(r.entity)
		report.Requests++

		if !voxel.Growable(s.vox, r.req.Pos) {
			slog.Debug("plant_rejected", "pos", r.req.Pos.String(), "species", r.req.Species.String())
			continue
		}
		var owner *ecs.Entity
		if s.world.Alive(r.req.Player) {
			player := r.req.Player
			owner = &player
		}
		seed := s.spawner.SpawnOrganism(r.req.Species, components.PhaseSeed, r.req.Pos, owner)
		report.Planted++
		if s.OnPlanted != nil {
			s.OnPlanted(r.req.Player, seed, r.req.Pos, r.req.Species)
		}
	}
	return report
}
