package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/voxel"
)

func TestPlantingOnGrowableSpot(t *testing.T) {
	h := newHarness(t)
	planting := NewPlantingSystem(h.world, h.vox, h.spawner)
	player := h.newPlayer("p")
	pos := voxel.IVec3{X: 4, Y: h.surfaceY, Z: 4}

	planting.Request(player, pos, species.Wheat)
	report := planting.Update()

	if report.Requests != 1 || report.Planted != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := h.vox.Voxel(pos); got != voxel.SolidOf(voxel.SeedPlanted) {
		t.Errorf("voxel = %v, want seed_planted", got)
	}

	owned := ecs.NewFilter2[components.Plant, components.OwnedBy](h.world)
	query := owned.Query()
	found := 0
	for query.Next() {
		plant, o := query.Get()
		if plant.Phase != components.PhaseSeed || plant.Species != species.Wheat || o.Owner != player {
			t.Errorf("unexpected organism %+v owned by %v", plant, o.Owner)
		}
		found++
	}
	if found != 1 {
		t.Errorf("owned organisms = %d, want 1", found)
	}
}

func TestPlantingRejectsBadSpots(t *testing.T) {
	h := newHarness(t)
	planting := NewPlantingSystem(h.world, h.vox, h.spawner)
	player := h.newPlayer("p")

	taken := voxel.IVec3{X: 1, Y: h.surfaceY, Z: 1}
	h.spawner.SpawnOrganism(species.Apple, components.PhaseMature, taken, nil)

	planting.Request(player, voxel.IVec3{X: 2, Y: h.surfaceY + 3, Z: 2}, species.Wheat) // floating
	planting.Request(player, voxel.IVec3{X: 2, Y: h.surfaceY - 1, Z: 2}, species.Wheat) // inside ground
	planting.Request(player, taken, species.Wheat)                                      // occupied
	planting.Request(player, voxel.IVec3{X: 900, Y: h.surfaceY, Z: 0}, species.Wheat)  // outside region

	report := planting.Update()
	if report.Requests != 4 || report.Planted != 0 {
		t.Errorf("report = %+v, want 4 requests and nothing planted", report)
	}
	if h.spawner.Spawned() != 1 {
		t.Errorf("spawned = %d, want only the pre-placed apple", h.spawner.Spawned())
	}

	// Requests are consumed either way.
	if again := planting.Update(); again.Requests != 0 {
		t.Errorf("requests left after update: %d", again.Requests)
	}
}

func TestIrrigationRefillsAndCaps(t *testing.T) {
	h := newHarness(t)
	irrigation := NewIrrigationSystem(h.world)
	irrigation.waterPerTick = 3
	irrigation.soilPerTick = 1
	irrigation.maxWater = 5
	irrigation.maxSoil = 5

	e := h.spawner.SpawnOrganism(species.Wheat, components.PhaseGrowing, voxel.IVec3{Y: h.surfaceY}, nil)
	start := *h.stocks.Get(e)

	if n := irrigation.Update(); n != 1 {
		t.Fatalf("touched %d organisms, want 1", n)
	}
	stock := h.stocks.Get(e)
	if stock.Water != min(start.Water+3, 5) || stock.Soil != start.Soil+1 {
		t.Errorf("stock = %+v after one tick from %+v", *stock, start)
	}

	for i := 0; i < 10; i++ {
		irrigation.Update()
	}
	if stock := h.stocks.Get(e); stock.Water != 5 || stock.Soil != 5 {
		t.Errorf("stock = %+v, want capped at 5/5", *stock)
	}

	irrigation.enabled = false
	if n := irrigation.Update(); n != 0 {
		t.Errorf("disabled irrigation touched %d organisms", n)
	}
}

func TestRefillSaturates(t *testing.T) {
	tests := []struct{ v, add, limit, want uint32 }{
		{0, 1, 5, 1},
		{4, 3, 5, 5},
		{7, 1, 5, 7},
		{0, ^uint32(0), 10, 10},
	}
	for _, tt := range tests {
		if got := refill(tt.v, tt.add, tt.limit); got != tt.want {
			t.Errorf("refill(%d,%d,%d) = %d, want %d", tt.v, tt.add, tt.limit, got, tt.want)
		}
	}
}

func TestSpawnerEndowment(t *testing.T) {
	h := newHarness(t)
	for _, sp := range species.All() {
		e := h.spawner.SpawnOrganism(sp, components.PhaseSeed, voxel.IVec3{X: int32(sp), Y: h.surfaceY}, nil)
		endow := sp.InitialEndowment()
		plant := h.plants.Get(e)
		stock := h.stocks.Get(e)
		if plant.GerminationTimer != endow.GerminationTimer {
			t.Errorf("%v germination timer = %v, want %v", sp, plant.GerminationTimer, endow.GerminationTimer)
		}
		if stock.Water != endow.Water || stock.Soil != endow.Soil {
			t.Errorf("%v stock = %+v, want %+v", sp, *stock, endow)
		}
	}
}

func TestSeedWild(t *testing.T) {
	h := newHarness(t)
	sites := []WildSite{
		{Origin: voxel.IVec3{X: 8, Y: 8, Z: 8}, Radius: 7},
		{Origin: voxel.IVec3{X: -8, Y: 8, Z: 8}, Radius: 7},
	}

	n := h.spawner.SeedWild(sites, 16)

	perSite := 0
	for _, sp := range species.All() {
		perSite += sp.WildOrganismsPerChunk()
	}
	if n == 0 || n > len(sites)*perSite {
		t.Fatalf("seeded %d, want 1..%d", n, len(sites)*perSite)
	}

	filter := ecs.NewFilter2[components.Position, components.Plant](h.world)
	owners := ecs.NewMap[components.OwnedBy](h.world)
	var seeded []ecs.Entity
	query := filter.Query()
	for query.Next() {
		pos, plant := query.Get()
		if plant.Phase != components.PhaseSeed {
			t.Errorf("wild organism in phase %v", plant.Phase)
		}
		if got := h.vox.Voxel(pos.Vec()); got != voxel.SolidOf(voxel.SeedPlanted) {
			t.Errorf("voxel at %v = %v, want seed_planted", pos.Vec(), got)
		}
		seeded = append(seeded, query.Entity())
	}
	for _, e := range seeded {
		if owners.Has(e) {
			t.Error("wild organisms must be unowned")
		}
	}
	if len(seeded) != n {
		t.Errorf("found %d organisms, SeedWild reported %d", len(seeded), n)
	}
}
