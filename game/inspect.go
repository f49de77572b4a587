package game

import (
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/inspector"
	"github.com/pthm-cable/voxfarm/voxel"
)

// Inspect describes the organism at pos as text. Reports false if no
// organism lives there.
func (g *Game) Inspect(pos voxel.IVec3) (string, bool) {
	want := components.PositionOf(pos)
	filter := ecs.NewFilter3[components.Position, components.Plant, components.Resources](g.world)

	var (
		found bool
		e     ecs.Entity
		plant components.Plant
		stock components.Resources
	)
	query := filter.Query()
	for query.Next() {
		p, pl, st := query.Get()
		if !found && *p == want {
			found, e, plant, stock = true, query.Entity(), *pl, *st
		}
	}
	if !found {
		return "", false
	}

	owner := "wild"
	if g.ownerMap.Has(e) {
		if name, ok := g.names[g.ownerMap.Get(e).Owner]; ok {
			owner = name
		}
	}

	cfg := config.Cfg()
	limits := inspector.Limits{
		"Water": float32(cfg.Irrigation.MaxWater),
		"Soil":  float32(cfg.Irrigation.MaxSoil),
	}

	var b strings.Builder
	b.WriteString("Organism at " + pos.String() + " (" + owner + ")\n")
	inspector.Render(&b, limits,
		inspector.Describe("Plant", &plant),
		inspector.Describe("Resources", &stock),
	)
	return b.String(), true
}
