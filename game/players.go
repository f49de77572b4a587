package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/voxel"
)

// playerSpacing separates player home plots along the X axis.
const playerSpacing = 3

// createPlayers creates player entities and queues their opening plantings.
// Player i farms around (i * playerSpacing * spread, ground, 0).
func (g *Game) createPlayers(players []config.PlayerConfig) error {
	gen := g.vox.Gen()
	for i, pc := range players {
		if pc.Name == "" {
			return fmt.Errorf("player %d has no name", i)
		}
		if _, dup := g.player(pc.Name); dup {
			return fmt.Errorf("duplicate player %q", pc.Name)
		}

		plants := make([]species.Species, 0, len(pc.Plant))
		for _, name := range pc.Plant {
			sp, err := species.Parse(name)
			if err != nil {
				return fmt.Errorf("player %q: %w", pc.Name, err)
			}
			plants = append(plants, sp)
		}

		e := g.playerMap.NewEntity(&components.Player{Name: pc.Name})
		g.players = append(g.players, playerRef{name: pc.Name, entity: e})
		g.names[e] = pc.Name

		spread := max(pc.Spread, 1)
		home := voxel.IVec3{
			X: int32(i) * playerSpacing * spread,
			Y: gen.GroundLevel + gen.Variation,
			Z: 0,
		}
		surfaces := voxel.SampleSurfaces(g.vox, home, spread, len(plants), 0)
		queued := 0
		for j, surf := range surfaces {
			pos, ok := voxel.GrowableAbove(g.vox, surf.Pos)
			if !ok {
				continue
			}
			g.planting.Request(e, pos, plants[j])
			queued++
		}
		slog.Info("player_created", "player", pc.Name, "home", home.String(), "plantings", queued)
	}
	return nil
}

func (g *Game) player(name string) (playerRef, bool) {
	for _, p := range g.players {
		if p.name == name {
			return p, true
		}
	}
	return playerRef{}, false
}
