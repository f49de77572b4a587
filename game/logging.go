package game

import "log/slog"

// LogSummary logs population, per-system timing and every player's inventory.
func (g *Game) LogSummary() {
	pop := g.Population()
	slog.Info("world_state",
		"tick", g.tick,
		"organisms", pop.Total(),
		"owned", pop.Owned,
		"voxel_chunks", len(g.vox.LoadedChunkKeys()),
	)
	perf := g.perfCollector.Stats()
	for _, info := range g.registry.All() {
		slog.Info("system_time",
			"system", info.Name,
			"avg_us", perf.PhaseAvg[info.ID].Microseconds(),
			"pct", float64(int(perf.PhasePct[info.ID]*10))/10,
		)
	}
	for _, p := range g.players {
		inv := g.ledger.Inventory(p.entity)
		if inv == nil {
			slog.Info("inventory", "player", p.name, "resources", "{}", "total", 0)
			continue
		}
		slog.Info("inventory", "player", p.name, "resources", inv.Resources.String(), "total", inv.Resources.Total())
	}
}
