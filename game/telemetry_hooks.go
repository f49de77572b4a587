package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/systems"
	"github.com/pthm-cable/voxfarm/telemetry"
	"github.com/pthm-cable/voxfarm/voxel"
)

func posOf(v voxel.IVec3) [3]int32 {
	return [3]int32{v.X, v.Y, v.Z}
}

// onTransition is called by the lifecycle system for every phase change.
func (g *Game) onTransition(ev systems.TransitionEvent) {
	if ev.Removed {
		g.collector.RecordDespawn()
		slog.Debug("organism_despawned", "species", ev.Species.String(), "pos", ev.Pos.String(), "gen", ev.Generation)
	} else {
		g.collector.RecordTransition(ev.To)
	}

	if g.events == nil {
		return
	}
	rec := telemetry.Event{
		Tick:       g.tick,
		Type:       telemetry.EventTransition,
		Species:    ev.Species.String(),
		From:       ev.From.String(),
		To:         ev.To.String(),
		Pos:        posOf(ev.Pos),
		Generation: ev.Generation,
		Owned:      ev.Owned,
	}
	if ev.Removed {
		rec.Type = telemetry.EventDespawn
		rec.To = ""
	}
	g.writeEvent(rec)
}

// onPlanted is called by the planting system for every seed it places.
func (g *Game) onPlanted(player, _ ecs.Entity, pos voxel.IVec3, sp species.Species) {
	if g.events == nil {
		return
	}
	g.writeEvent(telemetry.Event{
		Tick:    g.tick,
		Type:    telemetry.EventPlanted,
		Species: sp.String(),
		Pos:     posOf(pos),
		Owned:   true,
		Player:  g.names[player],
	})
}

// recordCredits fans the ledger's credits out to every telemetry sink.
func (g *Game) recordCredits(credits []systems.Credit) {
	for _, c := range credits {
		name := g.names[c.Owner]
		g.collector.RecordCredit(c.Resources)
		slog.Debug("ledger_flush", "player", name, "credit", c.Resources.String())

		if g.output == nil && g.harvest == nil && g.events == nil {
			continue
		}
		records := telemetry.CreditRecords(g.tick, name, c.Resources)
		if err := g.output.WriteCredits(records); err != nil {
			slog.Error("failed to write credits", "error", err)
		}
		g.harvest.WriteCredits(records)

		if g.events != nil {
			res := make(map[string]uint64, len(c.Resources))
			for k, v := range c.Resources {
				res[k.String()] = v
			}
			g.writeEvent(telemetry.Event{
				Tick:      g.tick,
				Type:      telemetry.EventCredit,
				Player:    name,
				Resources: res,
			})
		}
	}
}

func (g *Game) writeEvent(ev telemetry.Event) {
	if err := g.events.Write(ev); err != nil {
		slog.Error("failed to write event", "error", err, "type", ev.Type)
	}
}

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.Population())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
