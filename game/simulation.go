package game

import "github.com/pthm-cable/voxfarm/telemetry"

// step runs one tick. Order: irrigation, planting, lifecycle, ledger flush,
// telemetry. The ledger flush is the only place inventories change.
func (g *Game) step() {
	g.tick++
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseIrrigation)
	g.irrigation.Update()

	g.perfCollector.StartPhase(telemetry.PhasePlanting)
	planted := g.planting.Update()
	g.collector.RecordPlanted(planted.Planted)

	g.perfCollector.StartPhase(telemetry.PhaseLifecycle)
	report := g.lifecycle.Update()
	g.collector.RecordHarvest(report.Harvests, report.Spread)

	g.perfCollector.StartPhase(telemetry.PhaseLedger)
	g.recordCredits(g.ledger.Flush())

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}
