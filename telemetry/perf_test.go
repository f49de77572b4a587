package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestPerfCollector_PhaseBreakdown(t *testing.T) {
	pc := NewPerfCollector(10)
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Millisecond}
	pc.now = clock.now

	for i := 0; i < 5; i++ {
		pc.StartTick()                 // t0
		pc.StartPhase(PhaseIrrigation) // +1ms
		pc.StartPhase(PhaseLifecycle)  // +1ms
		pc.EndTick()                   // +1ms
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 3*time.Millisecond {
		t.Errorf("avg tick = %v, want 3ms", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseIrrigation] != time.Millisecond {
		t.Errorf("irrigation avg = %v, want 1ms", stats.PhaseAvg[PhaseIrrigation])
	}
	if stats.PhaseAvg[PhaseLifecycle] != time.Millisecond {
		t.Errorf("lifecycle avg = %v, want 1ms", stats.PhaseAvg[PhaseLifecycle])
	}
	if _, ok := stats.PhaseAvg[PhaseLedger]; ok {
		t.Error("ledger phase never ran")
	}
	if pct := stats.PhasePct[PhaseLifecycle]; pct < 33 || pct > 34 {
		t.Errorf("lifecycle pct = %v, want ~33.3", pct)
	}
	if stats.TicksPerSecond < 333 || stats.TicksPerSecond > 334 {
		t.Errorf("ticks/sec = %v, want ~333", stats.TicksPerSecond)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Microsecond}
	pc.now = clock.now

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseLifecycle)
		pc.EndTick()
	}
	if pc.sampleCount != 5 {
		t.Errorf("sampleCount = %d, want 5", pc.sampleCount)
	}

	stats := pc.Stats()
	if stats.MinTickDuration != stats.MaxTickDuration {
		t.Errorf("uniform ticks should have min == max, got %v/%v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Error("expected zero stats for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected initialized maps even when empty")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct:        map[string]float64{PhaseLifecycle: 80, PhaseLedger: 5},
	}
	rec := stats.ToCSV(42)
	if rec.WindowEnd != 42 || rec.AvgTickUS != 2000 {
		t.Errorf("record = %+v", rec)
	}
	if rec.LifecyclePct != 80 || rec.LedgerPct != 5 || rec.IrrigationPct != 0 {
		t.Errorf("phase pcts = %+v", rec)
	}
}
