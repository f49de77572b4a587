package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/telemetry"
	"github.com/pthm-cable/voxfarm/voxel"
)

func init() {
	config.MustInit("")
}

// initConfig loads overlay on top of the defaults for the duration of the test.
func initConfig(t *testing.T, overlay string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}
	if err := config.Init(path); err != nil {
		t.Fatalf("loading overlay: %v", err)
	}
	t.Cleanup(func() { config.MustInit("") })
}

const farmOverlay = `
simulation:
  max_ticks: 0
population:
  wild_seeding: false
players:
  - name: alice
    plant: [wheat, wheat]
    spread: 4
telemetry:
  stats_window: 1.0
`

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	g, err := NewGame(opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func TestGameHarvestsWheatForPlayer(t *testing.T) {
	initConfig(t, farmOverlay)
	g := newTestGame(t, Options{})

	g.Step()
	if n := g.Population().Total(); n != 2 {
		t.Fatalf("expected 2 planted seeds after the first tick, got %d", n)
	}
	if owned := g.Population().Owned; owned != 2 {
		t.Errorf("planted seeds should be owned, got %d", owned)
	}

	for i := 0; i < 600; i++ {
		g.Step()
	}

	inv, err := g.Inventory("alice")
	if err != nil {
		t.Fatal(err)
	}
	if inv[components.Seeds(species.Wheat)] < species.Wheat.SeedsPerGeneration() {
		t.Errorf("alice should have harvested wheat seeds, inventory %v", inv)
	}
	if inv[components.FoodValue(species.Wheat)] < species.Wheat.FoodValue() {
		t.Errorf("alice should have harvested wheat food, inventory %v", inv)
	}
	if inv[components.Seeds(species.Apple)] != 0 {
		t.Errorf("alice never planted apples, inventory %v", inv)
	}
}

func TestGamePause(t *testing.T) {
	initConfig(t, farmOverlay)
	g := newTestGame(t, Options{})

	g.SetPaused(true)
	if g.Update() {
		t.Error("Update should not tick while paused")
	}
	if g.Tick() != 0 {
		t.Errorf("tick = %d, want 0", g.Tick())
	}

	g.Step()
	if g.Tick() != 1 {
		t.Errorf("Step should tick while paused, tick = %d", g.Tick())
	}

	g.SetPaused(false)
	if !g.Update() || g.Tick() != 2 {
		t.Errorf("Update after resume: tick = %d, want 2", g.Tick())
	}
}

func TestGameStopsAtMaxTicks(t *testing.T) {
	initConfig(t, farmOverlay)
	g := newTestGame(t, Options{MaxTicks: 5})

	for g.Update() {
	}
	if g.Tick() != 5 || !g.Done() {
		t.Errorf("tick = %d done = %v, want 5/true", g.Tick(), g.Done())
	}
}

func TestGamePlant(t *testing.T) {
	initConfig(t, `
population:
  wild_seeding: false
players:
  - name: bob
    plant: []
`)
	g := newTestGame(t, Options{})

	top := g.Voxels().SurfaceHeight(3, 3)
	pos := voxel.IVec3{X: 3, Y: top + 1, Z: 3}

	if err := g.Plant("nobody", pos, species.Wheat); err == nil {
		t.Error("planting for an unknown player should fail")
	}
	if err := g.Plant("bob", pos, species.Apple); err != nil {
		t.Fatal(err)
	}
	// Second request on the same spot loses: the first seed occupies it.
	if err := g.Plant("bob", pos, species.Wheat); err != nil {
		t.Fatal(err)
	}
	g.Step()

	if n := g.Population().Total(); n != 1 {
		t.Fatalf("expected one organism, got %d", n)
	}
	if got := g.Voxels().Voxel(pos).Block(); got != voxel.SeedPlanted {
		t.Errorf("block at %v = %v, want seed", pos, got)
	}
}

func TestGameInspect(t *testing.T) {
	initConfig(t, `
population:
  wild_seeding: false
players:
  - name: bob
    plant: []
`)
	g := newTestGame(t, Options{})

	top := g.Voxels().SurfaceHeight(2, 5)
	pos := voxel.IVec3{X: 2, Y: top + 1, Z: 5}
	if _, ok := g.Inspect(pos); ok {
		t.Fatal("nothing should be planted yet")
	}
	if err := g.Plant("bob", pos, species.Apple); err != nil {
		t.Fatal(err)
	}
	g.Step()

	out, ok := g.Inspect(pos)
	if !ok {
		t.Fatalf("expected an organism at %v", pos)
	}
	for _, want := range []string{pos.String(), "(bob)", "Species", "apple", "Water", "Soil"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspection missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Needs") {
		t.Error("Needs is tagged skip")
	}
}

func TestGameRejectsBadPlayers(t *testing.T) {
	initConfig(t, `
players:
  - name: carol
    plant: [pumpkin]
`)
	if _, err := NewGame(Options{}); err == nil {
		t.Error("unknown species should fail")
	}

	initConfig(t, `
players:
  - name: dave
  - name: dave
`)
	if _, err := NewGame(Options{}); err == nil {
		t.Error("duplicate player should fail")
	}
}

func TestGameDeterministic(t *testing.T) {
	initConfig(t, `
world:
  radius_chunks: 1
population:
  wild_seeding: true
`)
	run := func() ([32]byte, int) {
		g := newTestGame(t, Options{Seed: 99})
		for i := 0; i < 200; i++ {
			g.Step()
		}
		return g.Voxels().Digest(), g.Population().Total()
	}

	d1, n1 := run()
	d2, n2 := run()
	if d1 != d2 || n1 != n2 {
		t.Errorf("same seed diverged: %d vs %d organisms", n1, n2)
	}
	if n1 == 0 {
		t.Error("wild seeding produced no organisms")
	}
}

func TestGameOutputs(t *testing.T) {
	initConfig(t, farmOverlay)
	dir := t.TempDir()

	var windows int
	g, err := NewGame(Options{
		OutputDir:     dir,
		RunID:         "test-run",
		StatsCallback: func(telemetry.WindowStats) { windows++ },
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 600; i++ {
		g.Step()
	}
	inv, _ := g.Inventory("alice")
	if err := g.Close(); err != nil {
		t.Fatal(err)
	}

	// 20 ticks per one-second window
	if windows != 30 {
		t.Errorf("stats windows = %d, want 30", windows)
	}

	events, err := telemetry.ReadEventLog(filepath.Join(dir, telemetry.EventLogName))
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, ev := range events {
		counts[ev.Type]++
	}
	if counts[telemetry.EventPlanted] != 2 {
		t.Errorf("planted events = %d, want 2", counts[telemetry.EventPlanted])
	}
	if counts[telemetry.EventTransition] == 0 || counts[telemetry.EventCredit] == 0 {
		t.Errorf("event counts = %v", counts)
	}

	totals, err := telemetry.HarvestTotals(context.Background(), filepath.Join(dir, telemetry.HarvestDBName), "test-run")
	if err != nil {
		t.Fatal(err)
	}
	indexed := components.ResourceMap{}
	for _, tot := range totals {
		if tot.Player != "alice" {
			t.Errorf("unexpected player %q", tot.Player)
		}
		sp, err := species.Parse(tot.Species)
		if err != nil {
			t.Fatal(err)
		}
		key := components.Seeds(sp)
		if tot.Kind == components.KindFoodValue.String() {
			key = components.FoodValue(sp)
		}
		indexed[key] += tot.Qty
	}
	if indexed.String() != inv.String() {
		t.Errorf("harvest index %v != inventory %v", indexed, inv)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "credits.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}
