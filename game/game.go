// Package game wires the farming systems into a single tick loop.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/systems"
	"github.com/pthm-cable/voxfarm/telemetry"
	"github.com/pthm-cable/voxfarm/voxel"
)

// Options configures a Game.
type Options struct {
	Seed          int64  // World seed (0 = config world.seed)
	MaxTicks      int    // Stop after N ticks (0 = config simulation.max_ticks)
	OutputDir     string // CSV, event log and harvest index (empty = disabled)
	RunID         string // Stamped on harvest rows (empty = random)
	LogStats      bool   // Log window stats via slog
	StatsCallback func(telemetry.WindowStats)
}

// playerRef is a player entity and its display name.
type playerRef struct {
	name   string
	entity ecs.Entity
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	vox   *voxel.ChunkStore

	// Systems, in tick order
	irrigation *systems.IrrigationSystem
	planting   *systems.PlantingSystem
	lifecycle  *systems.LifecycleSystem
	ledger     *systems.Ledger
	spawner    *systems.Spawner
	registry   *systems.SystemRegistry

	playerMap  *ecs.Map[components.Player]
	ownerMap   *ecs.Map[components.OwnedBy]
	plantQuery ecs.Filter2[components.Plant, components.Resources]
	players    []playerRef
	names      map[ecs.Entity]string

	// State
	tick     int32
	paused   bool
	maxTicks int
	seed     int64
	runID    string

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	output        *telemetry.OutputManager
	events        *telemetry.EventLog
	harvest       *telemetry.HarvestIndex
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewGame creates a game from the global config. config.Init must have run.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}
	maxTicks := opts.MaxTicks
	if maxTicks == 0 {
		maxTicks = cfg.Simulation.MaxTicks
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	world := ecs.NewWorld()
	vox := voxel.NewChunkStore(voxel.WorldGen{
		Seed:        seed,
		RadiusChunk: cfg.World.RadiusChunks,
		MinY:        cfg.World.MinY,
		MaxY:        cfg.World.MaxY,
		GroundLevel: cfg.World.GroundLevel,
		Variation:   cfg.World.Variation,
	})

	g := &Game{
		world:         world,
		vox:           vox,
		registry:      systems.NewSystemRegistry(),
		playerMap:     ecs.NewMap[components.Player](world),
		ownerMap:      ecs.NewMap[components.OwnedBy](world),
		plantQuery:    *ecs.NewFilter2[components.Plant, components.Resources](world),
		names:         make(map[ecs.Entity]string),
		maxTicks:      maxTicks,
		seed:          seed,
		runID:         runID,
		collector:     telemetry.NewCollector(cfg.Derived.StatsTicks, cfg.Derived.DT32),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	g.spawner = systems.NewSpawner(world, vox)
	g.ledger = systems.NewLedger(world)
	g.irrigation = systems.NewIrrigationSystem(world)
	g.planting = systems.NewPlantingSystem(world, vox, g.spawner)
	g.lifecycle = systems.NewLifecycleSystem(world, vox, systems.LightFromConfig(cfg, vox, seed), g.ledger, g.spawner)
	g.planting.OnPlanted = g.onPlanted
	g.lifecycle.OnTransition = g.onTransition

	if err := g.openOutputs(opts.OutputDir, cfg); err != nil {
		g.Close()
		return nil, err
	}

	// Wild seeds first so opening plantings only target free spots.
	if cfg.Population.WildSeeding {
		n := g.spawner.SeedWild(g.wildSites(), cfg.Lifecycle.SpreadAttempts)
		slog.Info("world_seeded", "wild", n, "columns", len(vox.ColumnKeys()), "seed", seed)
	}
	if err := g.createPlayers(cfg.Players); err != nil {
		g.Close()
		return nil, err
	}

	return g, nil
}

func (g *Game) openOutputs(dir string, cfg *config.Config) error {
	if dir == "" {
		return nil
	}
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		return err
	}
	g.output = om
	if err := om.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	if cfg.Telemetry.EventLog {
		if g.events, err = telemetry.OpenEventLog(dir); err != nil {
			return err
		}
	}
	if cfg.Telemetry.HarvestDB {
		path := filepath.Join(dir, telemetry.HarvestDBName)
		if g.harvest, err = telemetry.OpenHarvestIndex(path, g.runID, g.seed); err != nil {
			return fmt.Errorf("opening harvest index: %w", err)
		}
	}
	return nil
}

// wildSites returns one sampling site per loaded chunk column.
func (g *Game) wildSites() []systems.WildSite {
	gen := g.vox.Gen()
	keys := g.vox.ColumnKeys()
	sites := make([]systems.WildSite, 0, len(keys))
	for _, k := range keys {
		sites = append(sites, systems.WildSite{
			Origin: voxel.IVec3{
				X: k.CX*voxel.ChunkSize + voxel.ChunkSize/2,
				Y: gen.GroundLevel + gen.Variation,
				Z: k.CZ*voxel.ChunkSize + voxel.ChunkSize/2,
			},
			Radius: voxel.ChunkSize / 2,
		})
	}
	return sites
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// RunID returns the identifier of this run.
func (g *Game) RunID() string {
	return g.runID
}

// World returns the ECS world.
func (g *Game) World() *ecs.World {
	return g.world
}

// Voxels returns the block world.
func (g *Game) Voxels() *voxel.ChunkStore {
	return g.vox
}

// Registry returns the system registry.
func (g *Game) Registry() *systems.SystemRegistry {
	return g.registry
}

// Paused reports whether ticking is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// SetPaused pauses or resumes the simulation.
func (g *Game) SetPaused(paused bool) {
	if g.paused != paused {
		slog.Info("pause", "paused", paused, "tick", g.tick)
	}
	g.paused = paused
}

// Done reports whether the tick limit has been reached.
func (g *Game) Done() bool {
	return g.maxTicks > 0 && int(g.tick) >= g.maxTicks
}

// Update advances one tick unless paused or done. Reports whether it ticked.
func (g *Game) Update() bool {
	if g.paused || g.Done() {
		return false
	}
	g.step()
	return true
}

// Step advances exactly one tick, even while paused.
func (g *Game) Step() {
	g.step()
}

// Plant queues a planting request for the named player. The seed is placed
// on the next tick if pos is still growable.
func (g *Game) Plant(player string, pos voxel.IVec3, sp species.Species) error {
	p, ok := g.player(player)
	if !ok {
		return fmt.Errorf("unknown player %q", player)
	}
	if !sp.Valid() {
		return fmt.Errorf("invalid species %d", sp)
	}
	g.planting.Request(p.entity, pos, sp)
	return nil
}

// Inventory returns a copy of the named player's inventory.
func (g *Game) Inventory(player string) (components.ResourceMap, error) {
	p, ok := g.player(player)
	if !ok {
		return nil, fmt.Errorf("unknown player %q", player)
	}
	inv := g.ledger.Inventory(p.entity)
	if inv == nil {
		return components.ResourceMap{}, nil
	}
	return inv.Resources.Clone(), nil
}

// Players returns player names in creation order.
func (g *Game) Players() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.name
	}
	return names
}

// Population samples every living organism.
func (g *Game) Population() telemetry.PopulationSample {
	type row struct {
		entity ecs.Entity
		plant  components.Plant
		stock  components.Resources
	}
	var rows []row
	query := g.plantQuery.Query()
	for query.Next() {
		plant, stock := query.Get()
		rows = append(rows, row{entity: query.Entity(), plant: *plant, stock: *stock})
	}

	pop := telemetry.NewPopulationSample(len(rows))
	for i := range rows {
		r := &rows[i]
		pop.Add(&r.plant, &r.stock, g.ownerMap.Has(r.entity))
	}
	return pop
}

// Close stops workers and closes every output. Safe to call more than once.
func (g *Game) Close() error {
	if g.lifecycle != nil {
		g.lifecycle.Close()
	}
	var errs []error
	if g.events != nil {
		errs = append(errs, g.events.Close())
		g.events = nil
	}
	if g.harvest != nil {
		errs = append(errs, g.harvest.Close())
		g.harvest = nil
	}
	if g.output != nil {
		errs = append(errs, g.output.Close())
		g.output = nil
	}
	return errors.Join(errs...)
}
