package systems

import (
	"math"
	"runtime"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/voxel"
)

// defaultParallelThreshold is used when the config leaves it unset.
// Below this, single-threaded is faster due to goroutine overhead.
const defaultParallelThreshold = 2048

// LightSampler reports the light available to an organism at pos.
type LightSampler interface {
	LightAt(pos voxel.IVec3) float32
}

// ConstantLight is uniform light everywhere.
type ConstantLight float32

// LightAt implements LightSampler.
func (c ConstantLight) LightAt(voxel.IVec3) float32 {
	return float32(c)
}

// Params are the per-tick inputs of Advance.
type Params struct {
	DT          float32 // seconds elapsed this tick
	MinLight    float32 // growth stalls at or below this light
	MaturityAge float32 // Mature waits this long before pollinating
}

// ParamsFromConfig reads Params from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		DT:          cfg.Derived.DT32,
		MinLight:    cfg.Derived.MinLight32,
		MaturityAge: cfg.Derived.MaturityAge32,
	}
}

// Outcome describes what one Advance call did.
type Outcome struct {
	From    components.LifePhase
	Repaint bool // phase changed, voxel needs the new block
	Fruited bool // fruiting resolved: harvest and spread are due
	Despawn bool // decay finished
}

// Advance applies one tick of the lifecycle state machine to a single
// organism. It touches nothing but plant and stock, so it is safe to call
// from worker goroutines. At most one transition happens per call.
func Advance(plant *components.Plant, stock *components.Resources, light float32, p Params) Outcome {
	out := Outcome{From: plant.Phase}
	sp := plant.Species

	switch plant.Phase {
	case components.PhaseSeed:
		plant.GerminationTimer -= p.DT
		need := sp.GerminationNeeds()
		if plant.GerminationTimer <= 0 && stock.Water >= need.Water && stock.Soil >= need.Soil {
			plant.GerminationTimer = 0
			plant.Phase = components.PhaseGerminated
		}

	case components.PhaseGerminated:
		plant.GerminationTimer -= p.DT
		if plant.GerminationTimer <= 0 {
			plant.Phase = components.PhaseGrowing
			plant.Needs = sp.GrowingNeeds()
		}

	case components.PhaseGrowing:
		if plant.Needs.Depleted() {
			plant.Phase = components.PhaseMature
			plant.Needs = species.Needs{}
			plant.MaturityTimer = p.MaturityAge
		} else {
			deplete(&plant.Needs, stock, light, p)
		}

	case components.PhaseMature:
		plant.MaturityTimer -= p.DT
		if plant.MaturityTimer <= 0 {
			plant.Phase = components.PhasePollinated
			plant.Needs = sp.FruitingNeeds()
		}

	case components.PhasePollinated:
		if plant.Needs.Depleted() {
			plant.Phase = components.PhaseFruiting
			plant.Needs = species.Needs{}
			plant.Generation++
		} else {
			deplete(&plant.Needs, stock, light, p)
		}

	case components.PhaseFruiting:
		out.Fruited = true
		if plant.Generation > sp.Lifespan() {
			plant.Phase = components.PhaseDeath
			plant.DecayTimer = sp.DecayTime()
		} else {
			plant.Phase = components.PhaseMature
			plant.MaturityTimer = p.MaturityAge
		}

	case components.PhaseDeath:
		plant.DecayTimer -= p.DT
		if plant.DecayTimer <= 0 {
			out.Despawn = true
		}
	}

	out.Repaint = plant.Phase != out.From
	return out
}

// deplete draws one tick of growth from stock into needs. Returns false when
// the organism stalls for lack of water, soil or light.
func deplete(needs *species.Needs, stock *components.Resources, light float32, p Params) bool {
	if stock.Water == 0 || stock.Soil == 0 || light <= p.MinLight {
		return false
	}

	lightUnits := uint32(math.MaxUint32)
	if l := math.Ceil(float64(light)); l < math.MaxUint32 {
		lightUnits = uint32(l)
	}
	growth := min(stock.Water, stock.Soil, lightUnits)

	// Saturating: never take more than is still needed.
	w := min(growth, needs.Water)
	needs.Water -= w
	stock.Water -= w

	s := min(growth, needs.Soil)
	needs.Soil -= s
	stock.Soil -= s

	if needs.Time > 0 {
		needs.Time = max(needs.Time-p.DT, 0)
	}
	if needs.Light > 0 {
		needs.Light = max(needs.Light-light*p.DT, 0)
	}
	return true
}

// TransitionEvent is reported for every phase change.
type TransitionEvent struct {
	Entity     ecs.Entity
	Species    species.Species
	From, To   components.LifePhase
	Pos        voxel.IVec3
	Generation uint32
	Owned      bool
	Removed    bool // decay finished and the organism was despawned
}

// LifecycleReport summarizes one lifecycle pass.
type LifecycleReport struct {
	Organisms   int
	Transitions int
	Harvests    int // fruiting resolutions
	Credited    int // harvests that queued a collect event
	Spread      int // seeds spawned by fruiting
	Deaths      int
	Despawned   int
}

// organismSnapshot captures the state one transition needs.
type organismSnapshot struct {
	Entity   ecs.Entity
	Pos      voxel.IVec3
	Plant    components.Plant
	Stock    components.Resources
	Owner    ecs.Entity
	HasOwner bool
	Light    float32
}

// transitionResult is the computed next state of one snapshot.
type transitionResult struct {
	Plant   components.Plant
	Stock   components.Resources
	Outcome Outcome
}

// LifecycleSystem advances every organism once per tick.
//
// Each Update runs in three phases: snapshot all organisms (single-threaded),
// compute transitions (worker pool above the parallel threshold), then apply
// results in snapshot order. Voxel writes, events, spawns and despawns only
// happen in the apply phase, after the query has closed.
type LifecycleSystem struct {
	world    *ecs.World
	filter   ecs.Filter3[components.Position, components.Plant, components.Resources]
	plantMap *ecs.Map[components.Plant]
	stockMap *ecs.Map[components.Resources]
	ownerMap *ecs.Map[components.OwnedBy]

	vox     voxel.World
	light   LightSampler
	ledger  *Ledger
	spawner *Spawner

	params            Params
	spreadAttempts    int
	parallelThreshold int

	snapshots []organismSnapshot
	results   []transitionResult
	pool      *workerPool

	// OnTransition, when set, is called for every phase change during apply.
	OnTransition func(TransitionEvent)
}

// NewLifecycleSystem creates a lifecycle system using the global config.
func NewLifecycleSystem(w *ecs.World, vox voxel.World, light LightSampler, ledger *Ledger, spawner *Spawner) *LifecycleSystem {
	cfg := config.Cfg()

	threshold := cfg.Lifecycle.ParallelThreshold
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	workers := cfg.Lifecycle.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := &LifecycleSystem{
		world:             w,
		filter:            *ecs.NewFilter3[components.Position, components.Plant, components.Resources](w),
		plantMap:          ecs.NewMap[components.Plant](w),
		stockMap:          ecs.NewMap[components.Resources](w),
		ownerMap:          ecs.NewMap[components.OwnedBy](w),
		vox:               vox,
		light:             light,
		ledger:            ledger,
		spawner:           spawner,
		params:            ParamsFromConfig(cfg),
		spreadAttempts:    cfg.Lifecycle.SpreadAttempts,
		parallelThreshold: threshold,
		snapshots:         make([]organismSnapshot, 0, 512),
		results:           make([]transitionResult, 0, 512),
	}
	s.pool = newWorkerPool(workers, s.computeChunk)
	return s
}

// SetParams overrides the tick parameters, e.g. for a different dt.
func (s *LifecycleSystem) SetParams(p Params) {
	s.params = p
}

// Params returns the tick parameters in use.
func (s *LifecycleSystem) Params() Params {
	return s.params
}

// Update runs one lifecycle pass.
func (s *LifecycleSystem) Update() LifecycleReport {
	// Phase A: snapshot
	s.snapshots = s.snapshots[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, plant, stock := query.Get()
		snap := organismSnapshot{
			Entity: query.Entity(),
			Pos:    pos.Vec(),
			Plant:  *plant,
			Stock:  *stock,
		}
		snap.Light = s.light.LightAt(snap.Pos)
		s.snapshots = append(s.snapshots, snap)
	}

	n := len(s.snapshots)
	report := LifecycleReport{Organisms: n}
	if n == 0 {
		return report
	}

	// Owner lookups after the query has closed.
	for i := range s.snapshots {
		snap := &s.snapshots[i]
		if s.ownerMap.Has(snap.Entity) {
			snap.Owner = s.ownerMap.Get(snap.Entity).Owner
			snap.HasOwner = true
		}
	}

	if cap(s.results) < n {
		s.results = make([]transitionResult, n)
	}
	s.results = s.results[:n]

	// Phase B: compute
	if n < s.parallelThreshold {
		s.computeChunk(0, n)
	} else {
		s.pool.run(n)
	}

	// Phase C: apply
	s.apply(&report)
	return report
}

// computeChunk advances snapshots [i0, i1). Runs on worker goroutines.
func (s *LifecycleSystem) computeChunk(i0, i1 int) {
	for i := i0; i < i1; i++ {
		snap := &s.snapshots[i]
		res := &s.results[i]
		res.Plant = snap.Plant
		res.Stock = snap.Stock
		res.Outcome = Advance(&res.Plant, &res.Stock, snap.Light, s.params)
	}
}

func (s *LifecycleSystem) apply(report *LifecycleReport) {
	for i := range s.snapshots {
		snap := &s.snapshots[i]
		res := &s.results[i]
		out := res.Outcome

		if !s.world.Alive(snap.Entity) {
			continue
		}

		if out.Despawn {
			s.vox.SetVoxel(snap.Pos, voxel.Air)
			s.world.RemoveEntity(snap.Entity)
			report.Despawned++
			s.notify(snap, out.From, &res.Plant, true)
			continue
		}

		*s.plantMap.Get(snap.Entity) = res.Plant
		*s.stockMap.Get(snap.Entity) = res.Stock

		if out.Fruited {
			report.Harvests++
			if s.harvest(snap) {
				report.Credited++
			}
			report.Spread += s.spread(snap)
		}

		if !out.Repaint {
			continue
		}
		report.Transitions++
		if res.Plant.Phase == components.PhaseDeath {
			report.Deaths++
		}
		s.vox.SetVoxel(snap.Pos, voxel.SolidOf(components.BlockFor(res.Plant.Species, res.Plant.Phase)))

		s.notify(snap, out.From, &res.Plant, false)
	}
}

func (s *LifecycleSystem) notify(snap *organismSnapshot, from components.LifePhase, plant *components.Plant, removed bool) {
	if s.OnTransition == nil {
		return
	}
	s.OnTransition(TransitionEvent{
		Entity:     snap.Entity,
		Species:    plant.Species,
		From:       from,
		To:         plant.Phase,
		Pos:        snap.Pos,
		Generation: plant.Generation,
		Owned:      snap.HasOwner,
		Removed:    removed,
	})
}

// harvest queues the collect event for an owned organism.
func (s *LifecycleSystem) harvest(snap *organismSnapshot) bool {
	if !snap.HasOwner {
		return false
	}
	sp := snap.Plant.Species
	s.ledger.Emit(snap.Owner, components.ResourceMap{
		components.Seeds(sp):     sp.SeedsPerGeneration(),
		components.FoodValue(sp): sp.FoodValue(),
	})
	return true
}

// spread plants seeds on distinct growable surfaces near the parent.
// Positions without room are skipped.
func (s *LifecycleSystem) spread(snap *organismSnapshot) int {
	sp := snap.Plant.Species
	n := sp.SpreadPerFruiting()
	if n <= 0 {
		return 0
	}

	attempts := 0
	if s.spreadAttempts > 0 {
		attempts = n * s.spreadAttempts
	}

	var owner *ecs.Entity
	if snap.HasOwner {
		o := snap.Owner
		owner = &o
	}

	spawned := 0
	for _, surf := range voxel.SampleSurfaces(s.vox, snap.Pos, sp.SpreadDistance(), n, attempts) {
		pos, ok := voxel.GrowableAbove(s.vox, surf.Pos)
		if !ok {
			continue
		}
		s.spawner.SpawnOrganism(sp, components.PhaseSeed, pos, owner)
		spawned++
	}
	return spawned
}

// Close stops the worker pool.
func (s *LifecycleSystem) Close() {
	s.pool.stop()
}
