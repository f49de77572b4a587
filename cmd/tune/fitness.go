package main

import (
	"math"

	"github.com/pthm-cable/voxfarm/components"
	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/game"
)

// irrigationCost is the fitness penalty per unit of water or soil added per tick.
const irrigationCost = 0.25

// FitnessEvaluator runs headless games and scores harvest yield.
type FitnessEvaluator struct {
	params     *ParamVector
	configPath string
	maxTicks   int
	seeds      []int64

	lastFood float64 // mean food per run from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, configPath string, maxTicks int, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		configPath: configPath,
		maxTicks:   maxTicks,
		seeds:      seeds,
	}
}

// LastFood returns the mean credited food of the most recent evaluation.
func (fe *FitnessEvaluator) LastFood() float64 {
	return fe.lastFood
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative credited food, plus a penalty for irrigation volume.
// Runs are sequential: the game reads the global config.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := config.Load(fe.configPath)
	if err != nil {
		return math.Inf(1)
	}
	fe.params.ApplyToConfig(cfg, x)
	if err := config.Set(cfg); err != nil {
		return math.Inf(1)
	}

	var food float64
	for _, seed := range fe.seeds {
		food += fe.runGame(seed)
	}
	fe.lastFood = food / float64(len(fe.seeds))

	supplied := float64(cfg.Irrigation.WaterPerTick + cfg.Irrigation.SoilPerTick)
	return -fe.lastFood + irrigationCost*supplied*float64(fe.maxTicks)/100
}

// runGame runs one seed to maxTicks and returns the food credited to players.
func (fe *FitnessEvaluator) runGame(seed int64) float64 {
	g, err := game.NewGame(game.Options{Seed: seed, MaxTicks: fe.maxTicks})
	if err != nil {
		return 0
	}
	defer g.Close()

	for g.Update() {
	}

	var food uint64
	for _, name := range g.Players() {
		inv, err := g.Inventory(name)
		if err != nil {
			continue
		}
		for k, qty := range inv {
			if k.Kind == components.KindFoodValue {
				food += qty
			}
		}
	}
	return float64(food)
}
