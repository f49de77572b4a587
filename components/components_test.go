package components

import (
	"testing"

	"github.com/pthm-cable/voxfarm/species"
	"github.com/pthm-cable/voxfarm/voxel"
)

func TestResourceMapMerge(t *testing.T) {
	m := ResourceMap{Seeds(species.Wheat): 100}
	m.Merge(ResourceMap{FoodValue(species.Wheat): 2, Seeds(species.Wheat): 4})

	if m[Seeds(species.Wheat)] != 104 {
		t.Errorf("seeds = %d, want 104", m[Seeds(species.Wheat)])
	}
	if m[FoodValue(species.Wheat)] != 2 {
		t.Errorf("food = %d, want 2", m[FoodValue(species.Wheat)])
	}
	if m.Total() != 106 {
		t.Errorf("total = %d, want 106", m.Total())
	}
}

func TestResourceMapCloneIndependent(t *testing.T) {
	m := ResourceMap{Seeds(species.Apple): 15}
	c := m.Clone()
	c[Seeds(species.Apple)] = 1
	if m[Seeds(species.Apple)] != 15 {
		t.Error("clone aliases the original")
	}
}

func TestFarmResourceKeyEquality(t *testing.T) {
	if Seeds(species.Apple) == Seeds(species.Wheat) {
		t.Error("keys for different species must differ")
	}
	if Seeds(species.Apple) == FoodValue(species.Apple) {
		t.Error("keys for different kinds must differ")
	}
	if Seeds(species.Apple) != (FarmResource{Kind: KindSeeds, Species: species.Apple}) {
		t.Error("equal keys must compare equal")
	}
}

func TestResourceMapString(t *testing.T) {
	m := ResourceMap{Seeds(species.Wheat): 3, FoodValue(species.Apple): 10}
	want := "{food:apple=10 seeds:wheat=3}"
	if got := m.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBlockFor(t *testing.T) {
	tests := []struct {
		s     species.Species
		phase LifePhase
		want  voxel.BlockType
	}{
		{species.Wheat, PhaseSeed, voxel.SeedPlanted},
		{species.Apple, PhaseSeed, voxel.SeedPlanted},
		{species.Wheat, PhaseGerminated, voxel.WheatSprouts},
		{species.Wheat, PhaseGrowing, voxel.WheatSprouts},
		{species.Wheat, PhaseMature, voxel.Wheat},
		{species.Wheat, PhasePollinated, voxel.WheatFlowering},
		{species.Wheat, PhaseFruiting, voxel.WheatRipe},
		{species.Wheat, PhaseDeath, voxel.DeadWheat},
		{species.Apple, PhaseGrowing, voxel.AppleSapling},
		{species.Apple, PhaseMature, voxel.AppleTree},
		{species.Apple, PhasePollinated, voxel.AppleTreeBlossom},
		{species.Apple, PhaseFruiting, voxel.AppleTreeWithApples},
		{species.Apple, PhaseDeath, voxel.DeadTree},
	}
	for _, tt := range tests {
		if got := BlockFor(tt.s, tt.phase); got != tt.want {
			t.Errorf("BlockFor(%v, %v) = %v, want %v", tt.s, tt.phase, got, tt.want)
		}
	}
}

func TestEveryPhaseHasABlock(t *testing.T) {
	for _, s := range species.All() {
		for p := 0; p < LifePhaseCount(); p++ {
			if BlockFor(s, LifePhase(p)) == voxel.Nothing {
				t.Errorf("no block for %v in %v", s, LifePhase(p))
			}
		}
	}
}

func TestLifePhaseNames(t *testing.T) {
	if PhaseDeath.String() != "death" {
		t.Errorf("PhaseDeath.String() = %q", PhaseDeath.String())
	}
	if LifePhase(42).String() != "unknown" {
		t.Error("out of range phase should be unknown")
	}
	if !PhaseGrowing.Depleting() || !PhasePollinated.Depleting() || PhaseMature.Depleting() {
		t.Error("only growing and pollinated deplete needs")
	}
}
