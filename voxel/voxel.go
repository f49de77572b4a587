// Package voxel is the boundary between the simulation and the block world.
//
// The simulation only needs to read and write single blocks and to sample
// exposed surface blocks near a point; World captures exactly that. ChunkStore
// is an in-memory implementation used by the headless runner and tests.
package voxel

import "fmt"

// IVec3 is an integer block coordinate. Y is up.
type IVec3 struct {
	X, Y, Z int32
}

// Add returns v+o.
func (v IVec3) Add(o IVec3) IVec3 {
	return IVec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Up returns the coordinate directly above v.
func (v IVec3) Up() IVec3 {
	return IVec3{X: v.X, Y: v.Y + 1, Z: v.Z}
}

// Down returns the coordinate directly below v.
func (v IVec3) Down() IVec3 {
	return IVec3{X: v.X, Y: v.Y - 1, Z: v.Z}
}

func (v IVec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Voxel is either Air or Solid with a material id.
type Voxel struct {
	Solid    bool
	Material uint8
}

// Air is the empty voxel.
var Air = Voxel{}

// SolidOf returns a solid voxel painted as the given block type.
func SolidOf(b BlockType) Voxel {
	return Voxel{Solid: true, Material: b.Index()}
}

// IsAir reports whether v is empty.
func (v Voxel) IsAir() bool {
	return !v.Solid
}

// Block returns the block type of a solid voxel, or Nothing for air.
func (v Voxel) Block() BlockType {
	if !v.Solid || v.Material >= Nothing.Index() {
		return Nothing
	}
	return BlockType(v.Material)
}

func (v Voxel) String() string {
	if !v.Solid {
		return "air"
	}
	return v.Block().String()
}

// World is the block world as seen by the simulation.
// Implementations must tolerate coordinates outside any loaded region.
type World interface {
	// Voxel returns the voxel at pos.
	Voxel(pos IVec3) Voxel
	// SetVoxel overwrites the voxel at pos. Last write wins.
	SetVoxel(pos IVec3, v Voxel)
	// SampleSurface picks one random surface voxel (solid with air above)
	// within radius of origin. ok is false when the attempt found nothing.
	SampleSurface(origin IVec3, radius int32) (pos IVec3, v Voxel, ok bool)
}

// BlockType is the semantic block palette. Its index is the material id.
type BlockType uint8

const (
	Grass BlockType = iota
	Dirt
	SeedPlanted
	WheatSprouts
	Wheat
	WheatFlowering
	WheatRipe
	AppleSapling
	AppleTree
	AppleTreeBlossom
	AppleTreeWithApples
	DeadTree
	DeadWheat
	Nothing // keep last
)

// Index returns the material id for b.
func (b BlockType) Index() uint8 {
	return uint8(b)
}

// Growable reports whether plants can take root on top of b.
func (b BlockType) Growable() bool {
	return b == Grass || b == Dirt
}

var blockNames = [...]string{
	Grass:               "grass",
	Dirt:                "dirt",
	SeedPlanted:         "seed_planted",
	WheatSprouts:        "wheat_sprouts",
	Wheat:               "wheat",
	WheatFlowering:      "wheat_flowering",
	WheatRipe:           "wheat_ripe",
	AppleSapling:        "apple_sapling",
	AppleTree:           "apple_tree",
	AppleTreeBlossom:    "apple_tree_blossom",
	AppleTreeWithApples: "apple_tree_with_apples",
	DeadTree:            "dead_tree",
	DeadWheat:           "dead_wheat",
	Nothing:             "nothing",
}

func (b BlockType) String() string {
	if int(b) < len(blockNames) {
		return blockNames[b]
	}
	return fmt.Sprintf("block(%d)", uint8(b))
}
