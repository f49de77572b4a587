package components

import "github.com/pthm-cable/voxfarm/voxel"

// Position is an organism's block coordinate. Fixed at spawn.
type Position struct {
	X, Y, Z int32
}

// Vec returns the position as a voxel coordinate.
func (p Position) Vec() voxel.IVec3 {
	return voxel.IVec3{X: p.X, Y: p.Y, Z: p.Z}
}

// PositionOf converts a voxel coordinate into a Position.
func PositionOf(v voxel.IVec3) Position {
	return Position{X: v.X, Y: v.Y, Z: v.Z}
}
