package systems

import (
	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/voxel"
)

// CanopyLight dims light for every solid block stacked above a position,
// up to Depth blocks. Each occluder removes Shade of the remaining light.
type CanopyLight struct {
	World voxel.World
	Base  LightSampler
	Shade float32 // fraction in [0, 1]
	Depth int32
}

// LightAt implements LightSampler.
func (c CanopyLight) LightAt(pos voxel.IVec3) float32 {
	light := c.Base.LightAt(pos)
	pass := 1 - c.Shade
	p := pos
	for i := int32(0); i < c.Depth && light > 0; i++ {
		p = p.Up()
		if c.World.Voxel(p).Solid {
			light *= pass
		}
	}
	return light
}

// CloudLight varies a base light level per column with coherent noise.
// Light at a column is Level * (1 - Variation * n), n in [0, 1].
type CloudLight struct {
	Level     float32
	Variation float32
	Scale     float64 // noise frequency in 1/blocks
	noise     *PerlinNoise
}

// NewCloudLight creates a cloud field seeded from seed.
func NewCloudLight(level, variation float32, scale float64, seed int64) *CloudLight {
	return &CloudLight{
		Level:     level,
		Variation: variation,
		Scale:     scale,
		noise:     NewPerlinNoise(seed),
	}
}

// LightAt implements LightSampler.
func (c *CloudLight) LightAt(pos voxel.IVec3) float32 {
	n := c.noise.Noise2D(float64(pos.X)*c.Scale, float64(pos.Z)*c.Scale)
	cover := float32(min(max((n+1)/2, 0), 1))
	return c.Level * (1 - c.Variation*cover)
}

// LightFromConfig builds the light sampler described by the lifecycle config.
func LightFromConfig(cfg *config.Config, vox voxel.World, seed int64) LightSampler {
	lc := cfg.Lifecycle
	var light LightSampler = ConstantLight(cfg.Derived.Light32)
	if lc.LightVariation > 0 {
		light = NewCloudLight(cfg.Derived.Light32, float32(lc.LightVariation), lc.LightScale, seed)
	}
	if lc.CanopyShade > 0 && lc.CanopyDepth > 0 {
		light = CanopyLight{World: vox, Base: light, Shade: float32(lc.CanopyShade), Depth: lc.CanopyDepth}
	}
	return light
}
