package systems

import (
	"testing"

	"github.com/pthm-cable/voxfarm/config"
	"github.com/pthm-cable/voxfarm/voxel"
)

func TestCanopyLight(t *testing.T) {
	h := newHarness(t)
	pos := voxel.IVec3{X: 2, Y: h.surfaceY, Z: 2}
	light := CanopyLight{World: h.vox, Base: ConstantLight(1), Shade: 0.5, Depth: 3}

	if got := light.LightAt(pos); got != 1 {
		t.Errorf("open sky light = %v, want 1", got)
	}

	h.vox.SetVoxel(pos.Add(voxel.IVec3{Y: 2}), voxel.SolidOf(voxel.AppleTree))
	if got := light.LightAt(pos); got != 0.5 {
		t.Errorf("one occluder: light = %v, want 0.5", got)
	}

	h.vox.SetVoxel(pos.Add(voxel.IVec3{Y: 3}), voxel.SolidOf(voxel.AppleTree))
	if got := light.LightAt(pos); got != 0.25 {
		t.Errorf("two occluders: light = %v, want 0.25", got)
	}

	// Beyond Depth does not count.
	h.vox.SetVoxel(pos.Add(voxel.IVec3{Y: 4}), voxel.SolidOf(voxel.AppleTree))
	if got := light.LightAt(pos); got != 0.25 {
		t.Errorf("occluder beyond depth changed light to %v", got)
	}
}

func TestCloudLightBounds(t *testing.T) {
	c := NewCloudLight(2, 0.5, 0.1, 7)
	varied := false
	first := c.LightAt(voxel.IVec3{})
	for x := int32(-40); x <= 40; x += 3 {
		for z := int32(-40); z <= 40; z += 3 {
			l := c.LightAt(voxel.IVec3{X: x, Z: z})
			if l < 1 || l > 2 {
				t.Fatalf("light %v at (%d,%d) outside [1,2]", l, x, z)
			}
			if l != first {
				varied = true
			}
		}
	}
	if !varied {
		t.Error("cloud light should vary across columns")
	}

	again := NewCloudLight(2, 0.5, 0.1, 7)
	if again.LightAt(voxel.IVec3{X: 5, Z: 9}) != c.LightAt(voxel.IVec3{X: 5, Z: 9}) {
		t.Error("same seed should give the same field")
	}
}

func TestLightFromConfig(t *testing.T) {
	h := newHarness(t)
	pos := voxel.IVec3{X: 4, Y: h.surfaceY, Z: 4}
	h.vox.SetVoxel(pos.Add(voxel.IVec3{Y: 1}), voxel.SolidOf(voxel.AppleTree))

	cfg := *config.Cfg()
	light := LightFromConfig(&cfg, h.vox, 1)
	if _, ok := light.(ConstantLight); !ok {
		t.Fatalf("default light = %T, want ConstantLight", light)
	}
	if got := light.LightAt(pos); got != cfg.Derived.Light32 {
		t.Errorf("default light under a block = %v, want %v", got, cfg.Derived.Light32)
	}

	cfg.Lifecycle.CanopyShade = 0.5
	light = LightFromConfig(&cfg, h.vox, 1)
	if _, ok := light.(CanopyLight); !ok {
		t.Fatalf("shaded light = %T, want CanopyLight", light)
	}
	if got := light.LightAt(pos); got != cfg.Derived.Light32*0.5 {
		t.Errorf("shaded light under a block = %v, want %v", got, cfg.Derived.Light32*0.5)
	}
}
