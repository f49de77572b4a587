package systems

import (
	"math"
	"math/rand"
)

// gradients2D are the corner gradients used by PerlinNoise.
var gradients2D = [8][2]float64{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{math.Sqrt2 / 2, math.Sqrt2 / 2}, {-math.Sqrt2 / 2, math.Sqrt2 / 2},
	{math.Sqrt2 / 2, -math.Sqrt2 / 2}, {-math.Sqrt2 / 2, -math.Sqrt2 / 2},
}

// PerlinNoise generates coherent 2D gradient noise over block columns.
type PerlinNoise struct {
	perm [512]uint8
}

// NewPerlinNoise creates a noise field from seed.
func NewPerlinNoise(seed int64) *PerlinNoise {
	p := &PerlinNoise{}
	rng := rand.New(rand.NewSource(seed))
	for i, v := range rng.Perm(256) {
		p.perm[i] = uint8(v)
		p.perm[i+256] = uint8(v)
	}
	return p
}

// Noise2D returns noise in roughly [-1, 1] for (x, z).
func (p *PerlinNoise) Noise2D(x, z float64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	fx, fz := x-x0, z-z0
	ix, iz := int(x0)&255, int(z0)&255

	corner := func(dx, dz int) float64 {
		h := p.perm[int(p.perm[ix+dx])+iz+dz] & 7
		g := gradients2D[h]
		return g[0]*(fx-float64(dx)) + g[1]*(fz-float64(dz))
	}

	u, v := fade(fx), fade(fz)
	top := lerp(u, corner(0, 0), corner(1, 0))
	bottom := lerp(u, corner(0, 1), corner(1, 1))
	return lerp(v, top, bottom) * math.Sqrt2
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}
