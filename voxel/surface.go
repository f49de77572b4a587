package voxel

// Surface is a sampled surface voxel.
type Surface struct {
	Pos   IVec3
	Voxel Voxel
}

// DefaultAttemptsPerSample bounds rejection sampling when the caller passes
// a non-positive attempt budget.
const DefaultAttemptsPerSample = 16

// SampleSurfaces draws up to n distinct surface voxels within radius of
// origin. Sampling stops after maxAttempts draws, so sparse or unloaded
// areas yield a partial (possibly empty) result instead of spinning.
// Results keep draw order.
func SampleSurfaces(w World, origin IVec3, radius int32, n, maxAttempts int) []Surface {
	if n <= 0 {
		return nil
	}
	if maxAttempts <= 0 {
		maxAttempts = n * DefaultAttemptsPerSample
	}

	out := make([]Surface, 0, n)
	seen := make(map[IVec3]struct{}, n)
	for attempt := 0; attempt < maxAttempts && len(out) < n; attempt++ {
		pos, v, ok := w.SampleSurface(origin, radius)
		if !ok {
			continue
		}
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		out = append(out, Surface{Pos: pos, Voxel: v})
	}
	return out
}

// GrowableAbove returns the position above surface if a plant can take root
// there: the surface block is dirt-like and the block above it is air.
func GrowableAbove(w World, surface IVec3) (IVec3, bool) {
	ground := w.Voxel(surface)
	if !ground.Solid || !ground.Block().Growable() {
		return IVec3{}, false
	}
	above := surface.Up()
	if !w.Voxel(above).IsAir() {
		return IVec3{}, false
	}
	return above, true
}

// Growable reports whether pos itself is a valid planting spot.
func Growable(w World, pos IVec3) bool {
	_, ok := GrowableAbove(w, pos.Down())
	return ok
}
