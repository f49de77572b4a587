package voxel

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sort"
)

// ChunkSize is the edge length of a cubic chunk.
const ChunkSize = 16

// ChunkKey is a chunk coordinate, in units of ChunkSize blocks.
type ChunkKey struct {
	CX, CY, CZ int32
}

// Chunk holds the blocks of one ChunkSize³ cube.
type Chunk struct {
	Key    ChunkKey
	Blocks []uint16 // 0 = air, otherwise material+1; x fastest, then z, then y

	dirty bool
	hash  [32]byte
}

func (c *Chunk) index(x, y, z int32) int {
	return int(x + z*ChunkSize + y*ChunkSize*ChunkSize)
}

func (c *Chunk) get(x, y, z int32) Voxel {
	return decode(c.Blocks[c.index(x, y, z)])
}

func (c *Chunk) set(x, y, z int32, v Voxel) {
	i := c.index(x, y, z)
	b := encode(v)
	if c.Blocks[i] == b {
		return
	}
	c.Blocks[i] = b
	c.dirty = true
}

// Digest hashes the raw block data.
func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

func encode(v Voxel) uint16 {
	if !v.Solid {
		return 0
	}
	return uint16(v.Material) + 1
}

func decode(b uint16) Voxel {
	if b == 0 {
		return Air
	}
	return Voxel{Solid: true, Material: uint8(b - 1)}
}

// WorldGen describes the ground fill of a ChunkStore. Terrain shaping is
// deliberately trivial: a grass-topped dirt slab with small per-column bumps.
type WorldGen struct {
	Seed        int64
	RadiusChunk int32 // loaded region is |cx|,|cz| <= RadiusChunk
	MinY        int32 // lowest loaded block (inclusive)
	MaxY        int32 // highest loaded block (exclusive)
	GroundLevel int32
	Variation   int32 // max bump height above GroundLevel
}

// ChunkStore is an in-memory World backed by lazily generated chunks.
// It is not safe for concurrent use.
type ChunkStore struct {
	gen    WorldGen
	rng    *rand.Rand
	chunks map[ChunkKey]*Chunk
}

// NewChunkStore creates an empty store. Chunks are generated on first access.
func NewChunkStore(gen WorldGen) *ChunkStore {
	return &ChunkStore{
		gen:    gen,
		rng:    rand.New(rand.NewSource(gen.Seed)),
		chunks: map[ChunkKey]*Chunk{},
	}
}

// Gen returns the generation parameters.
func (s *ChunkStore) Gen() WorldGen {
	return s.gen
}

// InBounds reports whether pos lies in the loaded region.
func (s *ChunkStore) InBounds(pos IVec3) bool {
	if pos.Y < s.gen.MinY || pos.Y >= s.gen.MaxY {
		return false
	}
	cx := floorDiv(pos.X, ChunkSize)
	cz := floorDiv(pos.Z, ChunkSize)
	r := s.gen.RadiusChunk
	return cx >= -r && cx <= r && cz >= -r && cz <= r
}

// Voxel implements World. Out-of-region reads return Air.
func (s *ChunkStore) Voxel(pos IVec3) Voxel {
	if !s.InBounds(pos) {
		return Air
	}
	ch, lx, ly, lz := s.locate(pos)
	return ch.get(lx, ly, lz)
}

// SetVoxel implements World. Out-of-region writes are dropped.
func (s *ChunkStore) SetVoxel(pos IVec3, v Voxel) {
	if !s.InBounds(pos) {
		return
	}
	ch, lx, ly, lz := s.locate(pos)
	ch.set(lx, ly, lz, v)
}

// SampleSurface implements World. It picks one random column within radius
// of origin and scans it top-down for a solid voxel with air above.
func (s *ChunkStore) SampleSurface(origin IVec3, radius int32) (IVec3, Voxel, bool) {
	if radius < 0 {
		return IVec3{}, Air, false
	}
	span := int(2*radius + 1)
	x := origin.X - radius + int32(s.rng.Intn(span))
	z := origin.Z - radius + int32(s.rng.Intn(span))

	for y := origin.Y + radius; y >= origin.Y-radius; y-- {
		pos := IVec3{X: x, Y: y, Z: z}
		v := s.Voxel(pos)
		if !v.Solid {
			continue
		}
		if s.Voxel(pos.Up()).IsAir() {
			return pos, v, true
		}
		// Buried: nothing further down this column is exposed.
		return IVec3{}, Air, false
	}
	return IVec3{}, Air, false
}

// SurfaceHeight returns the generated ground height of column (x, z).
func (s *ChunkStore) SurfaceHeight(x, z int32) int32 {
	if s.gen.Variation <= 0 {
		return s.gen.GroundLevel
	}
	return s.gen.GroundLevel + int32(hash2(s.gen.Seed, x, z)%uint64(s.gen.Variation+1))
}

// ColumnKeys returns the horizontal chunk coordinates of the loaded region,
// sorted by (CX, CZ). CY is always zero.
func (s *ChunkStore) ColumnKeys() []ChunkKey {
	r := s.gen.RadiusChunk
	keys := make([]ChunkKey, 0, (2*r+1)*(2*r+1))
	for cx := -r; cx <= r; cx++ {
		for cz := -r; cz <= r; cz++ {
			keys = append(keys, ChunkKey{CX: cx, CZ: cz})
		}
	}
	return keys
}

// LoadedChunkKeys returns keys of chunks generated so far, sorted.
func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

// Digest combines chunk digests in key order.
func (s *ChunkStore) Digest() [32]byte {
	h := sha256.New()
	for _, k := range s.LoadedChunkKeys() {
		d := s.chunks[k].Digest()
		h.Write(d[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (s *ChunkStore) locate(pos IVec3) (*Chunk, int32, int32, int32) {
	cx := floorDiv(pos.X, ChunkSize)
	cy := floorDiv(pos.Y, ChunkSize)
	cz := floorDiv(pos.Z, ChunkSize)
	ch := s.getOrGenChunk(ChunkKey{CX: cx, CY: cy, CZ: cz})
	return ch, mod(pos.X, ChunkSize), mod(pos.Y, ChunkSize), mod(pos.Z, ChunkSize)
}

func (s *ChunkStore) getOrGenChunk(k ChunkKey) *Chunk {
	if ch, ok := s.chunks[k]; ok {
		return ch
	}
	ch := &Chunk{
		Key:    k,
		Blocks: make([]uint16, ChunkSize*ChunkSize*ChunkSize),
	}
	s.generateChunk(ch)
	ch.dirty = true
	s.chunks[k] = ch
	return ch
}

func (s *ChunkStore) generateChunk(ch *Chunk) {
	grass := encode(SolidOf(Grass))
	dirt := encode(SolidOf(Dirt))
	for z := int32(0); z < ChunkSize; z++ {
		for x := int32(0); x < ChunkSize; x++ {
			wx := ch.Key.CX*ChunkSize + x
			wz := ch.Key.CZ*ChunkSize + z
			top := s.SurfaceHeight(wx, wz)
			for y := int32(0); y < ChunkSize; y++ {
				wy := ch.Key.CY*ChunkSize + y
				if wy < s.gen.MinY || wy > top {
					continue
				}
				b := dirt
				if wy == top {
					b = grass
				}
				ch.Blocks[ch.index(x, y, z)] = b
			}
		}
	}
}

func floorDiv(a, b int32) int32 {
	// b > 0
	q := a / b
	r := a % b
	if r < 0 {
		q--
	}
	return q
}

func mod(a, b int32) int32 {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func hash2(seed int64, x, z int32) uint64 {
	ux := uint64(uint32(x))
	uz := uint64(uint32(z))
	v := uint64(seed) ^ (ux * 0x9e3779b97f4a7c15) ^ (uz * 0xbf58476d1ce4e5b9)
	return mix64(v)
}
