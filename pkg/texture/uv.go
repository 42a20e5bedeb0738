package texture

import (
	"iter"
	"math"

	"github.com/df07/go-soft-renderer/pkg/core"
)

// UVMap assigns texture coordinates to model-space vertex positions.
// Lookup returns (0,0) for unknown vertices.
type UVMap interface {
	Lookup(position core.Vec3) core.Vec2
}

// quantum is the grid spacing used to key vertex positions
const quantum = 1e-9

// maxGrid bounds grid indices that convert to int64 exactly. Components
// beyond it are keyed by their exact bits instead.
const maxGrid = 1 << 62

type positionKey struct {
	grid  [3]int64
	exact [3]uint64
}

func keyOf(p core.Vec3) positionKey {
	var k positionKey
	for i, v := range [3]float64{p.X, p.Y, p.Z} {
		q := math.Round(v / quantum)
		if math.Abs(q) < maxGrid {
			k.grid[i] = int64(q)
		} else {
			k.exact[i] = math.Float64bits(v)
		}
	}
	return k
}

type uvEntry struct {
	position core.Vec3
	uv       core.Vec2
}

// UV is a UVMap keyed by vertex position. Positions that agree to within the
// key grid share one coordinate, so a vertex shared by several triangles has
// a single UV.
type UV struct {
	entries map[positionKey]uvEntry
}

// NewUV creates an empty UV map
func NewUV() *UV {
	return &UV{entries: make(map[positionKey]uvEntry)}
}

// Set assigns uv to the vertex at position, replacing any previous value
func (m *UV) Set(position core.Vec3, uv core.Vec2) {
	if m.entries == nil {
		m.entries = make(map[positionKey]uvEntry)
	}
	m.entries[keyOf(position)] = uvEntry{position: position, uv: uv}
}

// Get returns the coordinate assigned to position and whether one exists
func (m *UV) Get(position core.Vec3) (core.Vec2, bool) {
	if m == nil {
		return core.Vec2{}, false
	}
	e, ok := m.entries[keyOf(position)]
	return e.uv, ok
}

// Lookup returns the coordinate assigned to position, or (0,0)
func (m *UV) Lookup(position core.Vec3) core.Vec2 {
	uv, _ := m.Get(position)
	return uv
}

// Delete removes the entry for position
func (m *UV) Delete(position core.Vec3) {
	if m != nil {
		delete(m.entries, keyOf(position))
	}
}

// Len returns the number of distinct vertices with a coordinate
func (m *UV) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// All enumerates the stored vertex positions and their coordinates
func (m *UV) All() iter.Seq2[core.Vec3, core.Vec2] {
	return func(yield func(core.Vec3, core.Vec2) bool) {
		if m == nil {
			return
		}
		for _, e := range m.entries {
			if !yield(e.position, e.uv) {
				return
			}
		}
	}
}

// SphericalUV returns the spherical projection of a model-space position
func SphericalUV(p core.Vec3) core.Vec2 {
	phi := math.Atan2(p.Y, p.X)
	theta := math.Atan2(math.Sqrt(p.X*p.X+p.Y*p.Y), p.Z)
	return core.Vec2{
		X: (phi/math.Pi + 1) / 2,
		Y: theta / math.Pi,
	}
}

// Spherical builds a UV map assigning the spherical projection to every
// vertex of every triangle in mesh
func Spherical(mesh []core.Triangle) *UV {
	m := NewUV()
	for _, tri := range mesh {
		for _, v := range tri.Vertices() {
			m.Set(v, SphericalUV(v))
		}
	}
	return m
}
