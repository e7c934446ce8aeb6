package softhost

import (
	"fmt"
	"math"
)

// UV is a 2D texture coordinate.
type UV struct {
	U, V float64
}

// UVChannel is one 2D parameterization of a mesh, stored as per-corner
// coordinates for each triangle.
type UVChannel struct {
	// Name is the channel's identifier.
	Name string

	// Coords holds one UV per triangle corner, indexed like Triangles.
	Coords [][3]UV
}

// Mesh is a world-space triangle mesh. Positions are shared; triangles index
// into them. UV channels are stored per triangle corner so neighboring faces
// can occupy disjoint islands.
type Mesh struct {
	// Positions are the world-space vertex positions.
	Positions []Vec3

	// Triangles index into Positions, three corners per face.
	Triangles [][3]int

	// Channels are the mesh's UV channels, first channel designated for baking.
	Channels []UVChannel
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	if m == nil {
		return 0
	}
	return len(m.Triangles)
}

// Normal returns the unit face normal of triangle t (counter-clockwise winding).
func (m *Mesh) Normal(t int) Vec3 {
	tri := m.Triangles[t]
	a, b, c := m.Positions[tri[0]], m.Positions[tri[1]], m.Positions[tri[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// GridUnwrap produces a deterministic non-overlapping parameterization: each
// triangle gets its own cell in a square grid, inset by half the island margin
// on every side so no two islands come closer than the margin. It guarantees
// a valid parameterization, not a good one — charts ignore surface area and
// adjacency entirely.
//
// Parameters:
//   - name: the channel name
//   - islandMargin: minimum island separation as a fraction of UV space
//
// Returns:
//   - UVChannel: the generated channel
func (m *Mesh) GridUnwrap(name string, islandMargin float64) UVChannel {
	faces := m.FaceCount()
	ch := UVChannel{Name: name, Coords: make([][3]UV, faces)}
	if faces == 0 {
		return ch
	}

	cells := int(math.Ceil(math.Sqrt(float64(faces))))
	cs := 1.0 / float64(cells)
	pad := math.Min(islandMargin/2, cs/4)
	if pad < 0 {
		pad = 0
	}

	for t := 0; t < faces; t++ {
		col := t % cells
		row := t / cells
		u0 := float64(col)*cs + pad
		v0 := float64(row)*cs + pad
		u1 := float64(col+1)*cs - pad
		v1 := float64(row+1)*cs - pad
		ch.Coords[t] = [3]UV{{u0, v0}, {u1, v0}, {u0, v1}}
	}
	return ch
}

// nextChannelName returns the name for a newly created channel, "UVMap" for
// the first and "UVMap.NNN" after.
func (m *Mesh) nextChannelName() string {
	if len(m.Channels) == 0 {
		return "UVMap"
	}
	return fmt.Sprintf("UVMap.%03d", len(m.Channels))
}

// NewQuadMesh builds a two-triangle quad spanning origin, origin+uAxis,
// origin+uAxis+vAxis, origin+vAxis, with no UV channel.
//
// Parameters:
//   - origin: one corner of the quad
//   - uAxis: edge vector to the second corner
//   - vAxis: edge vector to the fourth corner
//
// Returns:
//   - *Mesh: the quad mesh
func NewQuadMesh(origin, uAxis, vAxis Vec3) *Mesh {
	p0 := origin
	p1 := origin.Add(uAxis)
	p2 := origin.Add(uAxis).Add(vAxis)
	p3 := origin.Add(vAxis)
	return &Mesh{
		Positions: []Vec3{p0, p1, p2, p3},
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// NewBoxMesh builds a 12-triangle axis-aligned box with outward-facing
// normals and no UV channel.
//
// Parameters:
//   - center: the box center
//   - half: the half extents along each axis
//
// Returns:
//   - *Mesh: the box mesh
func NewBoxMesh(center, half Vec3) *Mesh {
	min := center.Sub(half)
	max := center.Add(half)
	p := []Vec3{
		{min[0], min[1], min[2]}, {max[0], min[1], min[2]},
		{max[0], max[1], min[2]}, {min[0], max[1], min[2]},
		{min[0], min[1], max[2]}, {max[0], min[1], max[2]},
		{max[0], max[1], max[2]}, {min[0], max[1], max[2]},
	}
	tris := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // -z
		{4, 5, 6}, {4, 6, 7}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{3, 6, 2}, {3, 7, 6}, // +y
		{0, 7, 3}, {0, 4, 7}, // -x
		{1, 2, 6}, {1, 6, 5}, // +x
	}
	return &Mesh{Positions: p, Triangles: tris}
}
