package softhost

import (
	"math"
	"testing"
)

func TestGridUnwrapCoversEveryFace(t *testing.T) {
	m := NewBoxMesh(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	ch := m.GridUnwrap("UVMap", 16.0/1024.0)
	if len(ch.Coords) != m.FaceCount() {
		t.Fatalf("expected %d UV triangles, got %d", m.FaceCount(), len(ch.Coords))
	}
	for i, uvs := range ch.Coords {
		for _, uv := range uvs {
			if uv.U < 0 || uv.U > 1 || uv.V < 0 || uv.V > 1 {
				t.Fatalf("triangle %d has UV outside [0,1]: %+v", i, uv)
			}
		}
	}
}

// Island bounding boxes must be pairwise disjoint with at least the margin
// between them; each triangle owns its own grid cell.
func TestGridUnwrapIslandsDoNotOverlap(t *testing.T) {
	m := NewBoxMesh(Vec3{0, 0, 0}, Vec3{2, 1, 3})
	margin := 8.0 / 512.0
	ch := m.GridUnwrap("UVMap", margin)

	type box struct{ minU, minV, maxU, maxV float64 }
	boxes := make([]box, len(ch.Coords))
	for i, uvs := range ch.Coords {
		b := box{minU: math.Inf(1), minV: math.Inf(1), maxU: math.Inf(-1), maxV: math.Inf(-1)}
		for _, uv := range uvs {
			b.minU = math.Min(b.minU, uv.U)
			b.maxU = math.Max(b.maxU, uv.U)
			b.minV = math.Min(b.minV, uv.V)
			b.maxV = math.Max(b.maxV, uv.V)
		}
		boxes[i] = b
	}
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			a, b := boxes[i], boxes[j]
			separated := a.maxU+margin <= b.minU+1e-12 || b.maxU+margin <= a.minU+1e-12 ||
				a.maxV+margin <= b.minV+1e-12 || b.maxV+margin <= a.minV+1e-12
			if !separated {
				t.Fatalf("islands %d and %d closer than margin: %+v vs %+v", i, j, a, b)
			}
		}
	}
}

func TestGridUnwrapDeterministic(t *testing.T) {
	m := NewQuadMesh(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 0, 1})
	a := m.GridUnwrap("UVMap", 0.01)
	b := m.GridUnwrap("UVMap", 0.01)
	for i := range a.Coords {
		if a.Coords[i] != b.Coords[i] {
			t.Fatalf("unwrap not deterministic at triangle %d", i)
		}
	}
}

func TestGridUnwrapEmptyMesh(t *testing.T) {
	m := &Mesh{}
	ch := m.GridUnwrap("UVMap", 0.01)
	if len(ch.Coords) != 0 {
		t.Fatalf("empty mesh must produce empty channel, got %d coords", len(ch.Coords))
	}
}

func TestQuadMeshGeometry(t *testing.T) {
	m := NewQuadMesh(Vec3{0, 0, 0}, Vec3{2, 0, 0}, Vec3{0, 0, 2})
	if m.FaceCount() != 2 {
		t.Fatalf("quad has %d faces, want 2", m.FaceCount())
	}
	n := m.Normal(0)
	if math.Abs(math.Abs(n[1])-1) > 1e-9 {
		t.Fatalf("quad in XZ plane must have Y normal, got %v", n)
	}
}

func TestBoxMeshNormalsFaceOutward(t *testing.T) {
	center := Vec3{1, 2, 3}
	m := NewBoxMesh(center, Vec3{1, 1, 1})
	if m.FaceCount() != 12 {
		t.Fatalf("box has %d faces, want 12", m.FaceCount())
	}
	for tIdx, tri := range m.Triangles {
		a := m.Positions[tri[0]]
		b := m.Positions[tri[1]]
		c := m.Positions[tri[2]]
		centroid := a.Add(b).Add(c).Scale(1.0 / 3.0)
		outward := centroid.Sub(center)
		if m.Normal(tIdx).Dot(outward) <= 0 {
			t.Fatalf("triangle %d normal points inward", tIdx)
		}
	}
}

func TestFaceCountNilMesh(t *testing.T) {
	var m *Mesh
	if m.FaceCount() != 0 {
		t.Fatal("nil mesh must report zero faces")
	}
}
