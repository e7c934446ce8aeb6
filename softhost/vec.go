package softhost

import "math"

// Vec3 is a 3-component vector used for positions, normals and directions.
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

// Cross returns the cross product of v and o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Length returns the euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, or v unchanged if zero.
func (v Vec3) Normalize() Vec3 {
	l2 := v.Dot(v)
	if l2 <= 0 {
		return v
	}
	return v.Scale(1 / math.Sqrt(l2))
}

// orthonormalBasis returns two unit vectors spanning the plane perpendicular
// to unit normal n.
func orthonormalBasis(n Vec3) (Vec3, Vec3) {
	var t Vec3
	if math.Abs(n[0]) > 0.9 {
		t = Vec3{0, 1, 0}
	} else {
		t = Vec3{1, 0, 0}
	}
	u := n.Cross(t).Normalize()
	w := n.Cross(u)
	return u, w
}
