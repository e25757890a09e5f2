package core

import "math"

// Frame is an orthonormal shading basis. The local Z axis is the surface normal.
type Frame struct {
	S, T, N Vec3
}

// NewFrame builds a frame around the unit normal n
func NewFrame(n Vec3) Frame {
	// Find a vector perpendicular to the normal
	var nt Vec3
	if math.Abs(n.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	s := nt.Cross(n).Normalize()
	t := n.Cross(s)
	return Frame{S: s, T: t, N: n}
}

// ToLocal expresses a world-space direction in this frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return NewVec3(v.Dot(f.S), v.Dot(f.T), v.Dot(f.N))
}

// ToWorld converts a local direction back to world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.S.Multiply(v.X).Add(f.T.Multiply(v.Y)).Add(f.N.Multiply(v.Z))
}

// CosTheta returns the cosine between a local direction and the normal
func CosTheta(local Vec3) float64 {
	return local.Z
}
