package geom

import "math"

type Vector4 struct {
	X Element
	Y Element
	Z Element
	W Element
}

type Quaternion = Vector4

func NewQuaternion(x, y, z, w Element) *Vector4 {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

// NewIdentityQuaternion returns the no-rotation quaternion.
func NewIdentityQuaternion() *Quaternion {
	return &Quaternion{X: 0, Y: 0, Z: 0, W: 1}
}

// AxisRotation returns the quaternion for a rotation of angle radians
// about the world axis named by 'X', 'Y' or 'Z'.
func AxisRotation(axis byte, angle Element) *Quaternion {
	s := math.Sin(angle / 2)
	c := math.Cos(angle / 2)
	switch axis {
	case 'X':
		return &Quaternion{X: s, W: c}
	case 'Y':
		return &Quaternion{Y: s, W: c}
	case 'Z':
		return &Quaternion{Z: s, W: c}
	}
	return NewIdentityQuaternion()
}

func (v *Vector4) Add(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z, W: v.W + v2.W}
}

func (v *Vector4) Sub(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z, W: v.W - v2.W}
}

func (v *Vector4) Dot(v2 *Vector4) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z + v.W*v2.W
}

func (v *Vector4) Len() Element {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

func (v *Vector4) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W
}

func (v *Vector4) Normalize() *Vector4 {
	l := v.Len()
	if l > 0 {
		v.X /= l
		v.Y /= l
		v.Z /= l
		v.W /= l
	} else {
		v.W = 1
	}
	return v
}

// Inverse returns the conjugate. Equal to the inverse for unit quaternions.
func (v *Vector4) Inverse() *Vector4 {
	return &Vector4{X: -v.X, Y: -v.Y, Z: -v.Z, W: v.W}
}

// Mul returns the Hamilton product a*b.
func (a *Vector4) Mul(b *Vector4) *Vector4 {
	return &Vector4{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z, // 1
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y, // i
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X, // j
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W, // k
	}
}

// ApplyTo rotates v2 by the quaternion (q * v2 * q^-1).
func (v *Vector4) ApplyTo(v2 *Vector3) *Vector3 {
	p := &Vector4{X: v2.X, Y: v2.Y, Z: v2.Z, W: 0}
	r := v.Mul(p).Mul(v.Inverse())
	return &Vector3{X: r.X, Y: r.Y, Z: r.Z}
}
