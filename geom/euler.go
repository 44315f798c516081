package geom

import "math"

type RotationOrder int

const (
	RotationOrderXYZ RotationOrder = iota
	RotationOrderXZY
	RotationOrderYXZ
	RotationOrderYZX
	RotationOrderZXY
	RotationOrderZYX
)

var rotationOrderNames = [...]string{"XYZ", "XZY", "YXZ", "YZX", "ZXY", "ZYX"}

func (o RotationOrder) String() string {
	if o < 0 || int(o) >= len(rotationOrderNames) {
		return "XYZ"
	}
	return rotationOrderNames[o]
}

// ParseRotationOrder maps an axis-letter sequence such as "ZXY" to its order.
func ParseRotationOrder(s string) (RotationOrder, bool) {
	for i, n := range rotationOrderNames {
		if n == s {
			return RotationOrder(i), true
		}
	}
	return RotationOrderXYZ, false
}

// Reversed returns the order with the axis sequence reversed. An intrinsic
// rotation in some order equals the extrinsic rotation in the reversed order
// with the same per-axis angles.
func (o RotationOrder) Reversed() RotationOrder {
	switch o {
	case RotationOrderXYZ:
		return RotationOrderZYX
	case RotationOrderXZY:
		return RotationOrderYZX
	case RotationOrderYXZ:
		return RotationOrderZXY
	case RotationOrderYZX:
		return RotationOrderXZY
	case RotationOrderZXY:
		return RotationOrderYXZ
	default:
		return RotationOrderXYZ
	}
}

// EulerAngles holds per-axis angles in radians. The axes are applied as an
// intrinsic sequence: each rotation is about the frame produced by the
// previous one, in the order named by Order.
type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z Element, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

func NewEulerFromQuaternion(q *Quaternion, order RotationOrder) *EulerAngles {
	return NewEulerFromMatrix4(NewRotationMatrix4FromQuaternion(q), order)
}

func NewEulerFromMatrix4(mat *Matrix4, order RotationOrder) *EulerAngles {
	const eps = 0.00000001
	m11, m21, m31 := mat[0], mat[1], mat[2]
	m12, m22, m32 := mat[4], mat[5], mat[6]
	m13, m23, m33 := mat[8], mat[9], mat[10]
	clamp := func(v Element) Element { return math.Max(-1, math.Min(v, 1)) }

	ret := &EulerAngles{Order: order}
	switch order {
	case RotationOrderXYZ:
		ret.Y = math.Asin(clamp(m13))
		if math.Abs(m13) < 1-eps {
			ret.X = math.Atan2(-m23, m33)
			ret.Z = math.Atan2(-m12, m11)
		} else {
			ret.X = math.Atan2(m32, m22)
			ret.Z = 0
		}
	case RotationOrderXZY:
		ret.Z = math.Asin(-clamp(m12))
		if math.Abs(m12) < 1-eps {
			ret.X = math.Atan2(m32, m22)
			ret.Y = math.Atan2(m13, m11)
		} else {
			ret.X = math.Atan2(-m23, m33)
			ret.Y = 0
		}
	case RotationOrderYXZ:
		ret.X = math.Asin(-clamp(m23))
		if math.Abs(m23) < 1-eps {
			ret.Y = math.Atan2(m13, m33)
			ret.Z = math.Atan2(m21, m22)
		} else {
			ret.Y = math.Atan2(-m31, m11)
			ret.Z = 0
		}
	case RotationOrderYZX:
		ret.Z = math.Asin(clamp(m21))
		if math.Abs(m21) < 1-eps {
			ret.X = math.Atan2(-m23, m22)
			ret.Y = math.Atan2(-m31, m11)
		} else {
			ret.X = 0
			ret.Y = math.Atan2(m13, m33)
		}
	case RotationOrderZXY:
		ret.X = math.Asin(clamp(m32))
		if math.Abs(m32) < 1-eps {
			ret.Y = math.Atan2(-m31, m33)
			ret.Z = math.Atan2(-m12, m22)
		} else {
			ret.Y = 0
			ret.Z = math.Atan2(m21, m11)
		}
	case RotationOrderZYX:
		ret.Y = math.Asin(-clamp(m31))
		if math.Abs(m31) < 1-eps {
			ret.X = math.Atan2(m32, m33)
			ret.Z = math.Atan2(m21, m11)
		} else {
			ret.X = 0
			ret.Z = math.Atan2(-m12, m22)
		}
	}
	return ret
}

func (v *EulerAngles) ToQuaternion() *Quaternion {
	cx := math.Cos(v.X / 2)
	cy := math.Cos(v.Y / 2)
	cz := math.Cos(v.Z / 2)
	sx := math.Sin(v.X / 2)
	sy := math.Sin(v.Y / 2)
	sz := math.Sin(v.Z / 2)

	switch v.Order {
	case RotationOrderXYZ:
		return &Vector4{
			X: sx*cy*cz + cx*sy*sz,
			Y: cx*sy*cz - sx*cy*sz,
			Z: cx*cy*sz + sx*sy*cz,
			W: cx*cy*cz - sx*sy*sz}
	case RotationOrderXZY:
		return &Vector4{
			X: sx*cy*cz - cx*sy*sz,
			Y: cx*sy*cz - sx*cy*sz,
			Z: cx*cy*sz + sx*sy*cz,
			W: cx*cy*cz + sx*sy*sz}
	case RotationOrderYXZ:
		return &Vector4{
			X: sx*cy*cz + cx*sy*sz,
			Y: cx*sy*cz - sx*cy*sz,
			Z: cx*cy*sz - sx*sy*cz,
			W: cx*cy*cz + sx*sy*sz}
	case RotationOrderYZX:
		return &Vector4{
			X: sx*cy*cz + cx*sy*sz,
			Y: cx*sy*cz + sx*cy*sz,
			Z: cx*cy*sz - sx*sy*cz,
			W: cx*cy*cz - sx*sy*sz}
	case RotationOrderZXY:
		return &Vector4{
			X: sx*cy*cz - cx*sy*sz,
			Y: cx*sy*cz + sx*cy*sz,
			Z: cx*cy*sz + sx*sy*cz,
			W: cx*cy*cz - sx*sy*sz}
	case RotationOrderZYX:
		return &Vector4{
			X: sx*cy*cz - cx*sy*sz,
			Y: cx*sy*cz + sx*cy*sz,
			Z: cx*cy*sz - sx*sy*cz,
			W: cx*cy*cz + sx*sy*sz}
	default:
		return &Quaternion{0, 0, 0, 1}
	}
}
