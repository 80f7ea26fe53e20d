package common

import "math"

// Quat is a rotation quaternion. The zero value is treated as identity.
type Quat struct {
	X, Y, Z, W float64
}

var Identity = Quat{W: 1}

// QuatFromYaw returns a rotation of yaw radians about +Y. Yaw 0 faces +Z.
func QuatFromYaw(yaw float64) Quat {
	s, c := math.Sincos(yaw / 2)
	return Quat{Y: s, W: c}
}

// LookYaw returns the yaw that faces dir on the horizontal plane.
func LookYaw(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

func (q Quat) orIdentity() Quat {
	if q == (Quat{}) {
		return Identity
	}
	return q
}

func (q Quat) Conjugate() Quat {
	q = q.orIdentity()
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func (q Quat) Mul(r Quat) Quat {
	q, r = q.orIdentity(), r.orIdentity()
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

func (q Quat) Dot(r Quat) float64 {
	return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return Identity
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	q = q.orIdentity()
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Yaw extracts the heading about +Y.
func (q Quat) Yaw() float64 {
	q = q.orIdentity()
	return math.Atan2(2*(q.W*q.Y+q.X*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))
}

// Slerp interpolates along the shorter arc; t is clamped to [0, 1].
func Slerp(a, b Quat, t float64) Quat {
	a, b = a.orIdentity().Normalize(), b.orIdentity().Normalize()
	t = Clamp01(t)
	cos := a.Dot(b)
	if cos < 0 {
		b = Quat{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}
		cos = -cos
	}
	if cos > 0.9995 {
		return Quat{
			X: Lerp(a.X, b.X, t),
			Y: Lerp(a.Y, b.Y, t),
			Z: Lerp(a.Z, b.Z, t),
			W: Lerp(a.W, b.W, t),
		}.Normalize()
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		X: a.X*wa + b.X*wb,
		Y: a.Y*wa + b.Y*wb,
		Z: a.Z*wa + b.Z*wb,
		W: a.W*wa + b.W*wb,
	}
}
