package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveTowards(t *testing.T) {
	cases := []struct {
		name     string
		from, to Vec3
		step     float64
		want     Vec3
	}{
		{"partial", Vec3{}, Vec3{X: 10}, 2, Vec3{X: 2}},
		{"no_overshoot", Vec3{}, Vec3{X: 1}, 5, Vec3{X: 1}},
		{"zero_step", Vec3{X: 3}, Vec3{X: 4}, 0, Vec3{X: 3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MoveTowards(c.from, c.to, c.step)
			assert.InDelta(t, c.want.X, got.X, 1e-9)
			assert.InDelta(t, c.want.Y, got.Y, 1e-9)
			assert.InDelta(t, c.want.Z, got.Z, 1e-9)
		})
	}
}

func TestQuatYawRoundTrip(t *testing.T) {
	for _, yaw := range []float64{0, math.Pi / 4, -math.Pi / 2, 3} {
		q := QuatFromYaw(yaw)
		assert.InDelta(t, yaw, q.Yaw(), 1e-9)

		fwd := q.Rotate(Forward)
		assert.InDelta(t, math.Sin(yaw), fwd.X, 1e-9)
		assert.InDelta(t, math.Cos(yaw), fwd.Z, 1e-9)
		assert.InDelta(t, yaw, LookYaw(fwd), 1e-9)
	}
}

func TestPoseInverseTransform(t *testing.T) {
	p := &Pose{Position: Vec3{X: 1, Y: 2, Z: 3}, Rotation: QuatFromYaw(math.Pi / 2)}
	local := Vec3{X: 0.5, Y: -1, Z: 2}
	back := p.InverseTransformPoint(p.TransformPoint(local))
	assert.InDelta(t, local.X, back.X, 1e-9)
	assert.InDelta(t, local.Y, back.Y, 1e-9)
	assert.InDelta(t, local.Z, back.Z, 1e-9)

	var zero Pose
	assert.Equal(t, Forward, zero.Forward())
}

func TestSlerpEndpoints(t *testing.T) {
	a := QuatFromYaw(0)
	b := QuatFromYaw(1)
	assert.InDelta(t, 0.0, Slerp(a, b, 0).Yaw(), 1e-9)
	assert.InDelta(t, 1.0, Slerp(a, b, 1).Yaw(), 1e-9)
	assert.InDelta(t, 0.5, Slerp(a, b, 0.5).Yaw(), 1e-9)
	assert.InDelta(t, 1.0, Slerp(a, b, 7).Yaw(), 1e-9)
}
