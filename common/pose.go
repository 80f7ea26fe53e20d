package common

// Pose is a position and orientation. Agents and targets are handed around as
// *Pose so identity comparisons stay meaningful.
type Pose struct {
	Position Vec3
	Rotation Quat
}

func NewPose(p Vec3) *Pose {
	return &Pose{Position: p, Rotation: Identity}
}

func (p *Pose) Right() Vec3 {
	return p.Rotation.Rotate(Right)
}

func (p *Pose) Up() Vec3 {
	return p.Rotation.Rotate(Up)
}

func (p *Pose) Forward() Vec3 {
	return p.Rotation.Rotate(Forward)
}

// InverseTransformPoint maps a world point into the pose's local frame.
func (p *Pose) InverseTransformPoint(world Vec3) Vec3 {
	return p.Rotation.Conjugate().Rotate(world.Sub(p.Position))
}

// TransformPoint maps a local point into world space.
func (p *Pose) TransformPoint(local Vec3) Vec3 {
	return p.Position.Add(p.Rotation.Rotate(local))
}
