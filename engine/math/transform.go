package math

func TransformCreate() Transform {
	return TransformFromPositionRotationScale(NewVec3Zero(), NewQuatIdentity(), NewVec3One())
}

func TransformFromPosition(position Vec3) Transform {
	return TransformFromPositionRotationScale(position, NewQuatIdentity(), NewVec3One())
}

func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: rotation,
		Scale:    scale,
	}
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
}

func (t *Transform) Translate(translation Vec3) {
	t.Position = t.Position.Add(translation)
}

func (t *Transform) SetRotation(rotation Quaternion) {
	t.Rotation = rotation
}

func (t *Transform) Rotate(rotation Quaternion) {
	t.Rotation = t.Rotation.Mul(rotation)
}

func (t *Transform) SetScale(scale Vec3) {
	t.Scale = scale
}

// Interpolate returns the transform a fraction t of the way from `t` to
// `to`: position and scale are lerped, rotation is slerped.
func (t Transform) Interpolate(to Transform, fraction float32) Transform {
	return Transform{
		Position: t.Position.Lerp(to.Position, fraction),
		Rotation: t.Rotation.Slerp(to.Rotation, fraction),
		Scale:    t.Scale.Lerp(to.Scale, fraction),
	}
}

// Compare reports whether every component of the two transforms is within tolerance.
func (t Transform) Compare(other Transform, tolerance float32) bool {
	return t.Position.Compare(other.Position, tolerance) &&
		Vec4(t.Rotation).Compare(Vec4(other.Rotation), tolerance) &&
		t.Scale.Compare(other.Scale, tolerance)
}
