package physics

import "github.com/go-gl/mathgl/mgl64"

// At returns an identity transform translated to pos.
func At(pos mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(pos[0], pos[1], pos[2])
}

// Origin returns the translation part of the transform.
func Origin(t mgl64.Mat4) mgl64.Vec3 {
	return mgl64.Vec3{t[12], t[13], t[14]}
}

// Translated returns t moved by v in world space.
func Translated(t mgl64.Mat4, v mgl64.Vec3) mgl64.Mat4 {
	t[12] += v[0]
	t[13] += v[1]
	t[14] += v[2]
	return t
}
