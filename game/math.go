package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Slide removes the component of v along the normal n, leaving the part of v that runs along the plane
// orthogonal to n. n is expected to be normalized.
func Slide(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// IsZeroVec returns true if every component of v is exactly zero.
func IsZeroVec(v mgl64.Vec3) bool {
	return v == mgl64.Vec3{}
}

// SafeNormalize normalizes v, returning the zero vector if v is too short to carry a direction.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l <= CmpEpsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// AngleBetween returns the angle in radians between the unit vectors a and b. The dot product is clamped
// so rounding never pushes acos out of its domain.
func AngleBetween(a, b mgl64.Vec3) float64 {
	return math.Acos(ClampFloat(a.Dot(b), -1, 1))
}

// ClampFloat clamps the given value to the given range.
func ClampFloat(num, min, max float64) float64 {
	if num < min {
		return min
	}
	return math.Min(num, max)
}

// Vec3ApproxEq returns true if each component of a and b differ by at most epsilon.
func Vec3ApproxEq(a, b mgl64.Vec3, epsilon float64) bool {
	return math.Abs(a[0]-b[0]) <= epsilon && math.Abs(a[1]-b[1]) <= epsilon && math.Abs(a[2]-b[2]) <= epsilon
}

// Round64 will round a float64 to a given precision.
func Round64(val float64, precision int) float64 {
	pwr := math.Pow(10, float64(precision))
	return math.Round(val*pwr) / pwr
}

// RoundVec64 will round a 64-bit vector to a given precision.
func RoundVec64(v mgl64.Vec3, p int) mgl64.Vec3 {
	return mgl64.Vec3{Round64(v.X(), p), Round64(v.Y(), p), Round64(v.Z(), p)}
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec64To32 converts a 64-bit vector to a 32-bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}
