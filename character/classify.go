package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
)

// Direction is the category of a contact relative to the up direction of a body.
type Direction uint8

const (
	DirectionWall Direction = iota
	DirectionFloor
	DirectionCeiling
)

// String ...
func (d Direction) String() string {
	switch d {
	case DirectionFloor:
		return "floor"
	case DirectionCeiling:
		return "ceiling"
	default:
		return "wall"
	}
}

// Classify categorizes a contact normal as floor, ceiling or wall. A normal within floorMaxAngle (plus a
// small threshold) of up is a floor, one within the same angle of -up is a ceiling, anything else is a
// wall. If either up or the normal is the zero vector, the contact is a wall.
func Classify(normal, up mgl64.Vec3, floorMaxAngle float64) Direction {
	if game.IsZeroVec(up) || game.IsZeroVec(normal) {
		return DirectionWall
	}
	limit := floorMaxAngle + game.FloorAngleThreshold
	if game.AngleBetween(normal, up) <= limit {
		return DirectionFloor
	}
	if game.AngleBetween(normal, up.Mul(-1)) <= limit {
		return DirectionCeiling
	}
	return DirectionWall
}

// setCollisionDirection resets the classification of the body and derives it from the contact passed.
func (b *Body) setCollisionDirection(result physics.MotionResult) {
	b.onFloor, b.onWall, b.onCeiling = false, false, false
	if game.IsZeroVec(b.upDirection) {
		b.onWall = true
		return
	}

	switch Classify(result.CollisionNormal, b.upDirection, b.floorMaxAngle) {
	case DirectionFloor:
		b.onFloor = true
		b.floorNormal = result.CollisionNormal
		b.floorBody = result.Collider
		b.floorVelocity = result.ColliderVelocity
	case DirectionCeiling:
		b.onCeiling = true
	case DirectionWall:
		b.onWall = true
		b.floorBody = result.Collider
		b.floorVelocity = result.ColliderVelocity
	}
}
