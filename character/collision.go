package character

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
)

// Collision is a contact found while moving a Body.
type Collision struct {
	physics.MotionResult
}

// Position returns the point of contact in world space.
func (c Collision) Position() mgl64.Vec3 {
	return c.CollisionPoint
}

// Normal returns the normal of the surface hit, pointing towards the moving body.
func (c Collision) Normal() mgl64.Vec3 {
	return c.CollisionNormal
}

// Travel returns the displacement applied to the body before the contact.
func (c Collision) Travel() mgl64.Vec3 {
	return c.Motion
}

// Remainder returns the part of the requested motion that was not travelled.
func (c Collision) Remainder() mgl64.Vec3 {
	return c.MotionResult.Remainder
}

// Depth returns how far the body overlapped the obstacle.
func (c Collision) Depth() float64 {
	return c.CollisionDepth
}

// ColliderID returns the body that was hit.
func (c Collision) ColliderID() physics.BodyID {
	return c.Collider
}

// ColliderShapeIndex returns the index of the shape hit on the collider.
func (c Collision) ColliderShapeIndex() int {
	return c.ColliderShape
}

// LocalShapeIndex returns the index of the shape of the moving body that made contact.
func (c Collision) LocalShapeIndex() int {
	return c.LocalShape
}

// Direction classifies the contact relative to the up direction passed.
func (c Collision) Direction(up mgl64.Vec3, floorMaxAngle float64) Direction {
	return Classify(c.CollisionNormal, up, floorMaxAngle)
}

// Fields returns the contact as an ordered set of values, for use in logs.
func (c Collision) Fields() *orderedmap.OrderedMap[string, any] {
	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("collider", c.Collider)
	data.Set("collider_shape", c.ColliderShape)
	data.Set("local_shape", c.LocalShape)
	data.Set("position", game.RoundVec64(c.CollisionPoint, 4))
	data.Set("normal", game.RoundVec64(c.CollisionNormal, 4))
	data.Set("depth", game.Round64(c.CollisionDepth, 4))
	data.Set("travel", game.RoundVec64(c.Motion, 4))
	data.Set("remainder", game.RoundVec64(c.MotionResult.Remainder, 4))
	data.Set("collider_velocity", game.RoundVec64(c.ColliderVelocity, 4))
	return data
}
