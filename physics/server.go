package physics

import "github.com/go-gl/mathgl/mgl64"

// BodyID is the stable identity of a body known to a Server. The zero value, NoBody, never refers to a
// body.
type BodyID uint64

// NoBody is the BodyID used when no body is referenced.
const NoBody BodyID = 0

// ShapePair identifies a touching pair of shapes: the index of the shape on the other body and the index
// of the shape on the body that owns the pair.
type ShapePair struct {
	BodyShape  int
	LocalShape int
}

// MotionParameters holds the input of a single motion query.
type MotionParameters struct {
	// From is the transform the body's shapes are placed at before moving.
	From mgl64.Mat4
	// Motion is the requested displacement.
	Motion mgl64.Vec3
	// InfiniteInertia makes the query ignore bodies that would otherwise be pushed by the mover.
	InfiniteInertia bool
	// Margin is the distance kept between the moving shapes and the obstacles.
	Margin float64
	// ExcludeRaycastShapes leaves separation ray shapes out of the sweep.
	ExcludeRaycastShapes bool
	// Exclude lists bodies the query must not collide with.
	Exclude []BodyID
}

// Excludes returns true if the body passed is in the exclusion list of the parameters.
func (p MotionParameters) Excludes(id BodyID) bool {
	for _, ex := range p.Exclude {
		if ex == id {
			return true
		}
	}
	return false
}

// MotionResult is the outcome of one constrained motion query. It is produced fresh by every query and
// is never modified by the Server afterwards.
type MotionResult struct {
	// Motion is the displacement actually applied: the recovery out of existing overlap plus the part of
	// the requested motion that could be travelled before hitting anything.
	Motion mgl64.Vec3
	// Remainder is the part of the requested motion that was not travelled.
	Remainder mgl64.Vec3

	CollisionPoint  mgl64.Vec3
	CollisionNormal mgl64.Vec3
	CollisionDepth  float64

	// CollisionSafeFraction is the fraction of the motion that can be travelled without overlapping.
	CollisionSafeFraction float64
	// CollisionUnsafeFraction is the fraction of the motion at which the shapes first overlap.
	CollisionUnsafeFraction float64

	Collider         BodyID
	ColliderVelocity mgl64.Vec3
	ColliderShape    int
	LocalShape       int
}

// SeparationResult describes a single contact found by a ray separation query.
type SeparationResult struct {
	CollisionDepth   float64
	CollisionPoint   mgl64.Vec3
	CollisionNormal  mgl64.Vec3
	Collider         BodyID
	ColliderVelocity mgl64.Vec3
	ColliderShape    int
	LocalShape       int
}

// Server is the collision engine boundary consumed by the motion resolver. Implementations must be free
// of side effects other than returning geometric results and must present a synchronous call/return
// contract, whatever their internal threading.
type Server interface {
	// TestMotion sweeps the shapes of body along p.Motion starting at p.From. If false is returned, the
	// shapes can be translated by the full motion without new overlap and the result's Motion holds the
	// full motion. If true is returned, the result's Motion is the longest clear prefix of the motion
	// (scaled by the safe fraction, plus any recovery) and Remainder is the motion left over. A body that
	// ends within the margin of an obstacle it does not move away from also collides with it, with the
	// full motion applied.
	TestMotion(body BodyID, p MotionParameters) (bool, MotionResult)
	// TestRaySeparation resolves the overlap of the separation ray shapes of body placed at from. It
	// fills at most len(results) contacts and returns the recovery vector along with the amount of
	// contacts written.
	TestRaySeparation(body BodyID, from mgl64.Mat4, infiniteInertia bool, margin float64, results []SeparationResult) (mgl64.Vec3, int)
	// BodyLinearVelocity returns the live linear velocity of a body. False is returned if the body does
	// not exist anymore.
	BodyLinearVelocity(body BodyID) (mgl64.Vec3, bool)
}
