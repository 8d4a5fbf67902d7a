package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/sirupsen/logrus"
)

// MoveAndSlide moves the body along its linear velocity for a step of dt seconds. When the body hits an
// obstacle, the remaining motion and the velocity lose their component along the contact normal and the
// body keeps moving along the obstacle, for at most MaxSlides sweeps. Before moving, the body is carried
// along with the platform it stood on during the previous call; after moving, it is snapped back onto the
// floor if it was on one and a snap vector is set.
func (b *Body) MoveAndSlide(dt float64) {
	if !b.attached() {
		return
	}
	if dt <= 0 {
		b.log.Errorf(game.ErrorInvalidDelta, dt)
		return
	}

	velocityNormal := game.SafeNormalize(b.linearVelocity)
	wasOnFloor := b.onFloor

	currentFloorVelocity := b.floorVelocity
	if (b.onFloor || b.onWall) && b.floorBody != physics.NoBody {
		// Reading the velocity from the server keeps the delay between the platform and the body minimal.
		if v, ok := b.server.BodyLinearVelocity(b.floorBody); ok {
			currentFloorVelocity = v
		}
	}
	platform := b.floorBody

	b.motionResults = b.motionResults[:0]
	b.onFloor, b.onWall, b.onCeiling = false, false, false
	b.floorNormal = mgl64.Vec3{}
	b.floorVelocity = mgl64.Vec3{}

	if !game.IsZeroVec(currentFloorVelocity) {
		var exclude []physics.BodyID
		if platform != physics.NoBody {
			exclude = []physics.BodyID{platform}
		}
		if result, ok := b.moveAndCollide(currentFloorVelocity.Mul(dt), b.infiniteInertia, b.margin, false, false, false, exclude); ok {
			b.motionResults = append(b.motionResults, result)
			b.setCollisionDirection(result)
		}
		b.log.Debugf("body %d carried by platform %d: velocity=%v", b.id, platform, currentFloorVelocity)
	}

	b.floorBody = physics.NoBody
	motion := b.linearVelocity.Mul(dt)

	// No sliding on the first attempt keeps floor motion stable when stop on slope is enabled.
	slidingEnabled := !b.stopOnSlope

	for iteration := 0; iteration < b.maxSlides; iteration++ {
		foundCollision := false

		for pass := 0; pass < 2; pass++ {
			var (
				result   physics.MotionResult
				collided bool
			)
			if pass == 0 {
				result, collided = b.moveAndCollide(motion, b.infiniteInertia, b.margin, true, false, !slidingEnabled, nil)
				if !collided {
					motion = mgl64.Vec3{}
				}
			} else {
				result, collided = b.separateRaycastShapes()
				if collided {
					// Separation only repositions the body, it does not consume any of the motion.
					result.Remainder = motion
					result.Motion = mgl64.Vec3{}
				}
			}

			if collided {
				foundCollision = true

				b.motionResults = append(b.motionResults, result)
				b.setCollisionDirection(result)
				if b.log.IsLevelEnabled(logrus.DebugLevel) {
					fields := logrus.Fields{"direction": Classify(result.CollisionNormal, b.upDirection, b.floorMaxAngle)}
					for el := (Collision{MotionResult: result}).Fields().Front(); el != nil; el = el.Next() {
						fields[el.Key] = el.Value
					}
					b.log.WithFields(fields).Debugf("body %d slide %d pass %d", b.id, iteration, pass)
				}

				if b.onFloor && b.stopOnSlope && velocityNormal.Add(b.upDirection).Len() < game.StopOnSlopeThreshold {
					t := b.node.Transform()
					if result.Motion.Len() > b.margin {
						t = physics.Translated(t, game.Slide(result.Motion, b.upDirection).Mul(-1))
					} else {
						t = physics.Translated(t, result.Motion.Mul(-1))
					}
					b.node.SetTransform(t)
					b.linearVelocity = mgl64.Vec3{}
					return
				}

				if slidingEnabled || !b.onFloor {
					motion = game.Slide(result.Remainder, result.CollisionNormal)
					b.linearVelocity = game.Slide(b.linearVelocity, result.CollisionNormal)
				} else {
					motion = result.Remainder
				}
			}

			slidingEnabled = true
		}

		if !foundCollision || game.IsZeroVec(motion) {
			break
		}
	}

	if !b.onFloor && !b.onWall {
		// The body just left the platform it was on: keep the platform's velocity.
		b.linearVelocity = b.linearVelocity.Add(currentFloorVelocity)
	}

	if !wasOnFloor || game.IsZeroVec(b.snap) {
		return
	}
	b.applySnap()
}

// applySnap tests a motion along the snap vector and moves the body onto the floor found, if any.
func (b *Body) applySnap() {
	result, ok := b.moveAndCollide(b.snap, b.infiniteInertia, b.margin, false, true, false, nil)
	if !ok {
		return
	}

	if !game.IsZeroVec(b.upDirection) {
		if Classify(result.CollisionNormal, b.upDirection, b.floorMaxAngle) != DirectionFloor {
			return
		}
		b.onFloor = true
		b.floorNormal = result.CollisionNormal
		b.floorBody = result.Collider
		b.floorVelocity = result.ColliderVelocity

		if b.stopOnSlope {
			// Recovery may push the body sideways, so only keep the motion along the up direction.
			if result.Motion.Len() > b.margin {
				result.Motion = b.upDirection.Mul(b.upDirection.Dot(result.Motion))
			} else {
				result.Motion = mgl64.Vec3{}
			}
		}
	}
	b.node.SetTransform(physics.Translated(b.node.Transform(), result.Motion))
	b.log.Debugf("body %d snapped by %v onto %d", b.id, result.Motion, result.Collider)
}

// separateRaycastShapes resolves the overlap of the separation rays of the body. The body is moved by the
// recovery vector and the deepest of the contacts found is returned.
func (b *Body) separateRaycastShapes() (physics.MotionResult, bool) {
	var results [game.MaxRaySeparations]physics.SeparationResult

	t := b.node.Transform()
	recovery, hits := b.server.TestRaySeparation(b.id, t, b.infiniteInertia, b.margin, results[:])
	hits = min(hits, len(results))

	deepest := -1
	for i := 0; i < hits; i++ {
		if deepest == -1 || results[i].CollisionDepth > results[deepest].CollisionDepth {
			deepest = i
		}
	}

	b.node.SetTransform(physics.Translated(t, recovery))
	if deepest == -1 {
		return physics.MotionResult{}, false
	}

	sep := results[deepest]
	return physics.MotionResult{
		Motion:           recovery,
		CollisionPoint:   sep.CollisionPoint,
		CollisionNormal:  sep.CollisionNormal,
		CollisionDepth:   sep.CollisionDepth,
		Collider:         sep.Collider,
		ColliderVelocity: sep.ColliderVelocity,
		ColliderShape:    sep.ColliderShape,
		LocalShape:       sep.LocalShape,
	}, true
}
