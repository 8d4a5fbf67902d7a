package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
)

// MoveAndCollide moves the body by motion, stopping at the first obstacle within margin. The contact is
// returned along with true if one was found. If testOnly is true, the transform of the body is left
// untouched.
func (b *Body) MoveAndCollide(motion mgl64.Vec3, infiniteInertia, testOnly bool, margin float64) (Collision, bool) {
	if !b.attached() {
		return Collision{}, false
	}
	if margin <= 0 {
		b.log.Errorf(game.ErrorInvalidMargin, margin)
		return Collision{}, false
	}
	result, collided := b.moveAndCollide(motion, infiniteInertia, margin, true, testOnly, false, nil)
	if !collided {
		return Collision{}, false
	}
	return Collision{MotionResult: result}, true
}

// TestMove checks whether moving the body from the transform passed by motion would collide, without
// moving the body.
func (b *Body) TestMove(from mgl64.Mat4, motion mgl64.Vec3, infiniteInertia bool) (Collision, bool) {
	if !b.attached() {
		return Collision{}, false
	}
	collided, result := b.server.TestMotion(b.id, physics.MotionParameters{
		From:                 from,
		Motion:               motion,
		InfiniteInertia:      infiniteInertia,
		Margin:               b.margin,
		ExcludeRaycastShapes: true,
	})
	if !collided {
		return Collision{}, false
	}
	return Collision{MotionResult: result}, true
}

// moveAndCollide performs a single motion query and commits the resulting transform unless testOnly is
// set. With cancelSliding, motion introduced purely by overlap recovery is projected back onto the
// direction of the requested motion, as long as the contact is shallow enough for that to be safe.
func (b *Body) moveAndCollide(motion mgl64.Vec3, infiniteInertia bool, margin float64, excludeRaycast, testOnly, cancelSliding bool, exclude []physics.BodyID) (physics.MotionResult, bool) {
	t := b.node.Transform()
	colliding, result := b.server.TestMotion(b.id, physics.MotionParameters{
		From:                 t,
		Motion:               motion,
		InfiniteInertia:      infiniteInertia,
		Margin:               margin,
		ExcludeRaycastShapes: excludeRaycast,
		Exclude:              exclude,
	})

	if cancelSliding {
		motionLength := motion.Len()
		precision := game.CancelSlidingPrecision

		if colliding {
			// The depth is measured at the unsafe fraction, so a resting contact may be slightly deeper
			// than the margin.
			precision += motionLength * (result.CollisionUnsafeFraction - result.CollisionSafeFraction)
			if result.CollisionDepth > margin+precision {
				cancelSliding = false
			}
		}

		if cancelSliding {
			var motionNormal mgl64.Vec3
			if motionLength > game.CmpEpsilon {
				motionNormal = motion.Mul(1 / motionLength)
			}

			projectedLength := result.Motion.Dot(motionNormal)
			recovery := result.Motion.Sub(motionNormal.Mul(projectedLength))
			if recovery.Len() < margin+precision {
				result.Motion = motionNormal.Mul(projectedLength)
				result.Remainder = motion.Sub(result.Motion)
			}
		}
	}

	if !testOnly {
		b.node.SetTransform(physics.Translated(t, result.Motion))
	}
	return result, colliding
}
