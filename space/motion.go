package space

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
)

// restTolerance is how far past the margin an obstacle may be while still counting as a resting contact.
const restTolerance = 1e-7

// awayTolerance is how far along a contact normal a motion may point while still running along the
// obstacle instead of leaving it.
const awayTolerance = 1e-12

// part is a shape of a moving body, as the box it covers in the local space of the body.
type part struct {
	index int
	box   cube.BBox
}

// sweepResult is the outcome of moving a set of parts through a set of obstacles.
type sweepResult struct {
	recovered     mgl64.Vec3
	recoveredFrom int

	safe    float64
	hit     int
	hitPart int
	normal  mgl64.Vec3
}

// parts returns the shapes of b that move with it. Separation rays are left out if excludeRays is set.
func (s *Space) parts(b *body, excludeRays bool) []part {
	parts := make([]part, 0, len(b.shapes))
	for i, sh := range b.shapes {
		switch sh := sh.(type) {
		case Box:
			parts = append(parts, part{index: i, box: sh.BBox})
		case Ray:
			if !excludeRays {
				parts = append(parts, part{index: i, box: sh.bounds()})
			}
		default:
			s.log.Debugf(game.ErrorUnsupportedShape, b.id, i, sh)
		}
	}
	return parts
}

// obstacles returns the shapes of every body self may collide with. s.mu must be held.
func (s *Space) obstacles(self *body, exclude func(physics.BodyID) bool, infiniteInertia bool) []obstacle {
	var obstacles []obstacle
	for el := s.bodies.Front(); el != nil; el = el.Next() {
		b := el.Value
		if b == self || !b.inScene || (infiniteInertia && b.mode == physics.ModeRigid) {
			continue
		}
		if exclude != nil && exclude(b.id) {
			continue
		}
		origin := physics.Origin(b.transform)
		for i := range b.shapes {
			if o, ok := place(b, i, origin); ok {
				obstacles = append(obstacles, o)
			}
		}
	}
	return obstacles
}

// sweep first pushes the parts at origin out of any obstacle closer than margin, then finds the fraction
// of motion they can travel before coming within margin of an obstacle.
func sweep(parts []part, obstacles []obstacle, origin, motion mgl64.Vec3, margin float64) sweepResult {
	r := sweepResult{recoveredFrom: -1, safe: 1, hit: -1}
	for range game.RecoveryIterations {
		best, depth := -1, 0.0
		var normal mgl64.Vec3
		for _, p := range parts {
			box := p.box.Translate(origin.Add(r.recovered)).Grow(margin)
			for j, o := range obstacles {
				if d, n, ok := o.penetration(box); ok && d > depth {
					best, depth, normal = j, d, n
				}
			}
		}
		if best == -1 {
			break
		}
		r.recovered = r.recovered.Add(normal.Mul(depth))
		r.recoveredFrom = best
	}

	start := origin.Add(r.recovered)
	for i, p := range parts {
		box := p.box.Translate(start)
		for j, o := range obstacles {
			if t, n, ok := o.sweep(box, motion, margin); ok && t < r.safe {
				r.safe, r.hit, r.hitPart, r.normal = t, j, i, n
			}
		}
	}
	return r
}

// restContact fills the contact information of result with the obstacle the parts rest against at end. The
// obstacle hit by the sweep is preferred; otherwise the deepest obstacle within the margin is used, leaving
// out obstacles the motion leads away from.
func restContact(result *physics.MotionResult, r sweepResult, parts []part, obstacles []obstacle, end, motion mgl64.Vec3, margin float64) bool {
	oi, pi, normal := r.hit, r.hitPart, r.normal
	depth := 0.0
	if oi != -1 {
		if d, _, ok := obstacles[oi].penetration(parts[pi].box.Translate(end).Grow(margin)); ok {
			depth = d
		}
	} else {
		best := math.Inf(-1)
		for i, p := range parts {
			box := p.box.Translate(end).Grow(margin + restTolerance)
			for j, o := range obstacles {
				d, n, ok := o.penetration(box)
				if !ok || n.Dot(motion) > awayTolerance {
					continue
				}
				d -= restTolerance
				if d > best+overlapTolerance || (math.Abs(d-best) <= overlapTolerance && n.Dot(motion) < normal.Dot(motion)) {
					best, oi, pi, normal = d, j, i, n
				}
			}
		}
		if oi == -1 {
			return false
		}
		depth = math.Max(best, 0)
	}

	o := obstacles[oi]
	result.CollisionNormal = normal
	result.CollisionDepth = depth
	result.CollisionPoint = o.closest(center(parts[pi].box.Translate(end)))
	result.Collider = o.body.id
	result.ColliderVelocity = o.body.velocity
	result.ColliderShape = o.index
	result.LocalShape = parts[pi].index
	return true
}

// TestMotion implements physics.Server. The shapes of the body are first pushed out of any obstacle
// closer than the margin, then swept along the motion. A body ending the motion within the margin of an
// obstacle it does not move away from collides with it, even if the motion was free. Rigid bodies are
// ignored if p.InfiniteInertia is set.
func (s *Space) TestMotion(id physics.BodyID, p physics.MotionParameters) (bool, physics.MotionResult) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.body(id)
	if !ok {
		return false, physics.MotionResult{Motion: p.Motion, CollisionSafeFraction: 1, CollisionUnsafeFraction: 1}
	}
	parts := s.parts(b, p.ExcludeRaycastShapes)
	obstacles := s.obstacles(b, p.Excludes, p.InfiniteInertia)
	origin := physics.Origin(p.From)

	r := sweep(parts, obstacles, origin, p.Motion, p.Margin)
	travel := p.Motion.Mul(r.safe)
	result := physics.MotionResult{
		Motion:                  r.recovered.Add(travel),
		Remainder:               p.Motion.Sub(travel),
		CollisionSafeFraction:   r.safe,
		CollisionUnsafeFraction: r.safe,
	}
	if !restContact(&result, r, parts, obstacles, origin.Add(result.Motion), p.Motion, p.Margin) {
		// Nothing within the margin at the end, or only obstacles the motion leads away from.
		return false, result
	}
	return true, result
}

// TestRaySeparation implements physics.Server. Every separation ray of the body is cast over its length
// plus the margin; a ray hitting something closer than its length pushes the body back along the ray.
func (s *Space) TestRaySeparation(id physics.BodyID, from mgl64.Mat4, infiniteInertia bool, margin float64, results []physics.SeparationResult) (mgl64.Vec3, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.body(id)
	if !ok {
		return mgl64.Vec3{}, 0
	}
	obstacles := s.obstacles(b, nil, infiniteInertia)
	origin := physics.Origin(from)

	var recovery mgl64.Vec3
	n := 0
	for i, sh := range b.shapes {
		ray, ok := sh.(Ray)
		if !ok {
			continue
		}
		dir := game.SafeNormalize(ray.Direction)
		if game.IsZeroVec(dir) {
			continue
		}
		start := origin.Add(ray.Origin)

		best, distance := -1, 0.0
		var normal mgl64.Vec3
		for j, o := range obstacles {
			if h, hn, ok := o.cast(start, dir, ray.Length+margin); ok && (best == -1 || h < distance) {
				best, distance, normal = j, h, hn
			}
		}
		if best == -1 {
			continue
		}

		depth := ray.Length - distance
		if need := depth - recovery.Dot(dir.Mul(-1)); need > 0 {
			recovery = recovery.Add(dir.Mul(-need))
		}
		if n == len(results) {
			continue
		}
		o := obstacles[best]
		results[n] = physics.SeparationResult{
			CollisionDepth:   math.Max(depth, 0),
			CollisionPoint:   start.Add(dir.Mul(distance)),
			CollisionNormal:  normal,
			Collider:         o.body.id,
			ColliderVelocity: o.body.velocity,
			ColliderShape:    o.index,
			LocalShape:       i,
		}
		n++
	}
	return recovery, n
}
