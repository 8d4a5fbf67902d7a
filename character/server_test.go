package character

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/physics"
)

// plane is an infinite half space, solid behind its normal, used by planeWorld.
type plane struct {
	id       physics.BodyID
	normal   mgl64.Vec3
	distance float64
	velocity mgl64.Vec3
}

// planeWorld is a physics.Server that treats the moving body as a single point and collides it with a set
// of planes. Contact is made once the point is within the margin of a plane.
type planeWorld struct {
	planes     []plane
	separation func(call int, results []physics.SeparationResult) (mgl64.Vec3, int)

	motions     []physics.MotionParameters
	separations int
}

func (w *planeWorld) TestMotion(_ physics.BodyID, p physics.MotionParameters) (bool, physics.MotionResult) {
	w.motions = append(w.motions, p)
	pos := physics.Origin(p.From)

	var recovered mgl64.Vec3
	contact := -1
	for i, pl := range w.planes {
		if p.Excludes(pl.id) {
			continue
		}
		if s := pl.normal.Dot(pos.Add(recovered)) - pl.distance; s < 0 {
			recovered = recovered.Add(pl.normal.Mul(p.Margin - s))
			contact = i
		}
	}
	pos = pos.Add(recovered)

	safe := 1.0
	for i, pl := range w.planes {
		if p.Excludes(pl.id) {
			continue
		}
		approach := -pl.normal.Dot(p.Motion)
		if approach <= 1e-12 {
			continue
		}
		s := pl.normal.Dot(pos) - pl.distance
		if t := math.Max((s-p.Margin)/approach, 0); t < safe {
			safe, contact = t, i
		}
	}
	if contact == -1 {
		return false, physics.MotionResult{Motion: p.Motion, CollisionSafeFraction: 1, CollisionUnsafeFraction: 1}
	}

	pl := w.planes[contact]
	end := pos.Add(p.Motion.Mul(safe))
	s := pl.normal.Dot(end) - pl.distance
	return true, physics.MotionResult{
		Motion:                  recovered.Add(p.Motion.Mul(safe)),
		Remainder:               p.Motion.Sub(p.Motion.Mul(safe)),
		CollisionPoint:          end.Sub(pl.normal.Mul(s)),
		CollisionNormal:         pl.normal,
		CollisionDepth:          math.Max(p.Margin-s, 0),
		CollisionSafeFraction:   safe,
		CollisionUnsafeFraction: safe,
		Collider:                pl.id,
		ColliderVelocity:        pl.velocity,
	}
}

func (w *planeWorld) TestRaySeparation(_ physics.BodyID, _ mgl64.Mat4, _ bool, _ float64, results []physics.SeparationResult) (mgl64.Vec3, int) {
	call := w.separations
	w.separations++
	if w.separation == nil {
		return mgl64.Vec3{}, 0
	}
	return w.separation(call, results)
}

func (w *planeWorld) BodyLinearVelocity(id physics.BodyID) (mgl64.Vec3, bool) {
	for _, pl := range w.planes {
		if pl.id == id {
			return pl.velocity, true
		}
	}
	return mgl64.Vec3{}, false
}

// scriptedServer answers motion queries through a callback, recording every query it receives.
type scriptedServer struct {
	motion func(call int, p physics.MotionParameters) (bool, physics.MotionResult)

	motions     []physics.MotionParameters
	separations int
}

func (s *scriptedServer) TestMotion(_ physics.BodyID, p physics.MotionParameters) (bool, physics.MotionResult) {
	call := len(s.motions)
	s.motions = append(s.motions, p)
	return s.motion(call, p)
}

func (s *scriptedServer) TestRaySeparation(physics.BodyID, mgl64.Mat4, bool, float64, []physics.SeparationResult) (mgl64.Vec3, int) {
	s.separations++
	return mgl64.Vec3{}, 0
}

func (s *scriptedServer) BodyLinearVelocity(physics.BodyID) (mgl64.Vec3, bool) {
	return mgl64.Vec3{}, false
}

// singleSeparation returns a separation callback reporting one contact on the first call only.
func singleSeparation(recovery mgl64.Vec3, result physics.SeparationResult) func(int, []physics.SeparationResult) (mgl64.Vec3, int) {
	return func(call int, results []physics.SeparationResult) (mgl64.Vec3, int) {
		if call != 0 {
			return mgl64.Vec3{}, 0
		}
		results[0] = result
		return recovery, 1
	}
}

func newTestBody(server physics.Server, pos mgl64.Vec3, opts Options) *Body {
	return New(nil, server, physics.NewTransformNode(physics.At(pos)), 1, opts)
}

func vecNear(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}
