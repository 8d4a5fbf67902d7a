package character

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

func floorWorld() *planeWorld {
	return &planeWorld{planes: []plane{{id: 1, normal: mgl64.Vec3{0, 1, 0}}}}
}

func TestMoveAndSlideFlatGround(t *testing.T) {
	w := floorWorld()
	b := newTestBody(w, mgl64.Vec3{0, game.DefaultSafeMargin, 0}, DefaultOptions())
	start := b.Position()

	for i := 0; i < 3; i++ {
		b.SetLinearVelocity(mgl64.Vec3{0, -1, 0})
		b.MoveAndSlide(dt)

		require.True(t, b.OnFloor())
		require.False(t, b.OnWall())
		require.True(t, vecNear(start, b.Position()), "tick %d moved a resting body", i)
		require.True(t, vecNear(mgl64.Vec3{}, b.LinearVelocity()))
		require.Equal(t, 1, b.SlideCollisionCount())
	}

	b.SetLinearVelocity(mgl64.Vec3{})
	b.MoveAndSlide(dt)
	require.True(t, vecNear(start, b.Position()))
}

func TestMoveAndSlideAlongFloor(t *testing.T) {
	w := floorWorld()
	b := newTestBody(w, mgl64.Vec3{0, game.DefaultSafeMargin, 0}, DefaultOptions())

	b.SetLinearVelocity(mgl64.Vec3{2, -1, 0})
	b.MoveAndSlide(dt)

	require.True(t, b.OnFloor())
	require.True(t, vecNear(mgl64.Vec3{2 * dt, game.DefaultSafeMargin, 0}, b.Position()))
	require.True(t, vecNear(mgl64.Vec3{2, 0, 0}, b.LinearVelocity()))

	c, ok := b.SlideCollision(0)
	require.True(t, ok)
	require.Equal(t, physics.BodyID(1), c.ColliderID())
	require.True(t, vecNear(mgl64.Vec3{2 * dt, -dt, 0}, c.Travel().Add(c.Remainder())))
}

func TestMoveAndSlideAlongWall(t *testing.T) {
	w := &planeWorld{planes: []plane{{id: 2, normal: mgl64.Vec3{-1, 0, 0}, distance: -1}}}
	b := newTestBody(w, mgl64.Vec3{0, 0, 0}, DefaultOptions())

	b.SetLinearVelocity(mgl64.Vec3{60, 0, 60})
	b.MoveAndSlide(dt)

	require.True(t, b.OnWall())
	require.False(t, b.OnFloor())
	require.InDelta(t, 1-game.DefaultSafeMargin, b.Position().X(), 1e-9)
	require.InDelta(t, 1, b.Position().Z(), 1e-9)
	require.True(t, vecNear(mgl64.Vec3{0, 0, 60}, b.LinearVelocity()))
	require.Equal(t, physics.BodyID(2), b.FloorBody())
}

func TestMoveAndSlideNeverTunnels(t *testing.T) {
	w := &planeWorld{planes: []plane{
		{id: 1, normal: mgl64.Vec3{0, 1, 0}},
		{id: 2, normal: mgl64.Vec3{-1, 0, 0}, distance: -1},
	}}
	b := newTestBody(w, mgl64.Vec3{0, 0.5, 0}, DefaultOptions())

	for i := 0; i < 20; i++ {
		b.SetLinearVelocity(mgl64.Vec3{100, -100, 30})
		b.MoveAndSlide(dt)
		for _, pl := range w.planes {
			require.GreaterOrEqual(t, pl.normal.Dot(b.Position())-pl.distance, game.DefaultSafeMargin-1e-9)
		}
	}
}

func TestMoveAndSlideIterationBound(t *testing.T) {
	normals := [2]mgl64.Vec3{{1, 0, 0}, mgl64.Vec3{1, 0, 1}.Normalize()}
	for _, maxSlides := range []int{1, 2, 4, 7} {
		server := &scriptedServer{motion: func(call int, p physics.MotionParameters) (bool, physics.MotionResult) {
			return true, physics.MotionResult{Remainder: p.Motion, CollisionNormal: normals[call%2], Collider: 3}
		}}
		opts := DefaultOptions()
		opts.MaxSlides = maxSlides
		b := newTestBody(server, mgl64.Vec3{}, opts)

		b.SetLinearVelocity(mgl64.Vec3{-1, 0, -2})
		b.MoveAndSlide(dt)

		require.Len(t, server.motions, maxSlides)
		require.Equal(t, maxSlides, server.separations)
		require.Equal(t, maxSlides, b.SlideCollisionCount())
		require.False(t, game.IsZeroVec(server.motions[maxSlides-1].Motion))
	}
}

func TestMoveAndSlideStopOnSlope(t *testing.T) {
	slope := mgl64.Vec3{math.Sin(mgl64.DegToRad(30)), math.Cos(mgl64.DegToRad(30)), 0}
	start := slope.Mul(game.DefaultSafeMargin)

	t.Run("enabled", func(t *testing.T) {
		w := &planeWorld{planes: []plane{{id: 1, normal: slope}}}
		opts := DefaultOptions()
		opts.StopOnSlope = true
		b := newTestBody(w, start, opts)

		for i := 0; i < 5; i++ {
			b.SetLinearVelocity(mgl64.Vec3{0, -5, 0})
			b.MoveAndSlide(dt)
			require.True(t, b.OnFloor())
			require.True(t, vecNear(start, b.Position()))
			require.Equal(t, mgl64.Vec3{}, b.LinearVelocity())
		}
	})
	t.Run("disabled", func(t *testing.T) {
		w := &planeWorld{planes: []plane{{id: 1, normal: slope}}}
		b := newTestBody(w, start, DefaultOptions())

		b.SetLinearVelocity(mgl64.Vec3{0, -5, 0})
		b.MoveAndSlide(dt)
		require.True(t, b.OnFloor())
		require.Greater(t, b.Position().X(), start.X())
		require.Less(t, b.Position().Y(), start.Y())
		require.InDelta(t, 0, b.LinearVelocity().Dot(slope), 1e-9)
	})
}

func TestMoveAndSlidePlatformCarry(t *testing.T) {
	w := &planeWorld{planes: []plane{{id: 7, normal: mgl64.Vec3{0, 1, 0}, velocity: mgl64.Vec3{5, 0, 0}}}}
	b := newTestBody(w, mgl64.Vec3{0, game.DefaultSafeMargin, 0}, DefaultOptions())

	b.SetLinearVelocity(mgl64.Vec3{0, -1, 0})
	b.MoveAndSlide(dt)
	require.True(t, b.OnFloor())
	require.Equal(t, physics.BodyID(7), b.FloorBody())
	require.Equal(t, mgl64.Vec3{5, 0, 0}, b.FloorVelocity())
	require.Equal(t, 0.0, b.Position().X())

	w.motions = nil
	b.SetLinearVelocity(mgl64.Vec3{0, -1, 0})
	b.MoveAndSlide(dt)
	require.InDelta(t, 5*dt, b.Position().X(), 1e-9)
	require.Equal(t, []physics.BodyID{7}, w.motions[0].Exclude)
	require.False(t, w.motions[0].ExcludeRaycastShapes)
	require.True(t, vecNear(mgl64.Vec3{5 * dt, 0, 0}, w.motions[0].Motion))
	require.True(t, b.OnFloor())

	// The platform disappears: the body keeps moving with it for one tick and inherits its velocity.
	w.planes = nil
	b.SetLinearVelocity(mgl64.Vec3{0, -1, 0})
	b.MoveAndSlide(dt)
	require.InDelta(t, 10*dt, b.Position().X(), 1e-9)
	require.False(t, b.OnFloor())
	require.True(t, vecNear(mgl64.Vec3{5, -1, 0}, b.LinearVelocity()))

	b.MoveAndSlide(dt)
	require.True(t, vecNear(mgl64.Vec3{5, -1, 0}, b.LinearVelocity()), "the platform velocity must only be added once")
}

func TestMoveAndSlideSnap(t *testing.T) {
	for _, snap := range []bool{true, false} {
		w := floorWorld()
		opts := DefaultOptions()
		if snap {
			opts.Snap = mgl64.Vec3{0, -0.5, 0}
		}
		b := newTestBody(w, mgl64.Vec3{0, game.DefaultSafeMargin, 0}, opts)

		b.SetLinearVelocity(mgl64.Vec3{0, -1, 0})
		b.MoveAndSlide(dt)
		require.True(t, b.OnFloor())

		// Step down.
		w.planes[0].distance = -0.2
		b.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
		b.MoveAndSlide(dt)

		if snap {
			require.True(t, b.OnFloor())
			require.Equal(t, physics.BodyID(1), b.FloorBody())
			require.InDelta(t, game.DefaultSafeMargin-0.2, b.Position().Y(), 1e-9)
		} else {
			require.False(t, b.OnFloor())
			require.InDelta(t, game.DefaultSafeMargin, b.Position().Y(), 1e-9)
		}
		require.InDelta(t, dt, b.Position().X(), 1e-9)
	}
}

func TestMoveAndSlideSnapRequiresFloor(t *testing.T) {
	w := &planeWorld{planes: []plane{{id: 1, normal: mgl64.Vec3{0, 1, 0}, distance: -0.2}}}
	opts := DefaultOptions()
	opts.Snap = mgl64.Vec3{0, -0.5, 0}
	b := newTestBody(w, mgl64.Vec3{0, game.DefaultSafeMargin, 0}, opts)

	b.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
	b.MoveAndSlide(dt)
	require.False(t, b.OnFloor())
	require.InDelta(t, game.DefaultSafeMargin, b.Position().Y(), 1e-9)
}

func TestMoveAndSlideRaySeparation(t *testing.T) {
	margin := game.DefaultSafeMargin
	w := &planeWorld{
		planes: []plane{{id: 2, normal: mgl64.Vec3{-1, 0, 0}, distance: -1}},
		separation: singleSeparation(mgl64.Vec3{0, 0.25, 0}, physics.SeparationResult{
			CollisionDepth:  0.25,
			CollisionNormal: mgl64.Vec3{0, 1, 0},
			Collider:        9,
			LocalShape:      1,
		}),
	}
	b := newTestBody(w, mgl64.Vec3{1 - margin, 0, 0}, DefaultOptions())

	b.SetLinearVelocity(mgl64.Vec3{6, 0, 6})
	b.MoveAndSlide(0.1)

	require.Equal(t, 2, b.SlideCollisionCount())
	c, _ := b.SlideCollision(1)
	require.Equal(t, physics.BodyID(9), c.ColliderID())
	require.Equal(t, 1, c.LocalShapeIndex())
	require.Equal(t, mgl64.Vec3{}, c.Travel())
	require.True(t, vecNear(mgl64.Vec3{0, 0, 0.6}, c.Remainder()))

	require.True(t, b.OnFloor())
	require.Equal(t, physics.BodyID(9), b.FloorBody())
	require.True(t, vecNear(mgl64.Vec3{1 - margin, 0.25, 0.6}, b.Position()))
}

func TestMoveAndSlideDeepSeparationIgnoresCancelSliding(t *testing.T) {
	margin := game.DefaultSafeMargin
	tilted := mgl64.Vec3{0, 1, -1}.Normalize()
	w := &planeWorld{
		planes: []plane{{id: 2, normal: mgl64.Vec3{-1, 0, 0}, distance: -1}},
		separation: singleSeparation(mgl64.Vec3{0, 0.5, 0}, physics.SeparationResult{
			CollisionDepth:  0.5,
			CollisionNormal: tilted,
			Collider:        9,
		}),
	}
	opts := DefaultOptions()
	opts.StopOnSlope = true
	b := newTestBody(w, mgl64.Vec3{1 - margin, 0, 0}, opts)

	b.SetLinearVelocity(mgl64.Vec3{1, 0, 1})
	b.MoveAndSlide(0.1)

	// The separation applies its whole recovery even though the contact is deeper than the margin, and its
	// normal redirects the motion of the next sweep.
	require.Len(t, w.motions, 2)
	require.True(t, vecNear(mgl64.Vec3{0, 0.05, 0.05}, w.motions[1].Motion))
	require.True(t, vecNear(mgl64.Vec3{1 - margin, 0.55, 0.05}, b.Position()))
}

func TestMoveAndSlidePreconditions(t *testing.T) {
	t.Run("delta", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		w := floorWorld()
		b := New(log, w, nil, 1, DefaultOptions())
		b.SetLinearVelocity(mgl64.Vec3{1, 0, 0})

		b.MoveAndSlide(0)
		b.MoveAndSlide(-dt)
		require.Empty(t, w.motions)
		require.Len(t, hook.Entries, 2)
		require.Equal(t, mgl64.Vec3{}, b.Position())
	})
	t.Run("no server", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		b := New(log, nil, nil, 5, DefaultOptions())
		require.Len(t, hook.Entries, 1)

		b.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
		b.MoveAndSlide(dt)
		require.Equal(t, mgl64.Vec3{}, b.Position())
		require.Contains(t, hook.LastEntry().Message, "not attached")
	})
}

func TestMoveAndSlideLogsContacts(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	b := New(log, floorWorld(), physics.NewTransformNode(physics.At(mgl64.Vec3{0, game.DefaultSafeMargin, 0})), 1, DefaultOptions())

	b.SetLinearVelocity(mgl64.Vec3{2, -1, 0})
	b.MoveAndSlide(dt)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.DebugLevel, entry.Level)
	require.Equal(t, "body 1 slide 0 pass 0", entry.Message)
	require.Equal(t, physics.BodyID(1), entry.Data["collider"])
	require.Equal(t, DirectionFloor, entry.Data["direction"])
	require.Equal(t, mgl64.Vec3{0, 1, 0}, entry.Data["normal"])
	require.Contains(t, entry.Data, "remainder")

	hook.Reset()
	log.SetLevel(logrus.InfoLevel)
	b.SetLinearVelocity(mgl64.Vec3{2, -1, 0})
	b.MoveAndSlide(dt)
	require.Empty(t, hook.Entries)
}
