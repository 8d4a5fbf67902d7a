package character

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/stretchr/testify/require"
)

func normalAt(angle float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(angle), math.Cos(angle), 0}
}

func TestClassify(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}
	limit := mgl64.DegToRad(45)

	tests := []struct {
		name   string
		normal mgl64.Vec3
		up     mgl64.Vec3
		want   Direction
	}{
		{"flat", up, up, DirectionFloor},
		{"44.99 degrees", normalAt(mgl64.DegToRad(44.99)), up, DirectionFloor},
		{"within threshold", normalAt(limit + 0.009), up, DirectionFloor},
		{"past threshold", normalAt(limit + 0.02), up, DirectionWall},
		{"vertical", mgl64.Vec3{1, 0, 0}, up, DirectionWall},
		{"overhang", normalAt(math.Pi - mgl64.DegToRad(44.99)), up, DirectionCeiling},
		{"ceiling", mgl64.Vec3{0, -1, 0}, up, DirectionCeiling},
		{"zero up", mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, DirectionWall},
		{"zero normal", mgl64.Vec3{}, up, DirectionWall},
		{"rounding past one", mgl64.Vec3{0, 1 + 1e-12, 0}, up, DirectionFloor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.normal, tt.up, limit))
		})
	}
}

func TestDirectionString(t *testing.T) {
	require.Equal(t, "floor", DirectionFloor.String())
	require.Equal(t, "ceiling", DirectionCeiling.String())
	require.Equal(t, "wall", DirectionWall.String())
}

func TestSetCollisionDirection(t *testing.T) {
	b := newTestBody(&planeWorld{}, mgl64.Vec3{}, DefaultOptions())

	b.setCollisionDirection(physics.MotionResult{CollisionNormal: mgl64.Vec3{0, 1, 0}, Collider: 3, ColliderVelocity: mgl64.Vec3{1, 0, 0}})
	require.True(t, b.OnFloor())
	require.Equal(t, physics.BodyID(3), b.FloorBody())
	require.Equal(t, mgl64.Vec3{1, 0, 0}, b.FloorVelocity())
	require.Equal(t, mgl64.Vec3{0, 1, 0}, b.FloorNormal())

	b.setCollisionDirection(physics.MotionResult{CollisionNormal: mgl64.Vec3{0, -1, 0}, Collider: 4})
	require.True(t, b.OnCeiling())
	require.False(t, b.OnFloor())
	require.Equal(t, physics.BodyID(3), b.FloorBody(), "a ceiling does not replace the recorded floor body")

	b.setCollisionDirection(physics.MotionResult{CollisionNormal: mgl64.Vec3{-1, 0, 0}, Collider: 5, ColliderVelocity: mgl64.Vec3{0, 0, 2}})
	require.True(t, b.OnWall())
	require.Equal(t, physics.BodyID(5), b.FloorBody())
	require.Equal(t, mgl64.Vec3{0, 0, 2}, b.FloorVelocity())
}

func TestSetCollisionDirectionZeroUp(t *testing.T) {
	opts := DefaultOptions()
	opts.UpDirection = mgl64.Vec3{}
	b := newTestBody(&planeWorld{}, mgl64.Vec3{}, opts)

	b.setCollisionDirection(physics.MotionResult{CollisionNormal: mgl64.Vec3{0, 1, 0}, Collider: 3})
	require.True(t, b.OnWall())
	require.False(t, b.OnFloor())
	require.Equal(t, physics.NoBody, b.FloorBody())
}
