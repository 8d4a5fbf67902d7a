package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultSafeMargin is the distance kept between a moving shape and the obstacles around it.
	DefaultSafeMargin = 0.08
	// DefaultMaxSlides is the amount of sweep attempts a single slide resolution may perform.
	DefaultMaxSlides = 4
	// DefaultFloorMaxAngle is the steepest surface, in radians, still considered a floor.
	DefaultFloorMaxAngle = math.Pi / 4

	// FloorAngleThreshold is added to the floor max angle when classifying contacts, so surfaces that
	// sit exactly on the limit do not flicker between floor and wall.
	FloorAngleThreshold = 0.01
	// StopOnSlopeThreshold is the maximum length of (velocity direction + up) for the velocity to be
	// considered pointing straight into the floor.
	StopOnSlopeThreshold = 0.01
	// CancelSlidingPrecision is the base tolerance used when removing recovery induced sliding.
	CancelSlidingPrecision = 0.001
	// CmpEpsilon is the length under which a vector is treated as zero.
	CmpEpsilon = 1e-6

	// MaxRaySeparations is the amount of ray contacts gathered per separation query. Any contact past
	// this cap is dropped.
	MaxRaySeparations = 8

	// RecoveryIterations is the amount of depenetration passes the reference space performs before
	// sweeping a shape.
	RecoveryIterations = 4
	// DefaultContactMargin is the margin the reference space uses to gather rigid body contacts.
	DefaultContactMargin = 0.01
	// DefaultSleepThreshold is the linear speed under which a rigid body starts counting towards sleep.
	DefaultSleepThreshold = 0.1
	// DefaultTimeToSleep is the time, in seconds, a rigid body must stay under the sleep threshold.
	DefaultTimeToSleep = 0.5
	// DefaultMaxContactsReported is the amount of contacts a rigid body reports each step.
	DefaultMaxContactsReported = 8
	// DefaultTickRate is the amount of simulation steps per second used by the examples.
	DefaultTickRate = 60
)

var (
	// DefaultUpDirection is the up direction used when none is configured.
	DefaultUpDirection = mgl64.Vec3{0, 1, 0}
	// DefaultGravity is the gravity applied to rigid bodies in the reference space.
	DefaultGravity = mgl64.Vec3{0, -9.8, 0}
)
