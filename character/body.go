package character

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/sirupsen/logrus"
)

// Options holds the configuration of a Body. Options should be obtained through DefaultOptions and then
// modified: values that violate their preconditions are logged and replaced by the defaults.
type Options struct {
	SafeMargin      float64
	MaxSlides       int
	FloorMaxAngle   float64
	UpDirection     mgl64.Vec3
	Snap            mgl64.Vec3
	StopOnSlope     bool
	InfiniteInertia bool
}

// DefaultOptions returns the default body configuration.
func DefaultOptions() Options {
	return Options{
		SafeMargin:      game.DefaultSafeMargin,
		MaxSlides:       game.DefaultMaxSlides,
		FloorMaxAngle:   game.DefaultFloorMaxAngle,
		UpDirection:     game.DefaultUpDirection,
		InfiniteInertia: true,
	}
}

// Body is a kinematic body moved by explicit displacement requests. It resolves contacts with the
// obstacles reported by its physics.Server and slides along them. A Body is not safe for concurrent use:
// it is meant to be driven from the simulation loop that owns it.
type Body struct {
	log    *logrus.Logger
	server physics.Server
	node   physics.Node
	id     physics.BodyID

	linearVelocity mgl64.Vec3

	upDirection     mgl64.Vec3
	margin          float64
	maxSlides       int
	floorMaxAngle   float64
	snap            mgl64.Vec3
	stopOnSlope     bool
	infiniteInertia bool

	onFloor, onWall, onCeiling bool
	floorNormal                mgl64.Vec3
	floorVelocity              mgl64.Vec3
	floorBody                  physics.BodyID

	motionResults []physics.MotionResult
}

// New creates a Body identified by id in server. The transform of the body is read from and written to
// node; if node is nil, the body keeps its own transform starting at the identity.
func New(log *logrus.Logger, server physics.Server, node physics.Node, id physics.BodyID, opts Options) *Body {
	if log == nil {
		log = game.NopLogger()
	}
	if node == nil {
		node = physics.NewTransformNode(mgl64.Ident4())
	}
	b := &Body{
		log:    log,
		server: server,
		node:   node,
		id:     id,

		upDirection:   game.DefaultUpDirection,
		margin:        game.DefaultSafeMargin,
		maxSlides:     game.DefaultMaxSlides,
		floorMaxAngle: game.DefaultFloorMaxAngle,
	}
	if server == nil {
		log.Errorf(game.ErrorNoServer, id)
	}

	b.SetSafeMargin(opts.SafeMargin)
	b.SetMaxSlides(opts.MaxSlides)
	b.SetFloorMaxAngle(opts.FloorMaxAngle)
	b.SetUpDirection(opts.UpDirection)
	b.SetSnap(opts.Snap)
	b.SetStopOnSlope(opts.StopOnSlope)
	b.SetInfiniteInertia(opts.InfiniteInertia)
	return b
}

// ID returns the identity of the body in its physics server.
func (b *Body) ID() physics.BodyID {
	return b.id
}

// Transform returns the current world transform of the body.
func (b *Body) Transform() mgl64.Mat4 {
	return b.node.Transform()
}

// Position returns the origin of the body's world transform.
func (b *Body) Position() mgl64.Vec3 {
	return physics.Origin(b.node.Transform())
}

// LinearVelocity returns the velocity used by MoveAndSlide.
func (b *Body) LinearVelocity() mgl64.Vec3 {
	return b.linearVelocity
}

// SetLinearVelocity sets the velocity used by MoveAndSlide.
func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	b.linearVelocity = v
}

// OnFloor returns true if the last slide resolution left the body on a floor.
func (b *Body) OnFloor() bool {
	return b.onFloor
}

// OnWall returns true if the last slide resolution left the body against a wall.
func (b *Body) OnWall() bool {
	return b.onWall
}

// OnCeiling returns true if the last slide resolution left the body against a ceiling.
func (b *Body) OnCeiling() bool {
	return b.onCeiling
}

// FloorNormal returns the normal of the floor the body is on, or the zero vector.
func (b *Body) FloorNormal() mgl64.Vec3 {
	return b.floorNormal
}

// FloorVelocity returns the velocity of the body supporting this one, as reported by the last contact.
func (b *Body) FloorVelocity() mgl64.Vec3 {
	return b.floorVelocity
}

// FloorBody returns the body currently supporting this one, or physics.NoBody.
func (b *Body) FloorBody() physics.BodyID {
	return b.floorBody
}

// SlideCollisionCount returns the amount of contacts gathered by the last slide resolution.
func (b *Body) SlideCollisionCount() int {
	return len(b.motionResults)
}

// SlideCollision returns the i-th contact gathered by the last slide resolution.
func (b *Body) SlideCollision(i int) (Collision, bool) {
	if i < 0 || i >= len(b.motionResults) {
		b.log.Errorf(game.ErrorSlideIndex, i, len(b.motionResults))
		return Collision{}, false
	}
	return Collision{MotionResult: b.motionResults[i]}, true
}

// SafeMargin ...
func (b *Body) SafeMargin() float64 {
	return b.margin
}

// SetSafeMargin sets the distance kept between the body and obstacles. It must be positive.
func (b *Body) SetSafeMargin(margin float64) {
	if margin <= 0 {
		b.log.Errorf(game.ErrorInvalidMargin, margin)
		return
	}
	b.margin = margin
}

// MaxSlides ...
func (b *Body) MaxSlides() int {
	return b.maxSlides
}

// SetMaxSlides sets the maximum amount of sweeps a slide resolution performs. It must be positive.
func (b *Body) SetMaxSlides(n int) {
	if n <= 0 {
		b.log.Errorf(game.ErrorInvalidMaxSlides, n)
		return
	}
	b.maxSlides = n
}

// FloorMaxAngle ...
func (b *Body) FloorMaxAngle() float64 {
	return b.floorMaxAngle
}

// SetFloorMaxAngle sets the steepest angle, in radians, a surface may have to count as a floor.
func (b *Body) SetFloorMaxAngle(radians float64) {
	if radians < 0 || radians > mgl64.DegToRad(180) {
		b.log.Errorf(game.ErrorInvalidFloorAngle, radians)
		return
	}
	b.floorMaxAngle = radians
}

// UpDirection ...
func (b *Body) UpDirection() mgl64.Vec3 {
	return b.upDirection
}

// SetUpDirection sets the direction considered up. The vector is normalized; the zero vector disables
// floor and ceiling detection so that every contact counts as a wall.
func (b *Body) SetUpDirection(up mgl64.Vec3) {
	b.upDirection = game.SafeNormalize(up)
}

// Snap ...
func (b *Body) Snap() mgl64.Vec3 {
	return b.snap
}

// SetSnap sets the vector used to stick the body back onto the floor after sliding. The zero vector
// disables snapping.
func (b *Body) SetSnap(snap mgl64.Vec3) {
	b.snap = snap
}

// StopOnSlope ...
func (b *Body) StopOnSlope() bool {
	return b.stopOnSlope
}

// SetStopOnSlope sets whether a body resting on a slope is kept from sliding down.
func (b *Body) SetStopOnSlope(enabled bool) {
	b.stopOnSlope = enabled
}

// InfiniteInertia ...
func (b *Body) InfiniteInertia() bool {
	return b.infiniteInertia
}

// SetInfiniteInertia sets whether the body ignores the bodies it would otherwise push.
func (b *Body) SetInfiniteInertia(enabled bool) {
	b.infiniteInertia = enabled
}

// attached returns true if the body has a server to query. A violation is logged otherwise.
func (b *Body) attached() bool {
	if b.server == nil {
		b.log.Errorf(game.ErrorNoServer, b.id)
		return false
	}
	return true
}
