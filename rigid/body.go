package rigid

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/contact"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/sirupsen/logrus"
)

// Body is a body moved by the physics engine. Every step, the engine hands the new state of the body to
// OnStateChanged, which synchronises the body and, if contact monitoring is enabled, fires contact events.
type Body struct {
	log    *logrus.Logger
	server StateServer
	scene  contact.SceneMembership
	node   physics.Node
	id     physics.BodyID
	mode   physics.BodyMode

	mass                float64
	gravityScale        float64
	linearVelocity      mgl64.Vec3
	sleeping            bool
	canSleep            bool
	maxContactsReported int

	h          Handler
	integrator Integrator
	monitor    *contact.Monitor
	contacts   []physics.Contact
}

// New creates a Body for the body id of server and registers it to receive the state of the body every
// step. A nil server is logged and leaves the body detached: it keeps its own state but never steps. The transform of the body is written to node. scene is used by the contact monitor to follow
// other bodies entering and exiting the scene and may be nil.
func New(log *logrus.Logger, server StateServer, scene contact.SceneMembership, node physics.Node, id physics.BodyID, mode physics.BodyMode) *Body {
	if log == nil {
		log = game.NopLogger()
	}
	if node == nil {
		node = physics.NewTransformNode(mgl64.Ident4())
	}
	b := &Body{
		log:          log,
		server:       server,
		scene:        scene,
		node:         node,
		id:           id,
		mode:         mode,
		mass:         1,
		gravityScale: 1,
		canSleep:     true,

		maxContactsReported: game.DefaultMaxContactsReported,

		h: NopHandler{},
	}
	if server == nil {
		log.Errorf(game.ErrorNoServer, id)
		return b
	}
	server.BodySetStateCallback(id, b.OnStateChanged)
	return b
}

// attached returns true if the body has a server to forward changes to. A violation is logged otherwise.
func (b *Body) attached() bool {
	if b.server == nil {
		b.log.Errorf(game.ErrorNoServer, b.id)
		return false
	}
	return true
}

// Handle sets the handler of the body's events. Passing nil resets it to a NopHandler.
func (b *Body) Handle(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	b.h = h
	if b.monitor != nil {
		b.monitor.Handle(h)
	}
}

// SetIntegrator sets the observer called with the state of the body every step. Passing nil removes it.
func (b *Body) SetIntegrator(i Integrator) {
	b.integrator = i
}

// ID ...
func (b *Body) ID() physics.BodyID {
	return b.id
}

// Mode ...
func (b *Body) Mode() physics.BodyMode {
	return b.mode
}

// Transform returns the transform of the body as of the last step.
func (b *Body) Transform() mgl64.Mat4 {
	return b.node.Transform()
}

// Mass ...
func (b *Body) Mass() float64 {
	return b.mass
}

// SetMass sets the mass of the body. It must be positive.
func (b *Body) SetMass(mass float64) {
	if mass <= 0 {
		b.log.Errorf(game.ErrorInvalidMass, mass)
		return
	}
	b.mass = mass
}

// ApplyImpulse changes the velocity of the body by impulse divided by its mass.
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	b.SetLinearVelocity(b.linearVelocity.Add(impulse.Mul(1 / b.mass)))
}

// GravityScale ...
func (b *Body) GravityScale() float64 {
	return b.gravityScale
}

// SetGravityScale sets the factor gravity is multiplied with for this body.
func (b *Body) SetGravityScale(scale float64) {
	b.gravityScale = scale
	if b.attached() {
		b.server.BodySetGravityScale(b.id, scale)
	}
}

// LinearVelocity returns the velocity of the body as of the last step.
func (b *Body) LinearVelocity() mgl64.Vec3 {
	return b.linearVelocity
}

// SetLinearVelocity sets the velocity of the body, waking it up.
func (b *Body) SetLinearVelocity(v mgl64.Vec3) {
	b.linearVelocity = v
	if b.attached() {
		b.server.BodySetLinearVelocity(b.id, v)
	}
}

// Sleeping ...
func (b *Body) Sleeping() bool {
	return b.sleeping
}

// CanSleep ...
func (b *Body) CanSleep() bool {
	return b.canSleep
}

// SetCanSleep sets whether the engine may put the body to sleep once it comes to rest.
func (b *Body) SetCanSleep(canSleep bool) {
	b.canSleep = canSleep
	if b.attached() {
		b.server.BodySetCanSleep(b.id, canSleep)
	}
}

// MaxContactsReported ...
func (b *Body) MaxContactsReported() int {
	return b.maxContactsReported
}

// SetMaxContactsReported sets the amount of contacts the engine reports for the body every step. Contact
// events are only fired for reported contacts.
func (b *Body) SetMaxContactsReported(n int) {
	if n < 0 {
		b.log.Errorf(game.ErrorInvalidMaxContacts, n)
		return
	}
	b.maxContactsReported = n
	if b.attached() {
		b.server.BodySetMaxContactsReported(b.id, n)
	}
}

// ContactMonitor returns true if contact monitoring is enabled.
func (b *Body) ContactMonitor() bool {
	return b.monitor != nil
}

// SetContactMonitor enables or disables contact monitoring. contact.ErrLocked is returned if this is
// called from a contact event handler of the body: the change must then be made after the step.
func (b *Body) SetContactMonitor(enabled bool) error {
	if enabled == (b.monitor != nil) {
		return nil
	}
	if !enabled {
		if err := b.monitor.Close(); err != nil {
			return err
		}
		b.monitor = nil
		return nil
	}
	b.monitor = contact.NewMonitor(b.log, b.scene)
	b.monitor.Handle(b.h)
	return nil
}

// CollidingBodies returns the bodies touching this one. Contact monitoring must be enabled and contacts
// must be reported for this to return anything.
func (b *Body) CollidingBodies() []physics.BodyID {
	if b.monitor == nil {
		b.log.Errorf(game.ErrorContactMonitorOff)
		return nil
	}
	return b.monitor.CollidingBodies()
}

// OnStateChanged synchronises the body with the state passed. It is called by the engine after every step.
func (b *Body) OnStateChanged(state physics.DirectBodyState) {
	if b.mode != physics.ModeKinematic {
		b.node.SetTransform(state.Transform())
	}
	b.linearVelocity = state.LinearVelocity()
	if sleeping := state.Sleeping(); sleeping != b.sleeping {
		b.sleeping = sleeping
		b.h.HandleSleepingStateChanged(sleeping)
	}
	if b.integrator != nil {
		b.integrator.IntegrateForces(state)
		b.linearVelocity = state.LinearVelocity()
	}

	if b.monitor == nil {
		return
	}
	b.contacts = b.contacts[:0]
	for i := range state.ContactCount() {
		b.contacts = append(b.contacts, state.Contact(i))
	}
	if err := b.monitor.Update(b.contacts); err != nil {
		b.log.Errorf("rigid body %d: %v", b.id, err)
	}
}
