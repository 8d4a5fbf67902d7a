package rigid

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/contact"
	"github.com/oomph-ac/kinematic/physics"
)

// Handler handles the events of a rigid Body.
type Handler interface {
	contact.Handler
	// HandleSleepingStateChanged is called when the engine puts the body to sleep or wakes it up.
	HandleSleepingStateChanged(sleeping bool)
}

// NopHandler implements Handler and does nothing.
type NopHandler struct {
	contact.NopHandler
}

// Compile time check to make sure NopHandler implements Handler.
var _ Handler = NopHandler{}

func (NopHandler) HandleSleepingStateChanged(bool) {}

// Integrator observes the state of a body once per step, after it was synchronised with the engine. It may
// change the velocity of the body through the state passed.
type Integrator interface {
	IntegrateForces(state physics.DirectBodyState)
}

// StateServer is the part of a physics engine a rigid Body configures itself through.
type StateServer interface {
	BodySetLinearVelocity(id physics.BodyID, v mgl64.Vec3)
	BodySetGravityScale(id physics.BodyID, scale float64)
	BodySetCanSleep(id physics.BodyID, canSleep bool)
	BodySetMaxContactsReported(id physics.BodyID, n int)
	BodySetStateCallback(id physics.BodyID, f func(physics.DirectBodyState))
}
