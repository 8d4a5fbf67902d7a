package contact

import "github.com/oomph-ac/kinematic/physics"

// Handler handles the events fired by a Monitor. Events are only fired for bodies that are in the scene.
type Handler interface {
	// HandleBodyEntered is called when the first shape pair between the monitored body and another body
	// starts touching.
	HandleBodyEntered(id physics.BodyID)
	// HandleBodyExited is called when the last shape pair between the monitored body and another body
	// stops touching. It is always preceded by HandleBodyShapeExited for that pair.
	HandleBodyExited(id physics.BodyID)
	// HandleBodyShapeEntered is called when a shape of another body starts touching a shape of the monitored
	// body.
	HandleBodyShapeEntered(id physics.BodyID, pair physics.ShapePair)
	// HandleBodyShapeExited is called when a shape of another body stops touching a shape of the monitored
	// body.
	HandleBodyShapeExited(id physics.BodyID, pair physics.ShapePair)
}

// NopHandler implements Handler and does nothing. It may be embedded to only implement some of the events.
type NopHandler struct{}

// Compile time check to make sure NopHandler implements Handler.
var _ Handler = NopHandler{}

func (NopHandler) HandleBodyEntered(physics.BodyID)                        {}
func (NopHandler) HandleBodyExited(physics.BodyID)                         {}
func (NopHandler) HandleBodyShapeEntered(physics.BodyID, physics.ShapePair) {}
func (NopHandler) HandleBodyShapeExited(physics.BodyID, physics.ShapePair)  {}

// SceneListener is notified when a body enters or leaves the scene.
type SceneListener interface {
	BodyEnteredScene(id physics.BodyID)
	BodyExitedScene(id physics.BodyID)
}

// SceneMembership reports whether bodies are part of the scene and lets listeners follow changes to that.
type SceneMembership interface {
	// InScene returns true if the body passed is currently in the scene.
	InScene(id physics.BodyID) bool
	// Watch registers l to be notified when the body passed enters or exits the scene.
	Watch(id physics.BodyID, l SceneListener)
	// Unwatch removes a listener registered with Watch.
	Unwatch(id physics.BodyID, l SceneListener)
}
