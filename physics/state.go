package physics

import "github.com/go-gl/mathgl/mgl64"

// Contact is a single contact reported for a body at the end of a physics step.
type Contact struct {
	Collider         BodyID
	ColliderShape    int
	LocalShape       int
	Position         mgl64.Vec3
	Normal           mgl64.Vec3
	ColliderVelocity mgl64.Vec3
}

// Pair returns the shape pair touching in the contact.
func (c Contact) Pair() ShapePair {
	return ShapePair{BodyShape: c.ColliderShape, LocalShape: c.LocalShape}
}

// DirectBodyState is the state of a body handed out by the physics engine once per step.
type DirectBodyState interface {
	// Transform returns the transform of the body after the step.
	Transform() mgl64.Mat4
	// LinearVelocity returns the linear velocity of the body after the step.
	LinearVelocity() mgl64.Vec3
	// SetLinearVelocity overwrites the linear velocity of the body in the engine.
	SetLinearVelocity(v mgl64.Vec3)
	// Sleeping returns true if the engine put the body to sleep.
	Sleeping() bool
	// Step returns the length of the step in seconds.
	Step() float64
	// ContactCount returns the amount of contacts reported for the body.
	ContactCount() int
	// Contact returns the contact at index i.
	Contact(i int) Contact
}

// Node is the scene object owning a body: the resolver reads and writes its world transform through it.
type Node interface {
	Transform() mgl64.Mat4
	SetTransform(t mgl64.Mat4)
}

// TransformNode is a Node that simply stores its transform.
type TransformNode struct {
	t mgl64.Mat4
}

// NewTransformNode returns a TransformNode placed at t.
func NewTransformNode(t mgl64.Mat4) *TransformNode {
	return &TransformNode{t: t}
}

// Transform ...
func (n *TransformNode) Transform() mgl64.Mat4 {
	return n.t
}

// SetTransform ...
func (n *TransformNode) SetTransform(t mgl64.Mat4) {
	n.t = t
}
