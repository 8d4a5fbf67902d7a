package physics

// BodyMode is the way a body is moved by a physics engine.
type BodyMode uint8

const (
	// ModeStatic bodies never move.
	ModeStatic BodyMode = iota
	// ModeKinematic bodies move with their linear velocity and are not affected by other bodies. Moving
	// platforms are kinematic bodies.
	ModeKinematic
	// ModeRigid bodies are moved by the engine: they fall with gravity and rest on other bodies.
	ModeRigid
	// ModeCharacter bodies are moved explicitly through motion queries.
	ModeCharacter
)

// String ...
func (m BodyMode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeKinematic:
		return "kinematic"
	case ModeRigid:
		return "rigid"
	case ModeCharacter:
		return "character"
	}
	return "unknown"
}
