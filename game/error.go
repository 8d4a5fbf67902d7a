package game

const (
	ErrorNoServer           = "Error: body %d is not attached to a physics server."
	ErrorInvalidDelta       = "Error: move_and_slide requires a positive delta, got %f."
	ErrorInvalidMargin      = "Error: safe margin must be positive, got %f."
	ErrorInvalidMaxSlides   = "Error: max slides must be positive, got %d."
	ErrorInvalidFloorAngle  = "Error: floor max angle must be within [0, pi], got %f."
	ErrorInvalidMass        = "Error: mass must be positive, got %f."
	ErrorInvalidMaxContacts = "Error: max contacts reported must not be negative, got %d."
	ErrorSlideIndex         = "Error: slide collision index %d out of range [0, %d)."
	ErrorUnknownBody        = "Error: body %d is not known to the space."
	ErrorUnsupportedShape   = "Error: body %d can't move shape %d of type %T."
	ErrorContactUntracked   = "Error: body %d is not tracked by the contact monitor."
	ErrorContactSceneState  = "Error: body %d is already marked in_scene=%v."
	ErrorContactMonitorOff  = "Error: contact monitor is closed."
	ErrorContactMonitorLock = "Error: can't change contact monitoring during an in/out callback, defer the change to the next tick."
)
