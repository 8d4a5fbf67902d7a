package space

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/assert"
	"github.com/oomph-ac/kinematic/contact"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Config holds the parameters of a Space.
type Config struct {
	// Gravity is the acceleration applied to rigid bodies.
	Gravity mgl64.Vec3
	// SleepThreshold is the linear speed under which a rigid body starts counting towards sleep.
	SleepThreshold float64
	// TimeToSleep is the time, in seconds, a rigid body must stay under SleepThreshold to fall asleep.
	TimeToSleep float64
	// ContactMargin is the distance within which rigid bodies rest on and report contacts with others.
	ContactMargin float64
}

// DefaultConfig returns the default Space configuration.
func DefaultConfig() Config {
	return Config{
		Gravity:        game.DefaultGravity,
		SleepThreshold: game.DefaultSleepThreshold,
		TimeToSleep:    game.DefaultTimeToSleep,
		ContactMargin:  game.DefaultContactMargin,
	}
}

// body is a body in a Space.
type body struct {
	id        physics.BodyID
	mode      physics.BodyMode
	transform mgl64.Mat4
	shapes    []Shape
	inScene   bool

	velocity     mgl64.Vec3
	gravityScale float64
	canSleep     bool
	sleeping     bool
	idle         float64

	maxContacts int
	contacts    []physics.Contact
	callback    func(physics.DirectBodyState)
}

// Space is an in-memory collision engine for boxes, planes and separation rays. It answers the motion
// queries of character bodies, moves kinematic platforms and integrates rigid bodies. Transforms are only
// ever translated: rotations are ignored. A Space is safe for concurrent use.
type Space struct {
	log  *logrus.Logger
	conf Config

	mu       deadlock.RWMutex
	bodies   *orderedmap.OrderedMap[physics.BodyID, *body]
	watchers map[physics.BodyID][]contact.SceneListener
	lastID   physics.BodyID
}

// New creates an empty Space.
func New(log *logrus.Logger, conf Config) *Space {
	if log == nil {
		log = game.NopLogger()
	}
	if conf.ContactMargin <= 0 {
		log.Errorf(game.ErrorInvalidMargin, conf.ContactMargin)
		conf.ContactMargin = game.DefaultContactMargin
	}
	return &Space{
		log:      log,
		conf:     conf,
		bodies:   orderedmap.NewOrderedMap[physics.BodyID, *body](),
		watchers: make(map[physics.BodyID][]contact.SceneListener),
	}
}

// AddBody adds a body with the shapes passed to the space, placed at transform. The body starts in the
// scene.
func (s *Space) AddBody(mode physics.BodyMode, transform mgl64.Mat4, shapes ...Shape) physics.BodyID {
	for i, sh := range shapes {
		assert.IsTrue(sh != nil, "shape %d of new %v body is nil", i, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	b := &body{
		id:           s.lastID,
		mode:         mode,
		transform:    transform,
		shapes:       slices.Clone(shapes),
		inScene:      true,
		gravityScale: 1,
		canSleep:     true,
		maxContacts:  game.DefaultMaxContactsReported,
	}
	s.bodies.Set(b.id, b)
	s.log.Debugf("space: added %v body %d with %d shapes", mode, b.id, len(shapes))
	return b.id
}

// RemoveBody removes a body from the space. Listeners watching the body are told it exited the scene.
func (s *Space) RemoveBody(id physics.BodyID) {
	s.mu.Lock()
	b, ok := s.bodies.Get(id)
	if !ok {
		s.mu.Unlock()
		s.log.Errorf(game.ErrorUnknownBody, id)
		return
	}
	s.bodies.Delete(id)
	watchers := slices.Clone(s.watchers[id])
	delete(s.watchers, id)
	s.mu.Unlock()

	if b.inScene {
		for _, l := range watchers {
			l.BodyExitedScene(id)
		}
	}
}

// body returns the body with the id passed, logging an error if it does not exist. s.mu must be held.
func (s *Space) body(id physics.BodyID) (*body, bool) {
	b, ok := s.bodies.Get(id)
	if !ok {
		s.log.Errorf(game.ErrorUnknownBody, id)
	}
	return b, ok
}

// update calls f with the body passed while holding the write lock.
func (s *Space) update(id physics.BodyID, f func(b *body)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.body(id); ok {
		f(b)
	}
}

// BodyTransform returns the transform of a body.
func (s *Space) BodyTransform(id physics.BodyID) (mgl64.Mat4, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.body(id)
	if !ok {
		return mgl64.Ident4(), false
	}
	return b.transform, true
}

// BodySetTransform teleports a body to the transform passed.
func (s *Space) BodySetTransform(id physics.BodyID, t mgl64.Mat4) {
	s.update(id, func(b *body) {
		b.transform = t
	})
}

// BodyLinearVelocity returns the linear velocity of a body. False is returned if the body does not exist
// or is not in the scene.
func (s *Space) BodyLinearVelocity(id physics.BodyID) (mgl64.Vec3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies.Get(id)
	if !ok || !b.inScene {
		return mgl64.Vec3{}, false
	}
	return b.velocity, true
}

// BodySetLinearVelocity sets the linear velocity of a body, waking it up if it was sleeping.
func (s *Space) BodySetLinearVelocity(id physics.BodyID, v mgl64.Vec3) {
	s.update(id, func(b *body) {
		b.velocity = v
		if !game.IsZeroVec(v) {
			b.sleeping, b.idle = false, 0
		}
	})
}

// BodySetGravityScale sets the factor gravity is multiplied with for a rigid body.
func (s *Space) BodySetGravityScale(id physics.BodyID, scale float64) {
	s.update(id, func(b *body) {
		b.gravityScale = scale
	})
}

// BodySetCanSleep sets whether a rigid body may fall asleep. Disabling sleep wakes the body up.
func (s *Space) BodySetCanSleep(id physics.BodyID, canSleep bool) {
	s.update(id, func(b *body) {
		b.canSleep = canSleep
		if !canSleep {
			b.sleeping, b.idle = false, 0
		}
	})
}

// BodySetMaxContactsReported sets the amount of contacts gathered for a rigid body every step.
func (s *Space) BodySetMaxContactsReported(id physics.BodyID, n int) {
	if n < 0 {
		s.log.Errorf(game.ErrorInvalidMaxContacts, n)
		return
	}
	s.update(id, func(b *body) {
		b.maxContacts = n
	})
}

// BodySetStateCallback sets the function called with the state of a rigid body at the end of every step.
func (s *Space) BodySetStateCallback(id physics.BodyID, f func(physics.DirectBodyState)) {
	s.update(id, func(b *body) {
		b.callback = f
	})
}

// Node returns a physics.Node reading and writing the transform of the body passed.
func (s *Space) Node(id physics.BodyID) physics.Node {
	return bodyNode{s: s, id: id}
}

// bodyNode is the physics.Node of a body in a Space.
type bodyNode struct {
	s  *Space
	id physics.BodyID
}

// Transform ...
func (n bodyNode) Transform() mgl64.Mat4 {
	t, _ := n.s.BodyTransform(n.id)
	return t
}

// SetTransform ...
func (n bodyNode) SetTransform(t mgl64.Mat4) {
	n.s.BodySetTransform(n.id, t)
}

// InScene returns true if the body passed exists and is in the scene.
func (s *Space) InScene(id physics.BodyID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies.Get(id)
	return ok && b.inScene
}

// SetInScene adds a body to or removes it from the scene. Bodies out of the scene are ignored by every
// query. Listeners watching the body are notified of the change.
func (s *Space) SetInScene(id physics.BodyID, inScene bool) {
	s.mu.Lock()
	b, ok := s.body(id)
	if !ok || b.inScene == inScene {
		s.mu.Unlock()
		return
	}
	b.inScene = inScene
	watchers := slices.Clone(s.watchers[id])
	s.mu.Unlock()

	for _, l := range watchers {
		if inScene {
			l.BodyEnteredScene(id)
		} else {
			l.BodyExitedScene(id)
		}
	}
}

// Watch registers l to be notified when the body passed enters or exits the scene.
func (s *Space) Watch(id physics.BodyID, l contact.SceneListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers[id] = append(s.watchers[id], l)
}

// Unwatch removes a listener registered with Watch.
func (s *Space) Unwatch(id physics.BodyID, l contact.SceneListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers[id] = slices.DeleteFunc(s.watchers[id], func(w contact.SceneListener) bool {
		return w == l
	})
	if len(s.watchers[id]) == 0 {
		delete(s.watchers, id)
	}
}
