package space

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/physics"
	"golang.org/x/exp/slices"
)

// Step advances the space by dt seconds. Kinematic bodies move with their linear velocity and rigid bodies
// fall with gravity until they rest on something. Once every body has moved, the state callback of each
// rigid body is called with its new state, outside of the lock of the space.
func (s *Space) Step(dt float64) {
	if dt <= 0 {
		s.log.Errorf(game.ErrorInvalidDelta, dt)
		return
	}

	s.mu.Lock()
	var (
		states    []*bodyState
		callbacks []func(physics.DirectBodyState)
	)
	for el := s.bodies.Front(); el != nil; el = el.Next() {
		b := el.Value
		if !b.inScene {
			continue
		}
		switch b.mode {
		case physics.ModeKinematic:
			b.transform = physics.Translated(b.transform, b.velocity.Mul(dt))
		case physics.ModeRigid:
			s.integrate(b, dt)
		}
	}
	for el := s.bodies.Front(); el != nil; el = el.Next() {
		b := el.Value
		if b.mode != physics.ModeRigid || !b.inScene || b.callback == nil {
			continue
		}
		states = append(states, &bodyState{
			s:         s,
			id:        b.id,
			transform: b.transform,
			velocity:  b.velocity,
			sleeping:  b.sleeping,
			step:      dt,
			contacts:  slices.Clone(b.contacts),
		})
		callbacks = append(callbacks, b.callback)
	}
	s.mu.Unlock()

	for i, state := range states {
		callbacks[i](state)
	}
}

// integrate moves a rigid body for a step of dt seconds and gathers its contacts. s.mu must be held.
func (s *Space) integrate(b *body, dt float64) {
	parts := s.parts(b, true)
	obstacles := s.obstacles(b, nil, false)
	margin := s.conf.ContactMargin

	if !b.sleeping {
		b.velocity = b.velocity.Add(s.conf.Gravity.Mul(b.gravityScale * dt))
		motion := b.velocity.Mul(dt)

		r := sweep(parts, obstacles, physics.Origin(b.transform), motion, margin)
		b.transform = physics.Translated(b.transform, r.recovered.Add(motion.Mul(r.safe)))
		if r.hit != -1 && b.velocity.Dot(r.normal) < 0 {
			b.velocity = game.Slide(b.velocity, r.normal)
		}

		if b.canSleep && b.velocity.Len() < s.conf.SleepThreshold {
			b.idle += dt
			if b.idle >= s.conf.TimeToSleep {
				b.sleeping = true
				b.velocity = mgl64.Vec3{}
				s.log.Debugf("space: rigid body %d fell asleep", b.id)
			}
		} else {
			b.idle = 0
		}
	}

	b.contacts = b.contacts[:0]
	origin := physics.Origin(b.transform)
	for _, p := range parts {
		box := p.box.Translate(origin)
		for _, o := range obstacles {
			if len(b.contacts) >= b.maxContacts {
				return
			}
			if _, n, ok := o.penetration(box.Grow(margin * 2)); ok {
				b.contacts = append(b.contacts, physics.Contact{
					Collider:         o.body.id,
					ColliderShape:    o.index,
					LocalShape:       p.index,
					Position:         o.closest(center(box)),
					Normal:           n,
					ColliderVelocity: o.body.velocity,
				})
			}
		}
	}
}

// bodyState is the physics.DirectBodyState of a rigid body at the end of a step.
type bodyState struct {
	s  *Space
	id physics.BodyID

	transform mgl64.Mat4
	velocity  mgl64.Vec3
	sleeping  bool
	step      float64
	contacts  []physics.Contact
}

// Transform ...
func (st *bodyState) Transform() mgl64.Mat4 {
	return st.transform
}

// LinearVelocity ...
func (st *bodyState) LinearVelocity() mgl64.Vec3 {
	return st.velocity
}

// SetLinearVelocity sets the velocity of the body in the space.
func (st *bodyState) SetLinearVelocity(v mgl64.Vec3) {
	st.velocity = v
	st.s.BodySetLinearVelocity(st.id, v)
}

// Sleeping ...
func (st *bodyState) Sleeping() bool {
	return st.sleeping
}

// Step ...
func (st *bodyState) Step() float64 {
	return st.step
}

// ContactCount ...
func (st *bodyState) ContactCount() int {
	return len(st.contacts)
}

// Contact ...
func (st *bodyState) Contact(i int) physics.Contact {
	return st.contacts[i]
}
