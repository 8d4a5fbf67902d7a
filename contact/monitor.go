package contact

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

var (
	// ErrLocked is returned when the monitor is changed from within one of its own event handlers.
	ErrLocked = oerror.New(game.ErrorContactMonitorLock)
	// ErrClosed is returned when a closed monitor is updated.
	ErrClosed = oerror.New(game.ErrorContactMonitorOff)
)

// shapeState is a shape pair touching the monitored body, tagged when it is reported again during an
// update.
type shapeState struct {
	pair   physics.ShapePair
	tagged bool
}

// bodyState holds the shape pairs touching the monitored body for one other body.
type bodyState struct {
	inScene bool
	shapes  []shapeState
}

// index returns the index of the pair passed in the shapes of the body, or -1.
func (s *bodyState) index(pair physics.ShapePair) int {
	return slices.IndexFunc(s.shapes, func(sh shapeState) bool {
		return sh.pair == pair
	})
}

// remove removes the shape at index i. The order of the shapes is not preserved.
func (s *bodyState) remove(i int) {
	last := len(s.shapes) - 1
	s.shapes[i] = s.shapes[last]
	s.shapes = s.shapes[:last]
}

// pairChange is a pending addition or removal of a shape pair.
type pairChange struct {
	id   physics.BodyID
	pair physics.ShapePair
}

// Monitor keeps the set of bodies and shape pairs touching a body over time. Every Update receives the
// contacts of the latest physics step and fires events for the pairs that started or stopped touching.
// A Monitor is not safe for concurrent use: it is updated from the state callback of the body it belongs
// to.
type Monitor struct {
	log   *logrus.Logger
	h     Handler
	scene SceneMembership

	bodies *orderedmap.OrderedMap[physics.BodyID, *bodyState]

	locked bool
	closed bool

	toAdd, toRemove []pairChange
}

// NewMonitor returns a Monitor without any tracked bodies. scene is used to find out whether bodies are in
// the scene; if nil, every body is considered in the scene.
func NewMonitor(log *logrus.Logger, scene SceneMembership) *Monitor {
	if log == nil {
		log = game.NopLogger()
	}
	return &Monitor{
		log:    log,
		h:      NopHandler{},
		scene:  scene,
		bodies: orderedmap.NewOrderedMap[physics.BodyID, *bodyState](),
	}
}

// Handle sets the handler events are fired to. Passing nil resets it to a NopHandler.
func (m *Monitor) Handle(h Handler) {
	if h == nil {
		h = NopHandler{}
	}
	m.h = h
}

// Locked returns true while the monitor is firing the events of an Update.
func (m *Monitor) Locked() bool {
	return m.locked
}

// Update diffs the contacts passed against the tracked shape pairs. Pairs no longer reported are removed
// first, then new pairs are added. ErrLocked is returned if Update is called from one of the monitor's
// own handlers.
func (m *Monitor) Update(contacts []physics.Contact) error {
	if m.closed {
		return ErrClosed
	}
	if m.locked {
		return ErrLocked
	}
	m.locked = true
	defer func() {
		m.locked = false
	}()

	for el := m.bodies.Front(); el != nil; el = el.Next() {
		for i := range el.Value.shapes {
			el.Value.shapes[i].tagged = false
		}
	}

	m.toAdd, m.toRemove = m.toAdd[:0], m.toRemove[:0]
	for _, c := range contacts {
		change := pairChange{id: c.Collider, pair: c.Pair()}
		state, ok := m.bodies.Get(c.Collider)
		if !ok {
			m.toAdd = append(m.toAdd, change)
			continue
		}
		i := state.index(change.pair)
		if i == -1 {
			m.toAdd = append(m.toAdd, change)
			continue
		}
		state.shapes[i].tagged = true
	}

	for el := m.bodies.Front(); el != nil; el = el.Next() {
		for _, sh := range el.Value.shapes {
			if !sh.tagged {
				m.toRemove = append(m.toRemove, pairChange{id: el.Key, pair: sh.pair})
			}
		}
	}

	for _, change := range m.toRemove {
		m.removePair(change)
	}
	for _, change := range m.toAdd {
		m.addPair(change)
	}
	if len(m.toAdd) > 0 || len(m.toRemove) > 0 {
		m.log.Debugf("contact monitor: %d pairs added, %d pairs removed, %d bodies tracked", len(m.toAdd), len(m.toRemove), m.bodies.Len())
	}
	return nil
}

// addPair starts tracking a shape pair, tracking its body if it was not yet.
func (m *Monitor) addPair(change pairChange) {
	state, ok := m.bodies.Get(change.id)
	if !ok {
		state = &bodyState{inScene: m.inScene(change.id)}
		m.bodies.Set(change.id, state)
		if m.scene != nil {
			m.scene.Watch(change.id, m)
		}
		if state.inScene {
			m.h.HandleBodyEntered(change.id)
		}
	}
	if state.index(change.pair) != -1 {
		// The same pair may be reported more than once in a single step.
		return
	}
	state.shapes = append(state.shapes, shapeState{pair: change.pair, tagged: true})
	if state.inScene {
		m.h.HandleBodyShapeEntered(change.id, change.pair)
	}
}

// removePair stops tracking a shape pair. The body stops being tracked once its last pair is removed.
func (m *Monitor) removePair(change pairChange) {
	state, ok := m.bodies.Get(change.id)
	if !ok {
		m.log.Errorf(game.ErrorContactUntracked, change.id)
		return
	}
	if i := state.index(change.pair); i != -1 {
		state.remove(i)
	}
	if state.inScene {
		m.h.HandleBodyShapeExited(change.id, change.pair)
	}
	if len(state.shapes) == 0 {
		m.bodies.Delete(change.id)
		if m.scene != nil {
			m.scene.Unwatch(change.id, m)
		}
		if state.inScene {
			m.h.HandleBodyExited(change.id)
		}
	}
}

// inScene returns true if the body passed is in the scene.
func (m *Monitor) inScene(id physics.BodyID) bool {
	if m.scene == nil {
		return true
	}
	return m.scene.InScene(id)
}

// BodyEnteredScene marks a tracked body as in the scene and fires the entered events for it and each of
// its shape pairs.
func (m *Monitor) BodyEnteredScene(id physics.BodyID) {
	state, ok := m.bodies.Get(id)
	if !ok {
		m.log.Errorf(game.ErrorContactUntracked, id)
		return
	}
	if state.inScene {
		m.log.Errorf(game.ErrorContactSceneState, id, true)
		return
	}
	state.inScene = true
	m.h.HandleBodyEntered(id)
	for _, sh := range state.shapes {
		m.h.HandleBodyShapeEntered(id, sh.pair)
	}
}

// BodyExitedScene marks a tracked body as out of the scene and fires the exited events for each of its
// shape pairs and for the body itself. The body stays tracked.
func (m *Monitor) BodyExitedScene(id physics.BodyID) {
	state, ok := m.bodies.Get(id)
	if !ok {
		m.log.Errorf(game.ErrorContactUntracked, id)
		return
	}
	if !state.inScene {
		m.log.Errorf(game.ErrorContactSceneState, id, false)
		return
	}
	state.inScene = false
	for _, sh := range state.shapes {
		m.h.HandleBodyShapeExited(id, sh.pair)
	}
	m.h.HandleBodyExited(id)
}

// CollidingBodies returns the bodies currently touching the monitored body, in the order they started
// touching it.
func (m *Monitor) CollidingBodies() []physics.BodyID {
	ids := make([]physics.BodyID, 0, m.bodies.Len())
	for el := m.bodies.Front(); el != nil; el = el.Next() {
		if el.Value.inScene {
			ids = append(ids, el.Key)
		}
	}
	return ids
}

// Pairs returns the shape pairs tracked for the body passed.
func (m *Monitor) Pairs(id physics.BodyID) []physics.ShapePair {
	state, ok := m.bodies.Get(id)
	if !ok {
		return nil
	}
	pairs := make([]physics.ShapePair, 0, len(state.shapes))
	for _, sh := range state.shapes {
		pairs = append(pairs, sh.pair)
	}
	return pairs
}

// Close stops tracking every body without firing any event. ErrLocked is returned if Close is called from
// one of the monitor's own handlers.
func (m *Monitor) Close() error {
	if m.locked {
		return ErrLocked
	}
	if m.closed {
		return nil
	}
	m.closed = true
	if m.scene != nil {
		for el := m.bodies.Front(); el != nil; el = el.Next() {
			m.scene.Unwatch(el.Key, m)
		}
	}
	m.bodies = orderedmap.NewOrderedMap[physics.BodyID, *bodyState]()
	return nil
}
