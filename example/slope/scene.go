package main

import (
	"fmt"
	"math"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/character"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/oomph-ac/kinematic/rigid"
	"github.com/oomph-ac/kinematic/settings"
	"github.com/oomph-ac/kinematic/space"
	"github.com/sirupsen/logrus"
)

const (
	walkSpeed   = 3.0
	slopeStart  = 6.0
	slopeAngle  = 20.0
	flipSeconds = 3
)

// scene is the world the example character walks through: flat ground turning into a slope, a platform
// going back and forth over it and a crate dropped next to the path.
type scene struct {
	log *logrus.Logger

	space    *space.Space
	player   *character.Body
	crate    *rigid.Body
	platform physics.BodyID

	gravity  mgl64.Vec3
	dt       float64
	tickRate uint64
}

func newScene(log *logrus.Logger, conf settings.Settings) *scene {
	s := space.New(log, conf.SpaceConfig())

	angle := mgl64.DegToRad(slopeAngle)
	slopeNormal := mgl64.Vec3{-math.Sin(angle), math.Cos(angle), 0}
	s.AddBody(physics.ModeStatic, mgl64.Ident4(),
		space.Plane{Normal: mgl64.Vec3{0, 1, 0}},
		space.Plane{Normal: slopeNormal, Distance: slopeNormal.Dot(mgl64.Vec3{slopeStart, 0, 0})},
	)

	platform := s.AddBody(physics.ModeKinematic, physics.At(mgl64.Vec3{-4, 2.5, 3}), space.Box{BBox: cube.Box(-1, 0, -1, 1, 0.25, 1)})
	s.BodySetLinearVelocity(platform, mgl64.Vec3{0, 0, -1})

	crateID := s.AddBody(physics.ModeRigid, physics.At(mgl64.Vec3{2, 4, 1.5}), space.Box{BBox: cube.Box(-0.5, 0, -0.5, 0.5, 1, 0.5)})
	crate := rigid.New(log, s, s, s.Node(crateID), crateID, physics.ModeRigid)
	crate.Handle(crateHandler{log: log})
	if err := crate.SetContactMonitor(true); err != nil {
		log.Errorf("unable to monitor crate contacts: %v", err)
	}

	playerID := s.AddBody(physics.ModeCharacter, physics.At(mgl64.Vec3{-8, 1, 0}),
		space.Box{BBox: cube.Box(-0.4, 0, -0.4, 0.4, 1.8, 0.4)},
		space.Ray{Origin: mgl64.Vec3{0, 0.5, 0}, Direction: mgl64.Vec3{0, -1, 0}, Length: 0.6},
	)
	player := character.New(log, s, s.Node(playerID), playerID, conf.CharacterOptions())

	return &scene{
		log:      log,
		space:    s,
		player:   player,
		crate:    crate,
		platform: platform,
		gravity:  conf.SpaceConfig().Gravity,
		dt:       conf.Delta(),
		tickRate: uint64(conf.Space.TickRate),
	}
}

// tick advances the scene by a single step: the space moves its platform and crate, after which the
// player walks towards the slope.
func (sc *scene) tick(tick uint64) {
	if tick > 0 && tick%(flipSeconds*sc.tickRate) == 0 {
		v, _ := sc.space.BodyLinearVelocity(sc.platform)
		sc.space.BodySetLinearVelocity(sc.platform, v.Mul(-1))
	}
	sc.space.Step(sc.dt)

	v := sc.player.LinearVelocity().Add(sc.gravity.Mul(sc.dt))
	v[0] = walkSpeed
	sc.player.SetLinearVelocity(v)
	sc.player.MoveAndSlide(sc.dt)
}

// safeTick runs tick, reporting a panic in it to sentry. False is returned if the tick panicked.
func (sc *scene) safeTick(tick uint64) (ok bool) {
	defer func() {
		if err := recover(); err != nil {
			sc.log.Errorf("tick %d panic: %v", tick, err)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("tick", fmt.Sprint(tick))
				scope.SetTag("position", fmt.Sprint(sc.player.Position()))
			})

			hub.Recover(oerror.New("%v", err))
			hub.Flush(time.Second * 5)
			ok = false
		}
	}()
	sc.tick(tick)
	return true
}

// crateHandler logs the contacts of the crate.
type crateHandler struct {
	rigid.NopHandler
	log *logrus.Logger
}

func (h crateHandler) HandleBodyEntered(id physics.BodyID) {
	h.log.Infof("crate touched body %d", id)
}

func (h crateHandler) HandleBodyExited(id physics.BodyID) {
	h.log.Infof("crate stopped touching body %d", id)
}

func (h crateHandler) HandleSleepingStateChanged(sleeping bool) {
	h.log.Debugf("crate sleeping: %v", sleeping)
}
