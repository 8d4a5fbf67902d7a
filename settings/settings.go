package settings

import (
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/character"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/space"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Settings contains everything that can be configured for a simulation: the character controller, the
// reference space it moves in and the tracing of its motion.
type Settings struct {
	Character struct {
		SafeMargin      float64   `toml:"safe_margin" comment:"Distance kept between the body and the obstacles around it."`
		MaxSlides       int       `toml:"max_slides" comment:"Amount of sweeps a single slide resolution may perform."`
		FloorMaxAngle   float64   `toml:"floor_max_angle" comment:"Steepest surface, in degrees, still considered a floor."`
		UpDirection     []float64 `toml:"up_direction"`
		Snap            []float64 `toml:"snap" comment:"Snap vector keeping the body glued to the floor. Zero disables snapping."`
		StopOnSlope     bool      `toml:"stop_on_slope"`
		InfiniteInertia bool      `toml:"infinite_inertia"`
	} `toml:"character"`
	Space struct {
		Gravity        []float64 `toml:"gravity"`
		SleepThreshold float64   `toml:"sleep_threshold"`
		TimeToSleep    float64   `toml:"time_to_sleep"`
		ContactMargin  float64   `toml:"contact_margin"`
		TickRate       int       `toml:"tick_rate" comment:"Amount of steps simulated per second."`
	} `toml:"space"`
	Trace struct {
		Enabled bool   `toml:"enabled"`
		Path    string `toml:"path" comment:"File the frames of the character are written to as JSON lines."`
		History int    `toml:"history" comment:"Amount of frames kept in memory."`
	} `toml:"trace"`
}

// Default returns the default settings.
func Default() Settings {
	s := Settings{}
	s.Character.SafeMargin = game.DefaultSafeMargin
	s.Character.MaxSlides = game.DefaultMaxSlides
	s.Character.FloorMaxAngle = mgl64.RadToDeg(game.DefaultFloorMaxAngle)
	s.Character.UpDirection = slices.Clone(game.DefaultUpDirection[:])
	s.Character.Snap = []float64{0, 0, 0}
	s.Character.InfiniteInertia = true

	s.Space.Gravity = slices.Clone(game.DefaultGravity[:])
	s.Space.SleepThreshold = game.DefaultSleepThreshold
	s.Space.TimeToSleep = game.DefaultTimeToSleep
	s.Space.ContactMargin = game.DefaultContactMargin
	s.Space.TickRate = game.DefaultTickRate

	s.Trace.Path = "trace.jsonl"
	s.Trace.History = 256
	return s
}

// Load reads the settings stored at path. If no file exists there yet, the default settings are written
// to it and returned.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s := Default()
		data, err := toml.Marshal(s)
		if err != nil {
			return Settings{}, errors.Wrap(err, "encode default settings")
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return Settings{}, errors.Wrap(err, "create settings file")
		}
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "read settings file")
	}
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(err, "decode settings file")
	}
	if err := s.Validate(); err != nil {
		return Settings{}, errors.Wrapf(err, "invalid settings in %s", path)
	}
	return s, nil
}

// Validate returns an error describing the first setting that holds an invalid value.
func (s Settings) Validate() error {
	switch {
	case s.Character.SafeMargin <= 0:
		return errors.Errorf("character.safe_margin must be positive, got %v", s.Character.SafeMargin)
	case s.Character.MaxSlides <= 0:
		return errors.Errorf("character.max_slides must be positive, got %v", s.Character.MaxSlides)
	case s.Character.FloorMaxAngle < 0 || s.Character.FloorMaxAngle > 180:
		return errors.Errorf("character.floor_max_angle must be within [0, 180], got %v", s.Character.FloorMaxAngle)
	case len(s.Character.UpDirection) != 3:
		return errors.Errorf("character.up_direction must hold 3 components, got %d", len(s.Character.UpDirection))
	case len(s.Character.Snap) != 3:
		return errors.Errorf("character.snap must hold 3 components, got %d", len(s.Character.Snap))
	case len(s.Space.Gravity) != 3:
		return errors.Errorf("space.gravity must hold 3 components, got %d", len(s.Space.Gravity))
	case s.Space.SleepThreshold < 0:
		return errors.Errorf("space.sleep_threshold must not be negative, got %v", s.Space.SleepThreshold)
	case s.Space.TimeToSleep < 0:
		return errors.Errorf("space.time_to_sleep must not be negative, got %v", s.Space.TimeToSleep)
	case s.Space.ContactMargin <= 0:
		return errors.Errorf("space.contact_margin must be positive, got %v", s.Space.ContactMargin)
	case s.Space.TickRate <= 0:
		return errors.Errorf("space.tick_rate must be positive, got %v", s.Space.TickRate)
	case s.Trace.Enabled && s.Trace.Path == "":
		return errors.New("trace.path must be set when tracing is enabled")
	case s.Trace.History <= 0:
		return errors.Errorf("trace.history must be positive, got %v", s.Trace.History)
	}
	return nil
}

// CharacterOptions returns the character.Options described by the settings. The settings must be valid.
func (s Settings) CharacterOptions() character.Options {
	return character.Options{
		SafeMargin:      s.Character.SafeMargin,
		MaxSlides:       s.Character.MaxSlides,
		FloorMaxAngle:   mgl64.DegToRad(s.Character.FloorMaxAngle),
		UpDirection:     vec3(s.Character.UpDirection),
		Snap:            vec3(s.Character.Snap),
		StopOnSlope:     s.Character.StopOnSlope,
		InfiniteInertia: s.Character.InfiniteInertia,
	}
}

// SpaceConfig returns the space.Config described by the settings. The settings must be valid.
func (s Settings) SpaceConfig() space.Config {
	return space.Config{
		Gravity:        vec3(s.Space.Gravity),
		SleepThreshold: s.Space.SleepThreshold,
		TimeToSleep:    s.Space.TimeToSleep,
		ContactMargin:  s.Space.ContactMargin,
	}
}

// Delta returns the duration of a single step in seconds.
func (s Settings) Delta() float64 {
	return 1 / float64(s.Space.TickRate)
}

func vec3(v []float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}
