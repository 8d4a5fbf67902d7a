package trace

import (
	"encoding/binary"
	"math"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/character"
	"github.com/oomph-ac/kinematic/game"
	"github.com/zeebo/xxh3"
)

const (
	flagOnFloor = 1 << iota
	flagOnWall
	flagOnCeiling
)

// Frame is a compact snapshot of a character body, taken once per tick after it moved.
type Frame struct {
	Tick      uint64     `json:"tick"`
	Position  mgl32.Vec3 `json:"position"`
	Velocity  mgl32.Vec3 `json:"velocity"`
	OnFloor   bool       `json:"on_floor"`
	OnWall    bool       `json:"on_wall"`
	OnCeiling bool       `json:"on_ceiling"`
	Slides    int        `json:"slides"`
}

// FrameOf takes a snapshot of the body passed.
func FrameOf(tick uint64, b *character.Body) Frame {
	return Frame{
		Tick:      tick,
		Position:  game.Vec64To32(b.Position()),
		Velocity:  game.Vec64To32(b.LinearVelocity()),
		OnFloor:   b.OnFloor(),
		OnWall:    b.OnWall(),
		OnCeiling: b.OnCeiling(),
		Slides:    b.SlideCollisionCount(),
	}
}

// Digest returns a hash of the frame. Two frames share a digest only if every field is bit for bit
// identical.
func (f Frame) Digest() uint64 {
	var buf [41]byte
	binary.LittleEndian.PutUint64(buf[0:], f.Tick)
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[8+i*4:], math.Float32bits(f.Position[i]))
		binary.LittleEndian.PutUint32(buf[20+i*4:], math.Float32bits(f.Velocity[i]))
	}
	buf[32] = f.flags()
	binary.LittleEndian.PutUint64(buf[33:], uint64(f.Slides))
	return xxh3.Hash(buf[:])
}

// ApproxEqual returns true if o describes the same state as f, allowing the positions and velocities to
// differ slightly.
func (f Frame) ApproxEqual(o Frame) bool {
	if f.Tick != o.Tick || f.flags() != o.flags() || f.Slides != o.Slides {
		return false
	}
	for i := range 3 {
		if !game.Float32ApproxEq(f.Position[i], o.Position[i]) || !game.Float32ApproxEq(f.Velocity[i], o.Velocity[i]) {
			return false
		}
	}
	return true
}

// Fields returns the frame as an ordered set of log fields.
func (f Frame) Fields() *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	m.Set("tick", f.Tick)
	m.Set("position", f.Position)
	m.Set("velocity", f.Velocity)
	m.Set("on_floor", f.OnFloor)
	m.Set("on_wall", f.OnWall)
	m.Set("on_ceiling", f.OnCeiling)
	m.Set("slides", f.Slides)
	return m
}

func (f Frame) flags() byte {
	var flags byte
	if f.OnFloor {
		flags |= flagOnFloor
	}
	if f.OnWall {
		flags |= flagOnWall
	}
	if f.OnCeiling {
		flags |= flagOnCeiling
	}
	return flags
}

// roll folds the digest of a frame into a running digest.
func roll(digest, frame uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:], digest)
	binary.LittleEndian.PutUint64(buf[8:], frame)
	return xxh3.Hash(buf[:])
}

// Digest returns the running digest of the frames passed, in order. It matches the digest of a Recorder
// that recorded the same frames.
func Digest(frames []Frame) uint64 {
	var d uint64
	for _, f := range frames {
		d = roll(d, f.Digest())
	}
	return d
}
