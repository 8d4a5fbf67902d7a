package trace_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/kinematic/character"
	"github.com/oomph-ac/kinematic/physics"
	"github.com/oomph-ac/kinematic/space"
	"github.com/oomph-ac/kinematic/trace"
	"github.com/stretchr/testify/require"
)

func frame(tick uint64) trace.Frame {
	return trace.Frame{
		Tick:     tick,
		Position: mgl32.Vec3{float32(tick), 0.08, -1.5},
		Velocity: mgl32.Vec3{0.25, float32(tick) * -0.1, 0},
		OnFloor:  tick%2 == 0,
		OnWall:   tick%3 == 0,
		Slides:   int(tick % 4),
	}
}

func TestFrameOf(t *testing.T) {
	s := space.New(nil, space.DefaultConfig())
	s.AddBody(physics.ModeStatic, mgl64.Ident4(), space.Box{BBox: cube.Box(-10, -1, -10, 10, 0, 10)})
	id := s.AddBody(physics.ModeCharacter, mgl64.Ident4(), space.Box{BBox: cube.Box(-0.5, 0, -0.5, 0.5, 2, 0.5)})
	b := character.New(nil, s, s.Node(id), id, character.DefaultOptions())
	b.SetLinearVelocity(mgl64.Vec3{1, -1, 0})
	b.MoveAndSlide(1.0 / 60)

	f := trace.FrameOf(7, b)
	require.Equal(t, uint64(7), f.Tick)
	require.True(t, f.OnFloor)
	require.False(t, f.OnWall)
	require.False(t, f.OnCeiling)
	require.Equal(t, b.SlideCollisionCount(), f.Slides)
	require.Equal(t, float32(b.Position().X()), f.Position.X())
	require.Equal(t, float32(b.LinearVelocity().X()), f.Velocity.X())
}

func TestFrameDigest(t *testing.T) {
	a, b := frame(3), frame(3)
	require.Equal(t, a.Digest(), b.Digest())

	for name, modify := range map[string]func(f *trace.Frame){
		"tick":       func(f *trace.Frame) { f.Tick++ },
		"position":   func(f *trace.Frame) { f.Position[1] = 0.0800001 },
		"velocity":   func(f *trace.Frame) { f.Velocity[2] = 1 },
		"on ceiling": func(f *trace.Frame) { f.OnCeiling = true },
		"slides":     func(f *trace.Frame) { f.Slides++ },
	} {
		t.Run(name, func(t *testing.T) {
			c := frame(3)
			modify(&c)
			require.NotEqual(t, a.Digest(), c.Digest())
		})
	}
}

func TestFrameApproxEqual(t *testing.T) {
	a := frame(4)
	b := a
	b.Position[0] += 1e-6
	require.True(t, a.ApproxEqual(b))
	require.NotEqual(t, a.Digest(), b.Digest())

	b.Velocity[1] += 1e-3
	require.False(t, a.ApproxEqual(b))

	b = a
	b.OnWall = !b.OnWall
	require.False(t, a.ApproxEqual(b))
}

func TestFrameFields(t *testing.T) {
	m := frame(2).Fields()
	var keys []string
	for el := m.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Key)
	}
	require.Equal(t, []string{"tick", "position", "velocity", "on_floor", "on_wall", "on_ceiling", "slides"}, keys)

	v, ok := m.Get("on_floor")
	require.True(t, ok)
	require.Equal(t, true, v)
}

func TestHistory(t *testing.T) {
	h := trace.NewHistory(3)
	_, ok := h.Latest()
	require.False(t, ok)

	for tick := uint64(1); tick <= 5; tick++ {
		h.Add(frame(tick))
	}
	require.Equal(t, 3, h.Len())
	require.Equal(t, 3, h.Cap())

	_, ok = h.Get(2)
	require.False(t, ok)
	f, ok := h.Get(4)
	require.True(t, ok)
	require.Equal(t, frame(4), f)

	f, ok = h.Latest()
	require.True(t, ok)
	require.Equal(t, uint64(5), f.Tick)

	f, ok = h.Closest(100)
	require.True(t, ok)
	require.Equal(t, uint64(5), f.Tick)
	f, _ = h.Closest(0)
	require.Equal(t, uint64(3), f.Tick)

	require.Equal(t, []trace.Frame{frame(4), frame(5)}, h.Range(4, 10))
	require.Equal(t, []trace.Frame{frame(3), frame(4), frame(5)}, h.Frames())

	h.Clear()
	require.Zero(t, h.Len())
	require.Empty(t, h.Frames())

	require.Panics(t, func() { trace.NewHistory(0) })
}

func TestRecorder(t *testing.T) {
	var buf bytes.Buffer
	r := trace.NewRecorder(nil, &buf, 4)

	var frames []trace.Frame
	for tick := range uint64(10) {
		f := frame(tick)
		frames = append(frames, f)
		r.Record(f)
	}
	require.NoError(t, r.Close())

	require.Equal(t, uint64(10), r.Count())
	require.Equal(t, trace.Digest(frames), r.Digest())
	require.Equal(t, frames[6:], r.History().Frames())

	read, err := trace.ReadFrames(&buf)
	require.NoError(t, err)
	require.Equal(t, frames, read)
	require.Equal(t, r.Digest(), trace.Digest(read))

	r.Record(frame(10))
	require.ErrorContains(t, r.Close(), "frame 10 recorded after close")
}

func TestRecorderWithoutWriter(t *testing.T) {
	r := trace.NewRecorder(nil, nil, 2)
	r.Record(frame(0))
	r.Record(frame(1))
	require.NoError(t, r.Close())
	require.Equal(t, trace.Digest([]trace.Frame{frame(0), frame(1)}), r.Digest())
	require.NotZero(t, r.Digest())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestRecorderWriteError(t *testing.T) {
	r := trace.NewRecorder(nil, failingWriter{}, 2)
	r.Record(frame(0))
	r.Record(frame(1))
	err := r.Close()
	require.ErrorContains(t, err, "write frame 0")
	require.ErrorContains(t, err, "disk full")
}

func TestReadFramesError(t *testing.T) {
	_, err := trace.ReadFrames(bytes.NewBufferString("{\"tick\": 1}\n\nnot json\n"))
	require.ErrorContains(t, err, "line 3")
}
