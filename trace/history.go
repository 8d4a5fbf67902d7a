package trace

import "github.com/oomph-ac/kinematic/assert"

// History is a fixed-size circular buffer holding the most recent frames recorded.
type History struct {
	buffer []Frame
	head   int // next write position
	size   int
}

// NewHistory creates a History holding up to capacity frames. capacity must be positive.
func NewHistory(capacity int) *History {
	assert.IsTrue(capacity > 0, "history capacity must be positive, got %d", capacity)
	return &History{buffer: make([]Frame, capacity)}
}

// Add inserts a frame, overwriting the oldest one if the history is full.
func (h *History) Add(f Frame) {
	h.buffer[h.head] = f
	h.head = (h.head + 1) % len(h.buffer)
	if h.size < len(h.buffer) {
		h.size++
	}
}

// at returns the i-th most recent frame, starting at zero.
func (h *History) at(i int) Frame {
	return h.buffer[(h.head-1-i+len(h.buffer))%len(h.buffer)]
}

// Get returns the frame recorded for tick, if it is still held.
func (h *History) Get(tick uint64) (Frame, bool) {
	for i := 0; i < h.size; i++ {
		f := h.at(i)
		if f.Tick == tick {
			return f, true
		}
		if f.Tick < tick {
			break
		}
	}
	return Frame{}, false
}

// Closest returns the held frame whose tick is the nearest to the tick passed.
func (h *History) Closest(tick uint64) (Frame, bool) {
	var (
		closest Frame
		dist    uint64 = 1<<64 - 1
		found   bool
	)
	for i := 0; i < h.size; i++ {
		f := h.at(i)
		d := f.Tick - tick
		if tick > f.Tick {
			d = tick - f.Tick
		}
		if d < dist {
			closest, dist, found = f, d, true
		}
	}
	return closest, found
}

// Range returns the held frames with a tick within [start, end], oldest first.
func (h *History) Range(start, end uint64) []Frame {
	var frames []Frame
	for i := h.size - 1; i >= 0; i-- {
		if f := h.at(i); f.Tick >= start && f.Tick <= end {
			frames = append(frames, f)
		}
	}
	return frames
}

// Frames returns every held frame, oldest first.
func (h *History) Frames() []Frame {
	frames := make([]Frame, 0, h.size)
	for i := h.size - 1; i >= 0; i-- {
		frames = append(frames, h.at(i))
	}
	return frames
}

// Latest returns the most recently added frame.
func (h *History) Latest() (Frame, bool) {
	if h.size == 0 {
		return Frame{}, false
	}
	return h.at(0), true
}

// Len returns the amount of frames held.
func (h *History) Len() int {
	return h.size
}

// Cap returns the maximum amount of frames held.
func (h *History) Cap() int {
	return len(h.buffer)
}

// Clear removes every frame.
func (h *History) Clear() {
	h.head, h.size = 0, 0
}
