package trace

import (
	"bufio"
	"bytes"
	"io"
	"sync"

	"github.com/disgoorg/json"
	"github.com/oomph-ac/kinematic/game"
	"github.com/oomph-ac/kinematic/internal"
	"github.com/oomph-ac/kinematic/worker"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Recorder records the frames of a character body. It keeps the most recent frames in a History, folds
// every frame into a running digest and, if it was given a writer, writes the frames to it as JSON lines
// on a worker queue. Record must be called from a single goroutine.
type Recorder struct {
	log     *logrus.Logger
	w       io.Writer
	q       *worker.Queue
	history *History
	digest  uint64
	frames  uint64

	errMu sync.Mutex
	err   error
}

// NewRecorder creates a Recorder keeping up to history frames in memory. w may be nil, in which case no
// frames are written out.
func NewRecorder(log *logrus.Logger, w io.Writer, history int) *Recorder {
	if log == nil {
		log = game.NopLogger()
	}
	r := &Recorder{log: log, w: w, history: NewHistory(history)}
	if w != nil {
		r.q = worker.NewQueue(history)
	}
	return r
}

// Record adds a frame to the recording.
func (r *Recorder) Record(f Frame) {
	r.history.Add(f)
	r.digest = roll(r.digest, f.Digest())
	r.frames++
	if r.w == nil {
		return
	}

	data, err := json.Marshal(f)
	if err != nil {
		r.fail(errors.Wrapf(err, "encode frame %d", f.Tick))
		return
	}
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Write(data)
	buf.WriteByte('\n')

	ok := r.q.Submit(func() {
		defer func() {
			buf.Reset()
			internal.BufferPool.Put(buf)
		}()
		if _, err := r.w.Write(buf.Bytes()); err != nil {
			r.fail(errors.Wrapf(err, "write frame %d", f.Tick))
		}
	})
	if !ok {
		buf.Reset()
		internal.BufferPool.Put(buf)
		r.fail(errors.Errorf("frame %d recorded after close", f.Tick))
	}
}

// fail stores the first error the recorder ran into. Later errors are only logged.
func (r *Recorder) fail(err error) {
	r.log.Errorf("trace: %v", err)

	r.errMu.Lock()
	defer r.errMu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

// Digest returns the running digest of every frame recorded so far.
func (r *Recorder) Digest() uint64 {
	return r.digest
}

// Count returns the amount of frames recorded so far.
func (r *Recorder) Count() uint64 {
	return r.frames
}

// History returns the most recent frames recorded.
func (r *Recorder) History() *History {
	return r.history
}

// Close waits for every frame to be written and returns the first error the recorder ran into. The
// writer is not closed.
func (r *Recorder) Close() error {
	if r.q != nil {
		r.q.Close()
	}
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

// ReadFrames reads frames written by a Recorder back from rd.
func ReadFrames(rd io.Reader) ([]Frame, error) {
	var frames []Frame
	scanner := bufio.NewScanner(rd)
	for line := 1; scanner.Scan(); line++ {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(scanner.Bytes(), &f); err != nil {
			return nil, errors.Wrapf(err, "decode frame on line %d", line)
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read frames")
	}
	return frames, nil
}
