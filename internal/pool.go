package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds the buffers trace lines are assembled in before they are written out.
var BufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}
