package terminal

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/lixenwraith/loom/errors"
)

const (
	// quiet period after a lone ESC before it counts as the Escape key
	escapeTimeout = 50 * time.Millisecond
	// how long stop waits for a reader blocked in Read
	stopGrace  = 100 * time.Millisecond
	inputQueue = 256
)

// inputReader turns the backend byte stream into Events on its own goroutine
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}

	once    sync.Once
	stopped sync.Once

	// unconsumed tail; a sequence may straddle two reads
	pending []byte
}

func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, inputQueue),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		pending: make([]byte, 0, inputQueue),
	}
}

func (r *inputReader) start() {
	r.once.Do(func() { go r.readLoop() })
}

// stop ends the read loop; a reader stuck in a blocking Read is abandoned after stopGrace
func (r *inputReader) stop() {
	r.stopped.Do(func() {
		close(r.stopCh)
		select {
		case <-r.doneCh:
		case <-time.After(stopGrace):
		}
	})
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)
	defer func() {
		if v := recover(); v != nil {
			r.emit(Event{Type: EventError, Err: &errors.PanicError{
				Op:    "terminal.input",
				Value: v,
				Stack: string(debug.Stack()),
			}})
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.emit(Event{Type: EventError, Err: err})
			return
		}
		if len(data) > 0 {
			r.pending = append(r.pending, data...)
			n := r.parseInput(r.pending)
			r.pending = r.pending[:copy(r.pending, r.pending[n:])]
			continue
		}

		// Poll timeout: input went quiet
		if len(r.pending) == 1 && r.pending[0] == 0x1b {
			r.emit(keyEvent(KeyEscape, 0, ModNone))
			r.pending = r.pending[:0]
		}
		select {
		case <-r.stopCh:
			r.emit(Event{Type: EventClosed})
			return
		default:
		}
	}
}

// parseInput emits every complete event in data and returns the bytes consumed
func (r *inputReader) parseInput(data []byte) int {
	i := 0
	for i < len(data) {
		n, ev, ok := decode(data[i:])
		if n == 0 {
			break
		}
		if ok {
			r.emit(ev)
		}
		i += n
	}
	return i
}

// emit drops the event when the consumer has fallen a full queue behind
func (r *inputReader) emit(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
	}
}
