// Package engine runs the element tree against a terminal
//
// One goroutine owns the tree. Each loop iteration takes exactly one of:
// a terminal input event, a queued background event, the exit signal or
// an animation tick. Rendering happens only on ticks, so an event is always
// fully processed before the next frame.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/element"
	"github.com/lixenwraith/loom/errors"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/input"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/logger"
	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/status"
	"github.com/lixenwraith/loom/terminal"
)

const (
	DefaultFrameInterval = 500 * time.Microsecond

	// how long Run waits for background tasks after the stop signal
	taskGrace = 250 * time.Millisecond
)

// Metric names published in the status registry
const (
	MetricFrames      = "engine.frames"
	MetricCells       = "engine.cells"
	MetricEvents      = "engine.events"
	MetricQueueDrops  = "engine.queue_drops"
	MetricTasks       = "engine.tasks"
	MetricFrameMillis = "engine.frame_ms"
	MetricPending     = "input.pending"
)

// Options configures an Engine; zero values select defaults
type Options struct {
	FrameInterval time.Duration
	QueueSize     int
	Mouse         bool

	// Clock feeds animated styles, the wall clock when nil
	Clock Clock
	// Guard restores the terminal if the loop or a task panics
	Guard *core.Guard
	Log   logger.Logger
	Stats *status.Registry

	// OnMetadata receives Metadata responses that reach the top of the tree
	OnMetadata func(key string, value []byte)
}

// Engine is the runtime loop and the parent of the root container
type Engine struct {
	term    terminal.Terminal
	root    *element.Container
	reg     *event.Registry
	matcher *input.Matcher
	queue   *event.Queue
	cache   *render.Cache
	clock   *AnimationClock
	guard   *core.Guard
	log     logger.Logger

	interval   time.Duration
	mouse      bool
	onMetadata func(key string, value []byte)

	size  layout.Size
	force bool

	running  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	tasks    sync.WaitGroup

	stats       *status.Registry
	statFrames  *atomic.Int64
	statCells   *atomic.Int64
	statEvents  *atomic.Int64
	statDrops   *atomic.Int64
	statTasks   *atomic.Int64
	statFrameMs *status.Float
	statPending *status.Text
}

// New creates an engine drawing to term with an empty, full-screen root container
func New(term terminal.Terminal, opts Options) *Engine {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Log == nil {
		opts.Log = logger.Noop()
	}
	if opts.Stats == nil {
		opts.Stats = status.NewRegistry()
	}

	e := &Engine{
		term:       term,
		root:       element.NewContainer(layout.FullLocation()),
		reg:        event.NewRegistry(),
		matcher:    input.NewMatcher(),
		queue:      event.NewQueue(opts.QueueSize),
		cache:      render.NewCache(0, 0),
		clock:      NewAnimationClock(opts.Clock),
		guard:      opts.Guard,
		log:        opts.Log,
		interval:   opts.FrameInterval,
		mouse:      opts.Mouse,
		onMetadata: opts.OnMetadata,
		stop:       make(chan struct{}),
		stats:      opts.Stats,
	}
	e.statFrames = e.stats.Counters.Get(MetricFrames)
	e.statCells = e.stats.Counters.Get(MetricCells)
	e.statEvents = e.stats.Counters.Get(MetricEvents)
	e.statDrops = e.stats.Counters.Get(MetricQueueDrops)
	e.statTasks = e.stats.Counters.Get(MetricTasks)
	e.statFrameMs = e.stats.Gauges.Get(MetricFrameMillis)
	e.statPending = e.stats.Texts.Get(MetricPending)

	e.root.SetParent(e)
	return e
}

// Root is the top of the element tree; add the application's elements here
func (e *Engine) Root() *element.Container { return e.root }

// Registry is the top-level routing table the key matcher reads
func (e *Engine) Registry() *event.Registry { return e.reg }

func (e *Engine) Stats() *status.Registry { return e.stats }

// Clock is the animation clock
func (e *Engine) Clock() *AnimationClock { return e.clock }

// Size is the screen size seen by the last resize
func (e *Engine) Size() layout.Size { return e.size }

// Pending returns the key presses buffered for a longer combo
func (e *Engine) Pending() string { return e.matcher.Pending() }

// Post queues a custom event for the loop; safe from any goroutine
// Returns false when the queue is full and the event was dropped.
func (e *Engine) Post(ev event.Custom) bool {
	if !e.queue.Push(ev) {
		e.statDrops.Add(1)
		return false
	}
	return true
}

// Go runs fn as a background task under the crash guard
// fn must return once stop is closed. When it returns the loop receives
// event.TaskExited, or event.TaskFailed carrying the error text.
func (e *Engine) Go(name string, fn func(stop <-chan struct{}) error) {
	e.tasks.Add(1)
	e.statTasks.Add(1)
	run := func() {
		defer e.tasks.Done()
		defer e.statTasks.Add(-1)
		if err := fn(e.stop); err != nil {
			e.log.Warn("task %s failed: %v", name, err)
			e.Post(event.Custom{Name: event.TaskFailed, Data: []byte(name + ": " + err.Error())})
			return
		}
		e.log.Debug("task %s exited", name)
		e.Post(event.Custom{Name: event.TaskExited, Data: []byte(name)})
	}
	if e.guard != nil {
		e.guard.Go(run)
		return
	}
	go run()
}

// Stop asks the loop to exit; safe from any goroutine and more than once
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Done is closed once the engine is stopping
func (e *Engine) Done() <-chan struct{} { return e.stop }

// Run initializes the terminal and runs the loop until Stop, a Quit
// response, ctx cancellation or closed input
// The terminal is restored before Run returns; a terminal failure is returned.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine.run", errors.KindInvariant, "engine already running")
	}
	if e.guard != nil {
		defer e.guard.Recover()
	}

	if err := e.term.Init(); err != nil {
		return err
	}
	if e.guard != nil {
		e.guard.SetTerminal(e.term)
	}
	defer e.shutdown()

	if e.mouse {
		if err := e.term.SetMouseMode(terminal.MouseModeClick | terminal.MouseModeDrag); err != nil {
			return err
		}
	}

	w, h := e.term.Size()
	e.resize(w, h)
	e.log.Info("running %dx%d, frame %s, %s", w, h, e.interval, e.term.ColorMode())

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	in := e.term.Events()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-e.stop:
			return nil

		case ev, ok := <-in:
			if !ok {
				return nil
			}
			done, err := e.handleInput(ev)
			if err != nil || done {
				return err
			}

		case <-e.queue.Ready():
			if ev, ok := e.queue.Pop(); ok {
				e.statEvents.Add(1)
				e.deliver(ev)
			}

		case <-ticker.C:
			if err := e.render(); err != nil {
				e.log.Error("draw: %v", err)
				return err
			}
		}
	}
}

func (e *Engine) shutdown() {
	e.Stop()
	e.term.Fini()

	waited := make(chan struct{})
	go func() {
		e.tasks.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(taskGrace):
		e.log.Warn("%d background tasks still running at exit", e.statTasks.Load())
	}
}

// handleInput processes one terminal event; done reports closed input
func (e *Engine) handleInput(ev terminal.Event) (done bool, err error) {
	switch ev.Type {
	case terminal.EventKey:
		e.statEvents.Add(1)
		res := e.matcher.Process(ev, e.reg)
		e.statPending.Store(e.matcher.Pending())
		if res.Outcome == input.OutcomeDispatched {
			e.deliver(res.Combo)
		}

	case terminal.EventMouse:
		e.statEvents.Add(1)
		p := layout.Point{X: ev.MouseX, Y: ev.MouseY}
		e.deliver(event.Mouse{
			Point:  p,
			Abs:    p,
			Button: ev.MouseBtn,
			Action: ev.MouseAction,
			Mod:    ev.Modifiers,
		})

	case terminal.EventResize:
		if err := e.term.Sync(); err != nil {
			return false, err
		}
		e.resize(ev.Width, ev.Height)

	case terminal.EventError:
		return false, errors.Wrap(ev.Err, "engine.input", errors.KindTerminal)

	case terminal.EventClosed:
		return true, nil
	}
	return false, nil
}

// resize resets the compositor and tells the tree its new size before the next frame
func (e *Engine) resize(w, h int) {
	e.size = layout.Size{W: max(w, 0), H: max(h, 0)}
	e.cache.Resize(e.size.W, e.size.H)
	e.force = true
	e.log.Debug("resize %dx%d", e.size.W, e.size.H)
	e.deliver(event.Resize{Size: e.size})
}

func (e *Engine) region() layout.Region {
	return layout.NewRegion(e.size.W, e.size.H)
}

// deliver hands ev to the root and applies what comes back
func (e *Engine) deliver(ev event.Event) {
	_, rs := e.root.ReceiveEvent(e.region(), ev)
	e.Propagate(e.root.ID(), rs)
}

// Propagate implements element.Parent for the root container
func (e *Engine) Propagate(child core.ID, rs element.Responses) {
	for _, r := range rs {
		switch x := r.(type) {
		case element.Quit:
			e.log.Debug("quit requested")
			e.Stop()
		case element.ReceivableDelta:
			e.reg.Apply(child, x.Delta)
		case element.Metadata:
			if e.onMetadata != nil {
				e.onMetadata(x.Key, x.Value)
			}
		case element.NewElement:
			if x.El != nil {
				e.root.Add(x.El)
			}
		case element.Destruct:
			e.log.Warn("root container cannot be destroyed")
		}
	}
}

// render composes one frame and writes the cells that changed
func (e *Engine) render() error {
	start := time.Now()
	r := e.region()
	force := e.force
	e.force = false

	bounds := layout.RectWH(0, 0, r.Size.W, r.Size.H)
	for _, u := range e.root.Drawing(r, force) {
		e.cache.Apply(u.Nest(e.root.ID(), 0, bounds, r.Visible))
	}
	cells := e.cache.Frame(e.clock.Now())
	e.statFrames.Add(1)
	if len(cells) > 0 {
		if err := e.term.Draw(cells); err != nil {
			return err
		}
		e.statCells.Add(int64(len(cells)))
	}
	e.statFrameMs.Set(float64(time.Since(start).Microseconds()) / 1000)
	return nil
}
