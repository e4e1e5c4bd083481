package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/loom/config"
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/element"
	"github.com/lixenwraith/loom/engine"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/input"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/logger"
	"github.com/lixenwraith/loom/render"
	"github.com/lixenwraith/loom/terminal"
)

const (
	eventClock = "demo.clock"
	logLimit   = 200
)

// titleBg drifts across the title bar; it freezes while the animation clock is paused
var titleBg = render.Animate(render.Cycle(6*time.Second, 48, render.AxisX,
	terminal.DeepNavy, terminal.DarkViolet, terminal.SteelBlue))

func newDemoCmd(guard *core.Guard, load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive demo",
		Long: `Run a full-screen demo: a gradient title bar, a scrollable event log
and a live stats pane side by side, and a key help popup in front.

Tab and Backtab move focus between the panes, p pauses the animation,
? shows the help popup, Escape hides it and Ctrl-C quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), cfg, guard)
		},
	}
}

func runDemo(ctx context.Context, cfg *config.Config, guard *core.Guard) error {
	km, err := cfg.Keys()
	if err != nil {
		return err
	}
	closer, err := logger.Setup(cfg.Debug, cfg.LogFile)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	log := logger.New("[demo]", cfg.Debug)
	log.Info("config %s", cfg)

	term, err := openTerminal(cfg)
	if err != nil {
		return err
	}

	var d *demo
	e := engine.New(term, engine.Options{
		FrameInterval: cfg.FrameInterval,
		QueueSize:     cfg.QueueSize,
		Mouse:         cfg.Mouse,
		Guard:         guard,
		Log:           logger.New("[engine]", cfg.Debug),
		OnMetadata: func(key string, value []byte) {
			d.metadata(key, value)
		},
	})
	d = buildDemo(e, km)
	d.startClock(time.Second)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return e.Run(ctx)
}

// openTerminal picks the backend named in the configuration
func openTerminal(cfg *config.Config) (terminal.Terminal, error) {
	if cfg.Backend == config.BackendTcell {
		return terminal.NewTcell(cfg.Colors())
	}
	return terminal.New(cfg.Colors()), nil
}

// demo holds the element tree and the state its handlers share
// Everything here is touched from the engine loop only.
type demo struct {
	e    *engine.Engine
	keys input.Keymap

	header *element.Pane
	body   *element.Container
	log    *element.Pane
	stats  *element.Pane
	popup  *element.Pane

	lines  []string
	offset int
	height int
	follow bool
	now    string
}

type binder interface {
	OnAt(rc event.Receivable, p event.Priority, fn element.Handler)
}

// bind registers fn for action when the keymap binds it
func (d *demo) bind(b binder, action string, p event.Priority, fn element.Handler) {
	rc, ok := d.keys.Get(action)
	if !ok {
		return
	}
	b.OnAt(rc, p, fn)
}

func buildDemo(e *engine.Engine, km input.Keymap) *demo {
	d := &demo{e: e, keys: km, follow: true}
	root := e.Root()

	d.header = element.NewPane(layout.NewLocation(layout.Zero(), layout.Full(), layout.Zero(), layout.Fixed(1)).WithZ(1))
	d.header.SetBackground(render.Style{Bg: titleBg})

	// Global bindings live on the root, which focus changes never demote
	d.bind(root, "quit", event.Highest, func(layout.Region, event.Event) (bool, element.Responses) {
		return true, element.Responses{element.Quit{}}
	})
	d.bind(root, "pause", event.Highest, func(layout.Region, event.Event) (bool, element.Responses) {
		if e.Clock().Toggle() {
			d.logf("animation paused")
		} else {
			d.logf("animation resumed")
		}
		d.refreshHeader()
		return true, nil
	})
	d.bind(root, "help", event.Highest, func(layout.Region, event.Event) (bool, element.Responses) {
		d.showHelp(true)
		return true, nil
	})
	d.bind(root, "close", event.Highest, func(layout.Region, event.Event) (bool, element.Responses) {
		if !d.popup.Visible() {
			return false, nil
		}
		d.showHelp(false)
		return true, nil
	})
	d.header.OnAt(event.CustomEvent(eventClock), event.Unfocused, func(_ layout.Region, ev event.Event) (bool, element.Responses) {
		d.now = string(ev.(event.Custom).Data)
		d.refreshHeader()
		return false, nil
	})

	d.body = element.NewContainer(layout.NewLocation(layout.Zero(), layout.Full(), layout.Fixed(1), layout.Full()).WithZ(1))
	d.bind(d.body, "focus_next", event.Focused, func(layout.Region, event.Event) (bool, element.Responses) {
		return true, d.body.FocusNext(1)
	})
	d.bind(d.body, "focus_prev", event.Focused, func(layout.Region, event.Event) (bool, element.Responses) {
		return true, d.body.FocusNext(-1)
	})

	cols := layout.SplitH(0.5, 0.5)
	d.log = d.newPanel(cols[0], "log")
	d.stats = d.newPanel(cols[1], "stats")
	d.buildLog()
	d.buildStats()
	d.stats.ChangePriority(event.Unfocused)
	d.body.Add(d.log)
	d.body.Add(d.stats)

	d.popup = element.NewPane(layout.NewLocation(
		layout.Flex(0.25), layout.Flex(0.75), layout.Flex(0.2), layout.Flex(0.8)))
	d.popup.SetBackground(render.Style{Bg: render.Solid(terminal.Gunmetal)})
	d.popup.SetBorder(render.LineRounded, render.Style{Fg: render.Solid(terminal.Gold)})
	d.popup.SetTitle("keys")
	d.popup.SetText(helpText(km), render.Style{Fg: render.Solid(terminal.LightGray), Bg: render.Solid(terminal.Gunmetal)})

	root.Add(d.header)
	root.Add(d.body)
	root.Add(d.popup)

	d.refreshHeader()
	d.logf("started, %d bindings", len(km))
	return d
}

// newPanel is a bordered half of the body; a click focuses it
func (d *demo) newPanel(loc layout.Location, title string) *element.Pane {
	p := element.NewPane(loc)
	p.SetBorder(render.LineSingle, render.Style{Fg: render.Solid(terminal.SteelBlue)})
	p.SetTitle(title)
	p.OnMouse(func(_ layout.Region, ev event.Event) (bool, element.Responses) {
		return clickFocus(title, ev.(event.Mouse))
	})
	return p
}

// clickFocus takes focus from the panel's siblings on a left press
func clickFocus(title string, m event.Mouse) (bool, element.Responses) {
	if m.Button != terminal.MouseBtnLeft || m.Action != terminal.MouseActionPress {
		return false, nil
	}
	return true, element.Responses{
		element.UnfocusOthers{},
		element.Focus{},
		element.Metadata{Key: "focus", Value: []byte(title)},
	}
}

func (d *demo) buildLog() {
	d.log.OnResize(func(r layout.Region, ev event.Event) (bool, element.Responses) {
		d.height = max(ev.(event.Resize).Size.H-2, 1)
		d.scroll(0)
		return false, nil
	})
	d.bind(d.log, "top", event.Focused, func(layout.Region, event.Event) (bool, element.Responses) {
		d.follow = false
		d.offset = 0
		d.refreshLog()
		return true, nil
	})
	d.bind(d.log, "bottom", event.Focused, func(layout.Region, event.Event) (bool, element.Responses) {
		d.follow = true
		d.scroll(0)
		return true, nil
	})
	d.log.OnMouse(func(_ layout.Region, ev event.Event) (bool, element.Responses) {
		m := ev.(event.Mouse)
		switch m.Button {
		case terminal.MouseBtnWheelUp:
			d.follow = false
			d.scroll(-3)
			return true, nil
		case terminal.MouseBtnWheelDown:
			d.scroll(3)
			return true, nil
		}
		return clickFocus(d.log.Title(), m)
	})
	d.log.OnAt(event.CustomEvent(event.TaskExited), event.Unfocused, func(_ layout.Region, ev event.Event) (bool, element.Responses) {
		d.logf("task %s exited", ev.(event.Custom).Data)
		return false, nil
	})
	d.log.OnAt(event.CustomEvent(event.TaskFailed), event.Unfocused, func(_ layout.Region, ev event.Event) (bool, element.Responses) {
		d.logf("task failed: %s", ev.(event.Custom).Data)
		return false, nil
	})
}

func (d *demo) buildStats() {
	d.stats.OnAt(event.CustomEvent(eventClock), event.Unfocused, func(layout.Region, event.Event) (bool, element.Responses) {
		d.refreshStats()
		return false, nil
	})
	d.refreshStats()
}

// startClock posts the wall time every interval until the engine stops
func (d *demo) startClock(interval time.Duration) {
	d.e.Go("clock", func(stop <-chan struct{}) error {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return nil
			case now := <-t.C:
				d.e.Post(event.Custom{Name: eventClock, Data: []byte(now.Format("15:04:05"))})
			}
		}
	})
}

func (d *demo) showHelp(v bool) {
	if d.popup.Visible() == v {
		return
	}
	d.popup.SetVisible(v)
	if v {
		d.logf("help shown")
	} else {
		d.logf("help hidden")
	}
}

// metadata logs what an element reported to the top of the tree
func (d *demo) metadata(key string, value []byte) {
	d.logf("%s: %s", key, value)
}

// logf appends a line, dropping the oldest past logLimit
func (d *demo) logf(format string, args ...any) {
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
	if over := len(d.lines) - logLimit; over > 0 {
		d.lines = append(d.lines[:0], d.lines[over:]...)
		d.offset = max(d.offset-over, 0)
	}
	d.scroll(0)
}

// scroll moves the log view by n lines, pinned to the tail while following
func (d *demo) scroll(n int) {
	last := max(len(d.lines)-max(d.height, 1), 0)
	if d.follow {
		d.offset = last
	} else {
		d.offset = min(max(d.offset+n, 0), last)
		if d.offset == last && n > 0 {
			d.follow = true
		}
	}
	d.refreshLog()
}

func (d *demo) refreshLog() {
	d.log.SetText(strings.Join(d.lines[d.offset:], "\n"), render.Style{Fg: render.Solid(terminal.Silver)})
}

func (d *demo) refreshStats() {
	var b strings.Builder
	for _, m := range d.e.Stats().Snapshot() {
		fmt.Fprintf(&b, "%-18s %s\n", m.Name, m.Value)
	}
	d.stats.SetText(strings.TrimSuffix(b.String(), "\n"), render.Style{Fg: render.Solid(terminal.MintGreen)})
}

func (d *demo) refreshHeader() {
	text := " loom"
	if d.now != "" {
		text += "  " + d.now
	}
	if d.e.Clock().Paused() {
		text += "  [paused]"
	}
	d.header.SetText(text, render.Style{Fg: render.Solid(terminal.White), Bg: titleBg, Attrs: terminal.AttrBold})
}

// helpText lists the bindings one per line in plain text
func helpText(km input.Keymap) string {
	var b strings.Builder
	for _, action := range km.Actions() {
		rc, _ := km.Get(action)
		fmt.Fprintf(&b, "%-11s %s\n", action, input.FormatPattern(rc))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
