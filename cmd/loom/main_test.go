package main

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/loom/config"
	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/engine"
	"github.com/lixenwraith/loom/event"
	"github.com/lixenwraith/loom/input"
	"github.com/lixenwraith/loom/layout"
	"github.com/lixenwraith/loom/terminal"
)

// isolate keeps the user's config file and LOOM_* variables out of the test
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"FRAME_INTERVAL", "QUEUE_SIZE", "COLOR_MODE", "BACKEND", "MOUSE", "DEBUG", "LOG_FILE"} {
		t.Setenv(config.EnvPrefix+"_"+k, "")
		os.Unsetenv(config.EnvPrefix + "_" + k)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	isolate(t)
	var buf bytes.Buffer
	cmd := newRootCmd(core.Install(nil))
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestConfigCommand(t *testing.T) {
	out := execute(t, "config", "--queue-size=64", "--backend=tcell")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 64, got["queue_size"])
	assert.Equal(t, "tcell", got["backend"])
	assert.Contains(t, got["keymap"], "focus_next")
}

func TestConfigCommandRejectsBadFlag(t *testing.T) {
	isolate(t)
	cmd := newRootCmd(core.Install(nil))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--backend=sixel"})
	assert.Error(t, cmd.Execute())
}

func TestKeysCommand(t *testing.T) {
	out := execute(t, "keys")
	assert.Contains(t, out, "bindings")
	assert.Contains(t, out, "focus_next")
	assert.Contains(t, out, "g g")

	out = execute(t, "keys", "--names")
	assert.Contains(t, out, "page_down")
	assert.Contains(t, out, "ctrl_c")
}



func TestHelpText(t *testing.T) {
	km := input.DefaultKeymap()
	lines := strings.Split(helpText(km), "\n")
	assert.Len(t, lines, len(km))
	assert.Contains(t, helpText(km), "ctrl_c")
}

func newSimDemo(t *testing.T) (tcell.SimulationScreen, *engine.Engine, *demo) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := terminal.NewTcellScreen(sim, terminal.ColorModeTrueColor)
	var d *demo
	e := engine.New(term, engine.Options{
		FrameInterval: time.Millisecond,
		Mouse:         true,
		OnMetadata: func(key string, value []byte) {
			d.metadata(key, value)
		},
	})
	d = buildDemo(e, input.DefaultKeymap())
	return sim, e, d
}

func TestLogTrimsAndScrolls(t *testing.T) {
	_, _, d := newSimDemo(t)
	d.height = 5
	for i := range 250 {
		d.logf("line %d", i)
	}
	require.Len(t, d.lines, logLimit)
	assert.Equal(t, "line 249", d.lines[logLimit-1])
	assert.Equal(t, logLimit-5, d.offset, "follows the tail")

	d.follow = false
	d.scroll(-3)
	assert.Equal(t, logLimit-8, d.offset)
	d.logf("more")
	assert.Equal(t, logLimit-9, d.offset, "view stays on the same lines while scrolled back")

	d.scroll(100)
	assert.True(t, d.follow)
	assert.Equal(t, logLimit-5, d.offset)
}

// screenText returns the simulation screen as one string per row
func screenText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var b strings.Builder
	for y := range h {
		for x := range w {
			r := ' '
			if c := cells[y*w+x]; len(c.Runes) > 0 {
				r = c.Runes[0]
			}
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func waitScreen(t *testing.T, sim tcell.SimulationScreen, want func(string) bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if want(screenText(sim)) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("screen never showed %s:\n%s", what, screenText(sim))
}

func TestDemoRuns(t *testing.T) {
	sim, e, d := newSimDemo(t)
	d.startClock(10 * time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	waitScreen(t, sim, func(s string) bool {
		return strings.Contains(s, " loom") && strings.Contains(s, "╭─ keys") && strings.Contains(s, "started")
	}, "title, help popup and log")

	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	waitScreen(t, sim, func(s string) bool {
		return !strings.Contains(s, "╭─ keys") && strings.Contains(s, "help hidden")
	}, "popup hidden")

	w, _ := sim.Size()
	sim.InjectMouse(w-5, 3, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(w-5, 3, tcell.ButtonNone, tcell.ModNone)
	waitScreen(t, sim, func(s string) bool {
		return strings.Contains(s, "focus: stats")
	}, "click focus reported")

	frames := regexp.MustCompile(regexp.QuoteMeta(engine.MetricFrames) + `\s+[1-9]`)
	waitScreen(t, sim, frames.MatchString, "stats refreshed by the clock")

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ctrl_c did not quit")
	}
}

func TestClickKeepsGlobalBindings(t *testing.T) {
	_, e, d := newSimDemo(t)
	quit, ok := d.keys.Get("quit")
	require.True(t, ok)

	root := e.Root()
	click := event.Mouse{
		Point:  layout.Point{X: 5, Y: 5},
		Abs:    layout.Point{X: 5, Y: 5},
		Button: terminal.MouseBtnLeft,
		Action: terminal.MouseActionPress,
	}
	_, rs := root.ReceiveEvent(layout.NewRegion(80, 25), click)
	e.Propagate(root.ID(), rs)

	assert.Equal(t, event.Focused, d.log.Priority())
	assert.Equal(t, event.Unfocused, d.stats.Priority())
	owner, ok := e.Registry().Lookup(quit)
	require.True(t, ok, "quit still routable after a click")
	assert.Equal(t, root.ID(), owner)
	assert.Contains(t, d.lines, "focus: log")
}
