package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/loom/terminal"
)

// Restorer is the part of the terminal the guard needs to put it back in normal mode
type Restorer interface {
	Fini()
}

var crashStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

// Guard restores the terminal before an unhandled failure terminates the process
// Acquire once at startup with Install and defer Recover at the top of main
type Guard struct {
	mu       sync.Mutex
	term     Restorer
	out      io.Writer
	exit     func(code int)
	restored bool
}

// Install creates the process crash guard for a terminal
// term may be nil before the terminal is initialized, EmergencyReset is used then
func Install(term Restorer) *Guard {
	return &Guard{
		term: term,
		out:  os.Stderr,
		exit: os.Exit,
	}
}

// SetTerminal attaches the terminal once it is initialized
func (g *Guard) SetTerminal(term Restorer) {
	g.mu.Lock()
	g.term = term
	g.mu.Unlock()
}

// Restore puts the terminal back in normal mode, safe to call more than once
func (g *Guard) Restore() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.restored {
		return
	}
	g.restored = true

	if g.term != nil {
		g.term.Fini()
		return
	}
	// Escape sequences alone, no terminal handle to finalize
	terminal.EmergencyReset(os.Stdout)
}

// Recover must be deferred directly; it handles a panic in the calling goroutine
func (g *Guard) Recover() {
	if r := recover(); r != nil {
		g.HandleCrash(r)
	}
}

// HandleCrash resets the terminal, prints the failure and stack trace and exits
func (g *Guard) HandleCrash(r any) {
	if r == nil {
		return
	}

	g.Restore()

	os.Stdout.Sync()

	// \r\n keeps the output aligned if the restore left the tty in raw mode
	fmt.Fprintf(g.out, "\r\n%s\r\n", crashStyle.Render(fmt.Sprintf("LOOM CRASHED: %v", r)))
	fmt.Fprintf(g.out, "Stack Trace:\r\n%s\r\n", debug.Stack())

	if f, ok := g.out.(*os.File); ok {
		f.Sync()
	}

	g.exit(1)
}

// Go runs fn in a new goroutine with crash recovery
// Use this instead of the 'go' keyword so a background panic still restores the terminal
func (g *Guard) Go(fn func()) {
	go func() {
		defer g.Recover()
		fn()
	}()
}
