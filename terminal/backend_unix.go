//go:build unix

package terminal

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lixenwraith/loom/errors"
)

const (
	readChunk = 256

	fallbackWidth  = 80
	fallbackHeight = 24
)

// ttyBackend drives the controlling terminal through stdin and stdout
type ttyBackend struct {
	in, out *os.File
	saved   *term.State
	chunk   []byte

	// closed by Fini to end the SIGWINCH watcher
	winchStop chan struct{}
	winchDone chan struct{}
}

func newBackend() Backend {
	return &ttyBackend{in: os.Stdin, out: os.Stdout, chunk: make([]byte, readChunk)}
}

func (b *ttyBackend) inFd() int  { return int(b.in.Fd()) }
func (b *ttyBackend) outFd() int { return int(b.out.Fd()) }

func (b *ttyBackend) Init() error {
	if !term.IsTerminal(b.inFd()) {
		return errors.New("backend.init", errors.KindTerminal, "stdin is not a terminal")
	}
	st, err := term.MakeRaw(b.inFd())
	if err != nil {
		return errors.Wrap(err, "backend.raw", errors.KindTerminal)
	}
	b.saved = st
	return nil
}

func (b *ttyBackend) Fini() {
	if b.winchStop != nil {
		close(b.winchStop)
		<-b.winchDone
		b.winchStop = nil
	}
	if b.saved != nil {
		_ = term.Restore(b.inFd(), b.saved)
		b.saved = nil
	}
}

func (b *ttyBackend) Size() (int, int) {
	ws, err := unix.IoctlGetWinsize(b.outFd(), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return fallbackWidth, fallbackHeight
	}
	return int(ws.Col), int(ws.Row)
}

func (b *ttyBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

// Read waits in poll(2) for at most escapeTimeout so stop and a lone ESC are handled promptly
// An empty result means the poll timed out or stop was closed.
func (b *ttyBackend) Read(stop <-chan struct{}) ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(b.inFd()), Events: unix.POLLIN}}
	for {
		select {
		case <-stop:
			return nil, nil
		default:
		}

		ready, err := unix.Poll(fds, int(escapeTimeout.Milliseconds()))
		switch {
		case err == unix.EINTR:
			continue
		case err != nil:
			return nil, errors.Wrap(err, "backend.poll", errors.KindTerminal)
		case ready == 0:
			return nil, nil
		}

		n, err := unix.Read(b.inFd(), b.chunk)
		switch {
		case err == unix.EINTR || err == unix.EAGAIN:
			continue
		case err != nil:
			return nil, errors.Wrap(err, "backend.read", errors.KindTerminal)
		case n == 0:
			return nil, errors.Wrap(io.EOF, "backend.read", errors.KindTerminal)
		}
		return append([]byte(nil), b.chunk[:n]...), nil
	}
}

func (b *ttyBackend) SetResizeHandler(fn func(width, height int)) {
	b.winchStop = make(chan struct{})
	b.winchDone = make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGWINCH)

	go func() {
		defer close(b.winchDone)
		defer signal.Stop(sig)
		for {
			select {
			case <-b.winchStop:
				return
			case <-sig:
				fn(b.Size())
			}
		}
	}()
}
