// Package logger gives runtime components a leveled printf-style log
// that never touches the screen while the terminal is in raw mode.
//
// Output goes through the stdlib log package: discarded by default,
// appended to a file when debug logging is enabled with Setup.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/lixenwraith/loom/errors"
)

// Default location of the debug log relative to the working directory
const (
	DefaultDir  = "logs"
	DefaultFile = "loom.log"
)

// Logger is the logging surface components depend on
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Setup routes the stdlib log output
// debug=false discards everything; debug=true appends to path (DefaultDir/DefaultFile when empty)
// The returned closer is nil when nothing was opened.
func Setup(debug bool, path string) (io.Closer, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	if path == "" {
		path = filepath.Join(DefaultDir, DefaultFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return nil, errors.Wrap(err, "logger.setup", errors.KindConfig)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, errors.Wrap(err, "logger.setup", errors.KindConfig)
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f, nil
}

type stdLogger struct {
	prefix string
	debug  bool
}

// New returns a logger writing through the stdlib log with prefix, e.g. "[engine]"
// Debug lines are written only when debug is set.
func New(prefix string, debug bool) Logger {
	return &stdLogger{prefix: prefix, debug: debug}
}

func (l *stdLogger) out(level, format string, args []any) {
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		log.Printf("%s %s%s", l.prefix, level, msg)
		return
	}
	log.Printf("%s%s", level, msg)
}

func (l *stdLogger) Debug(format string, args ...any) {
	if l.debug {
		l.out("", format, args)
	}
}

func (l *stdLogger) Info(format string, args ...any)  { l.out("", format, args) }
func (l *stdLogger) Warn(format string, args ...any)  { l.out("WARN: ", format, args) }
func (l *stdLogger) Error(format string, args ...any) { l.out("ERROR: ", format, args) }

type noopLogger struct{}

// Noop discards every message
func Noop() Logger { return noopLogger{} }

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Message is one captured line
type Message struct {
	Level   string
	Message string
}

// BufferLogger captures messages for assertions
// Safe for concurrent use so background tasks may log into it.
type BufferLogger struct {
	mu   sync.Mutex
	msgs []Message
}

func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (l *BufferLogger) add(level, format string, args []any) {
	l.mu.Lock()
	l.msgs = append(l.msgs, Message{Level: level, Message: fmt.Sprintf(format, args...)})
	l.mu.Unlock()
}

func (l *BufferLogger) Debug(format string, args ...any) { l.add("debug", format, args) }
func (l *BufferLogger) Info(format string, args ...any)  { l.add("info", format, args) }
func (l *BufferLogger) Warn(format string, args ...any)  { l.add("warn", format, args) }
func (l *BufferLogger) Error(format string, args ...any) { l.add("error", format, args) }

// Messages returns a copy of everything captured so far
func (l *BufferLogger) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.msgs...)
}

// HasLevel reports whether any message was logged at level
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages() {
		if m.Level == level {
			return true
		}
	}
	return false
}

func (l *BufferLogger) Clear() {
	l.mu.Lock()
	l.msgs = nil
	l.mu.Unlock()
}
