// Package logx is the append-only log sink for background sessions.
//
// Detached synchronization sessions have no terminal; the log file is their
// sole audit trail. Writes are whole-line O_APPEND appends so rapid
// successive pushes from concurrent sessions never interleave mid-line.
package logx

import (
	"fmt"
	"os"
	"strings"

	"github.com/danieljhkim/gitecho/internal/clock"
)

// Level classifies a log line.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

const timestampLayout = "2006-01-02 15:04:05"

// Sink receives log events. Implementations must append whole lines.
type Sink interface {
	Log(level Level, message string)
}

// FileSink appends formatted lines to a fixed log file.
// Each line is "[timestamp] [LEVEL] message". Append failures are dropped;
// a background session has nowhere else to report them.
type FileSink struct {
	path  string
	clock clock.Clock
}

// NewFileSink creates a FileSink writing to path.
func NewFileSink(path string, clk clock.Clock) *FileSink {
	return &FileSink{path: path, clock: clk}
}

// Log appends one formatted line.
func (s *FileSink) Log(level Level, message string) {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintf(f, "[%s] [%s] %s\n", s.clock.Now().Format(timestampLayout), level, message)
}

// MemorySink records log events in memory for tests.
type MemorySink struct {
	Entries []Entry
}

// Entry is one recorded log event.
type Entry struct {
	Level   Level
	Message string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Log records the event.
func (s *MemorySink) Log(level Level, message string) {
	s.Entries = append(s.Entries, Entry{Level: level, Message: message})
}

// Messages returns just the recorded messages, in order.
func (s *MemorySink) Messages() []string {
	msgs := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		msgs[i] = e.Message
	}
	return msgs
}

// Tail returns the last n lines of the log file at path.
// A missing file yields no lines and no error.
func Tail(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
