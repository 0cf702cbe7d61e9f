// Package msglog delivers human-readable progress messages to whatever
// surface hosts a run: a UI message log, an append-only log file, or a
// structured logger.
package msglog

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Sink receives one progress message at a time.
//
// Message must be inert:
//   - must not panic (implementations should guard themselves)
//   - must not return errors
//
// The caller must assume Message may be a no-op. Message delivery never
// affects the outcome of the run that produced it.
type Sink interface {
	Message(msg string)
}

// NopSink discards all messages.
type NopSink struct{}

func (NopSink) Message(string) {}

// SafeMessage delivers a message and guarantees inertness even if the sink
// is buggy. It intentionally swallows panics.
func SafeMessage(s Sink, msg string) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Message(msg)
}

// FileSink appends each message as one line to a log file. The file is
// opened, written and closed per message; interleaving with other writers
// relies on OS append semantics only. No rotation.
type FileSink struct {
	path string
}

// NewFileSink creates a sink appending to the given path. An empty path
// selects the default <temp-dir>/cea.log.
func NewFileSink(path string) *FileSink {
	if path == "" {
		path = filepath.Join(os.TempDir(), "cea.log")
	}
	return &FileSink{path: path}
}

// Path returns the log file path the sink appends to.
func (s *FileSink) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *FileSink) Message(msg string) {
	if s == nil {
		return
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(msg + "\n")
}

// LoggerSink forwards messages to a zap logger at info level.
type LoggerSink struct {
	log *zap.Logger
}

func NewLoggerSink(log *zap.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

func (s *LoggerSink) Message(msg string) {
	if s == nil || s.log == nil {
		return
	}
	s.log.Info(msg)
}

// MultiSink fans a message out to every child sink via SafeMessage, so one
// broken child cannot silence the others.
type MultiSink []Sink

func (m MultiSink) Message(msg string) {
	for _, s := range m {
		SafeMessage(s, msg)
	}
}

// Buffer is a concurrency-safe in-memory collector, mainly for tests and
// for surfaces that render messages after the fact.
type Buffer struct {
	mu   sync.Mutex
	msgs []string
}

func NewBuffer() *Buffer { return &Buffer{} }

func (b *Buffer) Message(msg string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.msgs = append(b.msgs, msg)
	b.mu.Unlock()
}

// Messages returns a point-in-time copy of all collected messages.
func (b *Buffer) Messages() []string {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.msgs))
	copy(out, b.msgs)
	return out
}
