package events

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// Sink receives events in emission order. Emit never fails from the
// caller's point of view; sinks deal with their own write errors.
type Sink interface {
	Emit(ev Event)
}

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) {}

// MemSink keeps emitted events in memory.
type MemSink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemSink creates an empty MemSink.
func NewMemSink() *MemSink { return &MemSink{} }

// Emit implements Sink.
func (s *MemSink) Emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// Events returns the events emitted so far, oldest first.
func (s *MemSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// LogSink writes each event as an EVENT_JSON line and folds every line into a
// running BLAKE2b-256 chain, digest_n = H(digest_{n-1} || line_n). An indexer
// that replays the same lines reaches the same digest.
type LogSink struct {
	mu     sync.Mutex
	w      io.Writer
	log    *zap.Logger
	digest [blake2b.Size256]byte
	count  uint64
}

// NewLogSink creates a LogSink writing to w. A nil logger disables error logging.
func NewLogSink(w io.Writer, log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{w: w, log: log}
}

// Emit implements Sink.
func (s *LogSink) Emit(ev Event) {
	line, err := Encode(ev)
	if err != nil {
		s.log.Error("event encode failed", zap.String("event", string(ev.Kind())), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, line+"\n"); err != nil {
		s.log.Error("event write failed", zap.String("event", string(ev.Kind())), zap.Error(err))
		return
	}
	s.digest = ChainDigest(s.digest, line)
	s.count++
	s.log.Debug("event emitted", zap.String("event", string(ev.Kind())), zap.Uint64("seq", s.count))
}

// Digest returns the chain digest and the number of events folded into it.
func (s *LogSink) Digest() ([blake2b.Size256]byte, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digest, s.count
}

// Resume continues the chain from a digest and count obtained with
// ReplayDigest, for a sink appending to an existing log.
func (s *LogSink) Resume(digest [blake2b.Size256]byte, count uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.digest, s.count = digest, count
}

// maxLineSize bounds a single event line when replaying a log.
const maxLineSize = 4 << 20

// ReplayDigest folds every non-empty line read from r into a chain digest,
// reproducing what the LogSink that wrote them reported.
func ReplayDigest(r io.Reader) ([blake2b.Size256]byte, uint64, error) {
	var digest [blake2b.Size256]byte
	var count uint64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		digest = ChainDigest(digest, line)
		count++
	}
	if err := sc.Err(); err != nil {
		return [blake2b.Size256]byte{}, 0, fmt.Errorf("events: replay log: %w", err)
	}
	return digest, count, nil
}

// ChainDigest extends prev with one event line.
func ChainDigest(prev [blake2b.Size256]byte, line string) [blake2b.Size256]byte {
	buf := make([]byte, 0, len(prev)+len(line))
	buf = append(buf, prev[:]...)
	buf = append(buf, line...)
	return blake2b.Sum256(buf)
}

// Fanout emits every event to each sink in order.
func Fanout(sinks ...Sink) Sink { return fanout(sinks) }

type fanout []Sink

func (f fanout) Emit(ev Event) {
	for _, s := range f {
		s.Emit(ev)
	}
}
