package orchestrator

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sink receives the human-readable status lines of orchestration runs.
type Sink interface {
	Log(ts time.Time, msg string)
}

// ZerologSink writes status lines through a zerolog logger.
type ZerologSink struct {
	logger zerolog.Logger
}

// NewZerologSink creates a sink backed by logger.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

// Log writes msg at info level.
func (s *ZerologSink) Log(ts time.Time, msg string) {
	s.logger.Info().Time("at", ts).Msg(msg)
}

// LineSink writes "[15:04:05] message" lines to a writer.
type LineSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineSink creates a line sink writing to w.
func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

// Log writes one timestamped line.
func (s *LineSink) Log(ts time.Time, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "[%s] %s\n", ts.Format("15:04:05"), msg)
}

// MultiSink fans a line out to several sinks.
type MultiSink []Sink

// Log forwards to every sink.
func (m MultiSink) Log(ts time.Time, msg string) {
	for _, s := range m {
		s.Log(ts, msg)
	}
}
