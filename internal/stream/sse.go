package stream

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("sse stream closed")

// SSEWriter is a Sink that frames increments as server-sent events.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
	closed  bool
}

// NewSSEWriter wraps w. Headers are written on the first Send.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported by response writer")
	}
	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Send writes data as one event. Multi-line data gets one data field per line.
func (s *SSEWriter) Send(data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.start()

	var b strings.Builder
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if _, err := fmt.Fprint(s.w, b.String()); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// Close ends the stream. Later calls are no-ops.
func (s *SSEWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.start()
	s.closed = true
	s.flusher.Flush()
	return nil
}

func (s *SSEWriter) start() {
	if s.started {
		return
	}
	s.started = true
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	s.w.WriteHeader(http.StatusOK)
}
