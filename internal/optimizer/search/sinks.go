package search

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gearsmith/internal/optimizer/engine"
)

// LogSink publishes progress snapshots as structured log lines.
type LogSink struct {
	Logger *zap.Logger
}

// Publish logs the snapshot counters and the current best score.
func (s LogSink) Publish(p engine.Progress) error {
	fields := []zap.Field{
		zap.Uint64("processed", p.Processed),
		zap.Uint64("total", p.Total),
		zap.Uint64("batch", p.Batch),
		zap.Int("top", len(p.TopCharacters)),
	}
	if len(p.TopCharacters) > 0 {
		fields = append(fields, zap.Float64("best", p.TopCharacters[0].Score()))
	}
	s.Logger.Info("search progress", fields...)
	return nil
}

// StreamSink writes each snapshot as one JSON line.
//
// Safe for concurrent use; writes are serialized.
type StreamSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewStreamSink returns a sink writing JSON lines to w.
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{enc: json.NewEncoder(w)}
}

// Publish encodes the snapshot onto the stream.
func (s *StreamSink) Publish(p engine.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(p); err != nil {
		return fmt.Errorf("search: encode progress: %w", err)
	}
	return nil
}
