package progrock

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/rig/internal/core/ports"
)

var _ progrock.Writer = (*LogWriter)(nil)

// LogWriter is a progrock.Writer that reports vertex logs and completions at debug level.
type LogWriter struct {
	logger ports.Logger

	mu       sync.Mutex
	names    map[string]string
	reported map[string]bool
	closed   bool
}

// NewLogWriter creates a LogWriter.
func NewLogWriter(logger ports.Logger) *LogWriter {
	return &LogWriter{
		logger:   logger,
		names:    make(map[string]string),
		reported: make(map[string]bool),
	}
}

// WriteStatus logs every new vertex log line and each vertex the first time it completes.
func (w *LogWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	for _, v := range update.Vertexes {
		w.names[v.Id] = v.Name
	}

	for _, l := range update.GetLogs() {
		name := w.names[l.GetVertex()]
		for _, line := range strings.Split(strings.TrimRight(string(l.GetData()), "\n"), "\n") {
			if line != "" {
				w.logger.Debug(fmt.Sprintf("%s: %s", name, line))
			}
		}
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil || w.reported[v.Id] {
			continue
		}
		w.reported[v.Id] = true
		w.logger.Debug(describe(v))
	}
	return nil
}

// Close stops reporting.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func describe(v *progrock.Vertex) string {
	switch {
	case v.Error != nil:
		return fmt.Sprintf("%s: failed: %s", v.Name, *v.Error)
	case v.Cached:
		return v.Name + ": cached"
	case v.Started != nil:
		return fmt.Sprintf("%s: done in %s", v.Name, v.Completed.AsTime().Sub(v.Started.AsTime()))
	default:
		return v.Name + ": done"
	}
}
