package progrock_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/telemetry/progrock"
	"go.trai.ch/rig/internal/core/domain"
)

type captureLogger struct {
	mu    sync.Mutex
	debug []string
}

func (l *captureLogger) Debug(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, msg)
}
func (l *captureLogger) Info(string)              {}
func (l *captureLogger) Warn(string)              {}
func (l *captureLogger) Error(error)              {}
func (l *captureLogger) SetLevel(domain.LogLevel) {}
func (l *captureLogger) SetJSON(bool)             {}

func (l *captureLogger) lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.debug...)
}

func hasPrefix(lines []string, prefix string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func TestRecorder_ReportsVertices(t *testing.T) {
	log := &captureLogger{}
	recorder := progrock.New(log)

	_, ok := recorder.Record(context.Background(), "install tidyr 1.3.0")
	ok.Log(domain.LogLevelInfo, "installed")
	ok.Complete(nil)

	_, failed := recorder.Record(context.Background(), "install broken 0.1")
	failed.Complete(errors.New("boom"))

	_, cached := recorder.Record(context.Background(), "remove stale")
	cached.Cached()
	cached.Complete(nil)

	require.NoError(t, recorder.Close())

	lines := log.lines()
	assert.Contains(t, lines, "install tidyr 1.3.0: [INFO] installed")
	assert.True(t, hasPrefix(lines, "install tidyr 1.3.0: done"), "lines: %v", lines)
	assert.Contains(t, lines, "install broken 0.1: failed: boom")
	assert.Contains(t, lines, "remove stale: cached")
}

func TestRecorder_ReportsCompletionOnce(t *testing.T) {
	log := &captureLogger{}
	recorder := progrock.New(log)

	_, v := recorder.Record(context.Background(), "install once")
	v.Complete(nil)
	v.Complete(nil)
	require.NoError(t, recorder.Close())

	count := 0
	for _, line := range log.lines() {
		if strings.HasPrefix(line, "install once: done") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
