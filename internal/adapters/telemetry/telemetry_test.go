package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rig/internal/adapters/telemetry"
	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/rig/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestOTelTracer_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var lines []string
	log.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		lines = append(lines, msg)
	}).Times(2)

	tracer := telemetry.NewOTelTracer("test", telemetry.NewLogBridge(log))

	ctx, span := tracer.Start(context.Background(), "reconcile", ports.WithAttribute("roots", 3))
	tracer.EmitPlan(ctx, []string{"install tidyr"})
	span.SetAttribute("changes", 1)
	span.End()

	_, failed := tracer.Start(context.Background(), "apply")
	failed.RecordError(errors.New("disk full"))
	failed.End()

	require.NoError(t, tracer.Shutdown(context.Background()))
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], "reconcile took "), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], " changes=1 roots=3"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "apply took "), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], " error=disk full"), lines[1])
}

func TestOTelSpan_Write(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test")
	_, span := tracer.Start(context.Background(), "span")

	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	span.End()
}

func TestNoOp(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx, span := tracer.Start(context.Background(), "span")
	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	span.End()

	rec := telemetry.NewNoOpTelemetry()
	_, vertex := rec.Record(ctx, "vertex")
	vertex.Log(domain.LogLevelInfo, "ignored")
	_, err = vertex.Stdout().Write([]byte("x"))
	require.NoError(t, err)
	vertex.Complete(nil)
	assert.NoError(t, rec.Close())
}
