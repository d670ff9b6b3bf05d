package tracing_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_NothingConfigured(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background(), tracing.ProviderParams{ServiceName: "fitlog-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_InvalidTraceFile(t *testing.T) {
	_, err := tracing.Setup(context.Background(), tracing.ProviderParams{
		ServiceName: "fitlog-test",
		TraceFile:   filepath.Join(t.TempDir(), "missing", "traces.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open trace file")
}

// the global provider can be set only once per process, so the exported
// spans are all checked here
func TestSetup_TraceFile(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "traces.json")
	shutdown, err := tracing.Setup(context.Background(), tracing.ProviderParams{
		ServiceName: "fitlog-test",
		Environment: "development",
		Version:     "0.1.0",
		TraceFile:   traceFile,
	})
	require.NoError(t, err)

	_, span := tracing.GlobalTracer.Start(context.Background(), "store.load")
	tracing.EndSpanWithErrCheck(span, nil)

	_, span = tracing.GlobalTracer.Start(context.Background(), "store.save")
	tracing.EndSpanWithErrCheck(span, errors.New("disk full"))

	require.NoError(t, shutdown(context.Background()))

	raw, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, `"Name":"store.load"`)
	assert.Contains(t, content, `"Name":"store.save"`)
	assert.Contains(t, content, "disk full")
	assert.Contains(t, content, "fitlog-test")
}
