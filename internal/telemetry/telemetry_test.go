package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, IsEnabled())
	assert.NoError(t, shutdown(context.Background()))
}

func TestTracerBeforeInit(t *testing.T) {
	// A no-op tracer must be available even if Init was never called.
	tr := Tracer()
	require.NotNil(t, tr)

	ctx, span := StartSpan(context.Background(), "test")
	assert.NotNil(t, ctx)
	span.End()
}

func TestInitProfilingDisabled(t *testing.T) {
	shutdown, err := InitProfiling(ProfilingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown())
}

func TestInitProfilingRejectsUnknownType(t *testing.T) {
	_, err := InitProfiling(ProfilingConfig{
		Enabled:      true,
		ServiceName:  "blocktally-test",
		Endpoint:     "http://localhost:4040",
		ProfileTypes: []string{"heap_of_trouble"},
	})
	assert.Error(t, err)
}
