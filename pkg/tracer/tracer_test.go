package tracer

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_NoAgentKeepsNoop(t *testing.T) {
	closer, err := Setup(Config{ServiceName: "fast-drive-service"})
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.IsType(t, opentracing.NoopTracer{}, opentracing.GlobalTracer())
}

func TestNewJaegerTracer(t *testing.T) {
	tr, closer, err := NewJaegerTracer(Config{ServiceName: "fast-drive-service", AgentHostPort: "127.0.0.1:6831"})
	require.NoError(t, err)
	defer closer.Close()

	span := tr.StartSpan("test")
	span.Finish()
}

func TestNewJaegerTracer_RequiresServiceName(t *testing.T) {
	_, _, err := NewJaegerTracer(Config{AgentHostPort: "127.0.0.1:6831"})
	assert.Error(t, err)
}
