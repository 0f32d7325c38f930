// Package tracer installs the global opentracing tracer used by the gorm
// tracing plugin and the HTTP trace middleware.
package tracer

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Config 链路追踪配置
type Config struct {
	ServiceName string
	// AgentHostPort is the jaeger agent address, e.g. 127.0.0.1:6831.
	// Empty keeps the no-op tracer.
	AgentHostPort string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewJaegerTracer builds a jaeger tracer that samples every span.
func NewJaegerTracer(c Config) (opentracing.Tracer, io.Closer, error) {
	cfg := &jaegercfg.Configuration{
		ServiceName: c.ServiceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:           false,
			LocalAgentHostPort: c.AgentHostPort,
		},
	}
	t, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, nil, errors.Wrap(err, "jaeger tracer")
	}
	return t, closer, nil
}

// Setup sets the global tracer. The returned closer flushes pending spans.
// 未配置 agent 时保持 opentracing 默认的 NoopTracer
func Setup(c Config) (io.Closer, error) {
	if c.AgentHostPort == "" {
		return nopCloser{}, nil
	}
	t, closer, err := NewJaegerTracer(c)
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(t)
	return closer, nil
}
