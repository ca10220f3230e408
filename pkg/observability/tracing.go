package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
	"go.uber.org/zap"

	appconfig "github.com/halcyonmkt/marketdata-commons/pkg/config"
	"github.com/halcyonmkt/marketdata-commons/pkg/health"
)

type tracingParams struct {
	fx.In
	Lc        fx.Lifecycle
	Log       *zap.Logger
	Cfg       Config
	AppCfg    appconfig.AppConfig
	Readiness health.ComponentManager
}

func provideTracerProvider(p tracingParams) (trace.TracerProvider, error) {
	if !p.Cfg.Tracing.Enabled {
		p.Log.Info("tracing disabled")
		return noop.NewTracerProvider(), nil
	}

	tp, err := newTracerProvider(context.Background(), p.Log, p.Cfg.OtelCollectorEndpoint, p.AppCfg)
	if err != nil {
		return nil, err
	}

	markReady := p.Readiness.AddComponent(TracingComponentName)

	p.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			otel.SetTracerProvider(tp)
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			))
			p.Log.Info("tracing initialized", zap.String("endpoint", p.Cfg.OtelCollectorEndpoint))
			markReady()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, DefaultShutdownTimeout)
			defer cancel()
			return tp.Shutdown(shutdownCtx)
		},
	})

	return tp, nil
}

// newTracerProvider builds an OTLP/gRPC tracer provider. Without a collector
// endpoint it falls back to a local always-sampling provider so spans stay
// available to in-process consumers.
func newTracerProvider(ctx context.Context, log *zap.Logger, endpoint string, appCfg appconfig.AppConfig) (*sdktrace.TracerProvider, error) {
	res, err := newResource(ctx, appCfg)
	if err != nil {
		return nil, err
	}

	if endpoint == "" {
		log.Info("tracing running in local mode, no collector endpoint")
		return sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
			sdktrace.WithResource(res),
		), nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

// GetTraceID extracts the trace ID from context, or "" when no span is
// active.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID extracts the span ID from context, or "" when no span is active.
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
