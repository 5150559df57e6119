package tracing

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.uber.org/zap"
)

type Config struct {
	Enabled     bool
	ServiceName string
	Environment string
	Exporter    string // stdout / otlp
	Endpoint    string
	Insecure    bool
	SampleRatio float64
	Writer      io.Writer // stdout 导出器的输出，默认 os.Stdout
}

// Init 安装全局 TracerProvider；未启用时返回空操作的 shutdown
func Init(ctx context.Context, l *zap.Logger, cfg Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}

	exp, err := buildExporter(ctx, cfg)
	if err != nil {
		return noop, fmt.Errorf("trace exporter: %w", err)
	}

	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "llm-usage-ledger"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(name),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		l.Warn("otel resource init failed (continuing)", zap.Error(err))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(cfg.SampleRatio)))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	l.Info("otel tracing initialized",
		zap.String("service", name),
		zap.String("exporter", cfg.Exporter),
		zap.Float64("sample_ratio", clampRatio(cfg.SampleRatio)),
	)
	return tp.Shutdown, nil
}

func buildExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.Exporter) {
	case "otlp":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case "", "stdout":
		opts := []stdouttrace.Option{}
		if cfg.Writer != nil {
			opts = append(opts, stdouttrace.WithWriter(cfg.Writer))
		}
		return stdouttrace.New(opts...)
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

func clampRatio(r float64) float64 {
	switch {
	case r <= 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
