package trace

import (
	// 外部依赖
	"context"

	otel "go.opentelemetry.io/otel"
	otlptracegrpc "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	propagation "go.opentelemetry.io/otel/propagation"
	resource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	// 内部引用
	config "github.com/hemolink/bloodlink/internal/config"
	logger "github.com/hemolink/bloodlink/pkg/middleware/logger"
)

var provider *sdktrace.TracerProvider

// Init 初始化 tracer provider
// endpoint 为空且未开启 stdout 时保持全局 no-op，不产生任何开销
func Init(ctx context.Context, conf *config.Trace, server *config.Server) {
	var exporter sdktrace.SpanExporter
	var err error

	switch {
	case conf.TraceEndpoint != "":
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(conf.TraceEndpoint),
			otlptracegrpc.WithInsecure(),
		)
	case conf.StdoutTrace:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return
	}
	if err != nil {
		logger.Errorf(ctx, "init trace exporter err: %+v", err)
		return
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(server.Platform+"-"+server.Service),
		semconv.ServiceVersion(conf.Version),
		semconv.DeploymentEnvironmentName(server.Env),
	))
	if err != nil {
		logger.Errorf(ctx, "build trace resource err: %+v", err)
		return
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
}

func Close(ctx context.Context) {
	if provider != nil {
		_ = provider.Shutdown(ctx)
	}
}
