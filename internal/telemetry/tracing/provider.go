package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type ProviderParams struct {
	ServiceName string
	Environment string
	Version     string

	// OTLPEndpoint is a host:port of an OTLP gRPC collector
	OTLPEndpoint string
	OTLPInsecure bool

	// TraceFile receives finished spans as JSON, one per line
	TraceFile string
}

// Shutdown flushes pending spans and releases the exporters.
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Setup registers the global tracer provider with the configured exporters.
// With neither an OTLP endpoint nor a trace file, spans stay no-ops and
// nothing is registered.
func Setup(ctx context.Context, params ProviderParams) (Shutdown, error) {
	if params.OTLPEndpoint == "" && params.TraceFile == "" {
		return noopShutdown, nil
	}

	attrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(params.ServiceName)),
	}
	if params.Version != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceVersion(params.Version)))
	}
	if params.Environment != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironment(params.Environment)))
	}
	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	var traceFile *os.File
	if params.TraceFile != "" {
		traceFile, err = os.OpenFile(params.TraceFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
		if err != nil {
			_ = traceFile.Close()
			return nil, fmt.Errorf("create file trace exporter: %w", err)
		}
		// short lived cli runs, spans are written as they end
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	if params.OTLPEndpoint != "" {
		grpcOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(params.OTLPEndpoint)}
		if params.OTLPInsecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			if traceFile != nil {
				_ = traceFile.Close()
			}
			return nil, fmt.Errorf("create otlp trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if traceFile != nil {
			err = errors.Join(err, traceFile.Close())
		}
		return err
	}, nil
}
