package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"salescli/internal/config"
)

const (
	ServiceName = "salescli"
	MeterName   = "salescli"
)

// Telemetry holds the tracer and meter used for a single pipeline run.
// Tracing is a no-op unless enabled; metrics are always collected into a
// private registry and written out only when a metrics file is configured.
type Telemetry struct {
	Tracer   trace.Tracer
	Meter    metric.Meter
	Metrics  *PipelineMetrics
	Registry *prometheus.Registry

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metricsFile    string
	logger         *slog.Logger
}

// PipelineMetrics are the counters recorded by the analysis steps
type PipelineMetrics struct {
	RowsRead       metric.Int64Counter
	RowsDropped    metric.Int64Counter
	ChartsRendered metric.Int64Counter
	ChartsFailed   metric.Int64Counter
	StepDuration   metric.Float64Histogram
}

// InitializeTelemetry sets up tracing and metrics for one run
func InitializeTelemetry(cfg config.TelemetryConfig, version string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(version),
	)

	tel := &Telemetry{
		Registry:    prometheus.NewRegistry(),
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if cfg.Tracing {
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tel.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
		)
		tel.Tracer = tel.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(version))
	} else {
		tel.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	}

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(tel.Registry),
		otelprom.WithoutScopeInfo(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	tel.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	tel.Meter = tel.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(version))

	tel.Metrics, err = NewPipelineMetrics(tel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.String("metrics_file", cfg.MetricsFile))

	return tel, nil
}

// NewPipelineMetrics creates the pipeline instruments on the given meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"salescli_rows_read",
		metric.WithDescription("Rows read from the input file"),
	)
	if err != nil {
		return nil, err
	}

	rowsDropped, err := meter.Int64Counter(
		"salescli_rows_dropped",
		metric.WithDescription("Rows dropped during preparation, by reason"),
	)
	if err != nil {
		return nil, err
	}

	chartsRendered, err := meter.Int64Counter(
		"salescli_charts_rendered",
		metric.WithDescription("Charts written to disk"),
	)
	if err != nil {
		return nil, err
	}

	chartsFailed, err := meter.Int64Counter(
		"salescli_charts_failed",
		metric.WithDescription("Charts that failed to render"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"salescli_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsRead:       rowsRead,
		RowsDropped:    rowsDropped,
		ChartsRendered: chartsRendered,
		ChartsFailed:   chartsFailed,
		StepDuration:   stepDuration,
	}, nil
}

// RecordRowsRead counts rows read from the input file
func (m *PipelineMetrics) RecordRowsRead(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.RowsRead.Add(ctx, int64(n))
}

// RecordDropped adds n dropped rows under the given reason
func (m *PipelineMetrics) RecordDropped(ctx context.Context, reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsDropped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordChart counts a chart outcome
func (m *PipelineMetrics) RecordChart(ctx context.Context, chart string, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("chart", chart))
	if err != nil {
		m.ChartsFailed.Add(ctx, 1, attrs)
		return
	}
	m.ChartsRendered.Add(ctx, 1, attrs)
}

// RecordStep observes how long a pipeline step took
func (m *PipelineMetrics) RecordStep(ctx context.Context, step string, d time.Duration) {
	if m == nil {
		return
	}
	m.StepDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("step", step)))
}

// WriteMetrics writes the collected metrics in Prometheus text format to the
// configured metrics file. It does nothing when no file is configured.
func (t *Telemetry) WriteMetrics() error {
	if t.metricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", t.metricsFile, err)
	}
	t.logger.Info("Metrics written", slog.String("path", t.metricsFile))
	return nil
}

// Shutdown flushes and stops the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
