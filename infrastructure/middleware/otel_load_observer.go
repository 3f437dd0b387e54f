package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-medals/internal/ports"
)

// TracerName is the instrumentation name of the dashboard's spans.
const TracerName = "github.com/ahrav/go-medals"

var _ ports.LoadObserver = (*OTelLoadObserver)(nil)

// OTelLoadObserver traces dataset loads with OpenTelemetry and forwards
// their outcome to a MetricsCollector. The span travels in the context, so
// one observer serves concurrent loads.
type OTelLoadObserver struct {
	metrics ports.MetricsCollector
	tracer  trace.Tracer
}

// NewOTelLoadObserver creates an observer using the global tracer provider.
// metrics may be nil.
func NewOTelLoadObserver(metrics ports.MetricsCollector) *OTelLoadObserver {
	return &OTelLoadObserver{
		metrics: metrics,
		tracer:  otel.Tracer(TracerName),
	}
}

// PreLoad starts the load span.
func (o *OTelLoadObserver) PreLoad(ctx context.Context, source string) context.Context {
	ctx, _ = o.tracer.Start(ctx, "Dashboard.Load", trace.WithAttributes(
		attribute.String("medals.source", source),
	))
	return ctx
}

// PostLoad finalizes the span and records load metrics.
func (o *OTelLoadObserver) PostLoad(ctx context.Context, stats ports.LoadStats, err error) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.Int("medals.records", stats.Records),
		attribute.Int("medals.countries", stats.Countries),
		attribute.Int("medals.medals", stats.Medals),
		attribute.Bool("medals.changed", stats.Changed),
	)

	labels := map[string]string{"source": stats.Source}
	if o.metrics != nil {
		o.metrics.RecordLatency(OperationDatasetLoad, stats.Duration, labels)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.count(stats.Source, "error")
		return
	}

	span.AddEvent("dataset.loaded", trace.WithAttributes(
		attribute.Int64("duration_ms", stats.Duration.Milliseconds()),
	))
	span.SetStatus(codes.Ok, "dataset loaded")
	o.count(stats.Source, "success")

	if o.metrics != nil {
		o.metrics.RecordGauge(MetricDatasetRecords, float64(stats.Records), labels)
		o.metrics.RecordGauge(MetricDatasetCountries, float64(stats.Countries), labels)
		o.metrics.RecordGauge(MetricDatasetMedals, float64(stats.Medals), labels)
	}
}

func (o *OTelLoadObserver) count(source, status string) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordCounter(MetricDatasetLoads, 1, map[string]string{"source": source, "status": status})
}
