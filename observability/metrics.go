package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

var globalMeterProvider *sdkmetric.MeterProvider

// InitMetrics wires an OpenTelemetry MeterProvider to a Prometheus
// exporter and installs it as the global provider. A caller that wants
// /metrics scraping calls this once at process startup and passes the
// engine name as serviceName.
func InitMetrics(serviceName string) (*sdkmetric.MeterProvider, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)
	globalMeterProvider = provider
	return provider, nil
}

// Metrics is the set of BO-loop counters and histograms a caller can
// attach to Options.Metrics: round count, per-round duration,
// inference duration, and isolated optimizer/chain failures.
type Metrics struct {
	rounds            metric.Int64Counter
	roundDuration     metric.Float64Histogram
	inferenceDuration metric.Float64Histogram
	optimizerFailures metric.Int64Counter
}

// NewMetrics builds a Metrics instrument set from the current global
// meter provider (installed by InitMetrics, or the OpenTelemetry
// no-op provider if metrics were never initialized).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("boptimize.bo")

	rounds, err := meter.Int64Counter(
		"boptimize.rounds",
		metric.WithDescription("Completed BO loop iterations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rounds counter: %w", err)
	}
	roundDuration, err := meter.Float64Histogram(
		"boptimize.round.duration",
		metric.WithDescription("Wall time of one fit-then-maximize round"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create round duration histogram: %w", err)
	}
	inferenceDuration, err := meter.Float64Histogram(
		"boptimize.inference.duration",
		metric.WithDescription("Wall time of one parameter-inference pass"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inference duration histogram: %w", err)
	}
	optimizerFailures, err := meter.Int64Counter(
		"boptimize.optimizer.failures",
		metric.WithDescription("Isolated per-start or per-chain optimizer failures"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create optimizer failures counter: %w", err)
	}

	return &Metrics{
		rounds:            rounds,
		roundDuration:     roundDuration,
		inferenceDuration: inferenceDuration,
		optimizerFailures: optimizerFailures,
	}, nil
}

// RecordRound increments the round counter and records its duration.
func (m *Metrics) RecordRound(ctx context.Context, durationMs float64) {
	if m == nil {
		return
	}
	m.rounds.Add(ctx, 1)
	m.roundDuration.Record(ctx, durationMs)
}

// RecordInference records one inference pass's wall time, tagged by mode
// ("mle" or "bi").
func (m *Metrics) RecordInference(ctx context.Context, mode string, durationMs float64) {
	if m == nil {
		return
	}
	m.inferenceDuration.Record(ctx, durationMs, metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordOptimizerFailures adds n isolated replicate failures to the counter.
func (m *Metrics) RecordOptimizerFailures(ctx context.Context, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.optimizerFailures.Add(ctx, n)
}
