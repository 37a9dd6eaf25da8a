package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	Port         string
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "nba-sim-service"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

type otelInstruments struct {
	ctx              context.Context
	meter            metric.Meter
	requests         metric.Int64Counter
	requestLatencyMs metric.Float64Histogram
	possessions      metric.Int64Counter
	simMinutes       metric.Int64Counter
	gamesStarted     metric.Int64Counter
	gamesCompleted   metric.Int64Counter
	tickCycles       metric.Int64Counter
	tickErrors       metric.Int64Counter
	tickLatencyMs    metric.Float64Histogram
	snapshotErrors   metric.Int64Counter
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("nba-sim-service")
	ctx := context.Background()

	requests, err := meter.Int64Counter("http_requests_total")
	if err != nil {
		return nil, err
	}
	requestLatency, err := meter.Float64Histogram("http_request_duration_ms")
	if err != nil {
		return nil, err
	}
	possessions, err := meter.Int64Counter("sim_possessions_total")
	if err != nil {
		return nil, err
	}
	simMinutes, err := meter.Int64Counter("sim_minutes_total")
	if err != nil {
		return nil, err
	}
	gamesStarted, err := meter.Int64Counter("sim_games_started_total")
	if err != nil {
		return nil, err
	}
	gamesCompleted, err := meter.Int64Counter("sim_games_completed_total")
	if err != nil {
		return nil, err
	}
	tickCycles, err := meter.Int64Counter("tracker_tick_cycles_total")
	if err != nil {
		return nil, err
	}
	tickErrors, err := meter.Int64Counter("tracker_tick_errors_total")
	if err != nil {
		return nil, err
	}
	tickLatency, err := meter.Float64Histogram("tracker_tick_duration_ms")
	if err != nil {
		return nil, err
	}
	snapshotErrors, err := meter.Int64Counter("tracker_snapshot_errors_total")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		ctx:              ctx,
		meter:            meter,
		requests:         requests,
		requestLatencyMs: requestLatency,
		possessions:      possessions,
		simMinutes:       simMinutes,
		gamesStarted:     gamesStarted,
		gamesCompleted:   gamesCompleted,
		tickCycles:       tickCycles,
		tickErrors:       tickErrors,
		tickLatencyMs:    tickLatency,
		snapshotErrors:   snapshotErrors,
	}, nil
}

func (o *otelInstruments) recordCounter(counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if o == nil || counter == nil {
		return
	}
	counter.Add(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(hist metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if o == nil || hist == nil {
		return
	}
	hist.Record(o.ctx, value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	}
	o.recordCounter(o.requests, 1, attrs...)
	o.recordHistogram(o.requestLatencyMs, float64(duration.Milliseconds()), attrs...)
}

func (o *otelInstruments) recordPossession(mode string) {
	o.recordCounter(o.possessions, 1, attribute.String(AttrMode, mode))
}

func (o *otelInstruments) recordSimMinute() {
	o.recordCounter(o.simMinutes, 1)
}

func (o *otelInstruments) recordGameStarted(mode string) {
	o.recordCounter(o.gamesStarted, 1, attribute.String(AttrMode, mode))
}

func (o *otelInstruments) recordGameCompleted(mode string) {
	o.recordCounter(o.gamesCompleted, 1, attribute.String(AttrMode, mode))
}

func (o *otelInstruments) recordTickCycle(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		o.recordCounter(o.tickErrors, 1)
	}
	o.recordCounter(o.tickCycles, 1, attribute.String(AttrResult, result))
	o.recordHistogram(o.tickLatencyMs, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordSnapshotError() {
	o.recordCounter(o.snapshotErrors, 1)
}
