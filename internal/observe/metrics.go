// Package observe provides OpenTelemetry metrics for tuner sessions.
//
// [Metrics] implements tuner.Recorder, so attaching it with
// tuner.WithRecorder is enough to count cycles, verdicts and stop reasons.
// [InitProvider] installs a global MeterProvider backed by the Prometheus
// exporter so the instruments can be scraped at /metrics.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cwbudde/algo-tuner/tuner"
)

// meterName is the instrumentation scope name used for all tuner metrics.
const meterName = "github.com/cwbudde/algo-tuner"

// Metrics holds the tuner metric instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// Cycles counts evaluated frames.
	Cycles metric.Int64Counter

	// Verdicts counts evaluated frames by attribute.String("verdict", ...)
	// and attribute.String("target", ...).
	Verdicts metric.Int64Counter

	// CycleDuration tracks frame read plus evaluation time.
	CycleDuration metric.Float64Histogram

	// Sessions counts finished sessions by attribute.String("reason", ...).
	Sessions metric.Int64Counter
}

// cycleBuckets are histogram bucket boundaries in seconds around the
// nominal 93 ms frame period.
var cycleBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.15, 0.25, 0.5, 1,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider].
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Cycles, err = m.Int64Counter("tuner.cycles",
		metric.WithDescription("Total evaluated audio frames."),
	); err != nil {
		return nil, err
	}
	if met.Verdicts, err = m.Int64Counter("tuner.verdicts",
		metric.WithDescription("Evaluated frames by tuning verdict and target."),
	); err != nil {
		return nil, err
	}
	if met.CycleDuration, err = m.Float64Histogram("tuner.cycle.duration",
		metric.WithDescription("Time to read and evaluate one audio frame."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(cycleBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Sessions, err = m.Int64Counter("tuner.sessions",
		metric.WithDescription("Finished tuning sessions by stop reason."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordCycle records one evaluated frame.
func (m *Metrics) RecordCycle(ctx context.Context, ev tuner.Event) {
	m.Cycles.Add(ctx, 1)
	m.Verdicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("verdict", ev.Verdict.String()),
		attribute.String("target", ev.Target.String()),
	))
	m.CycleDuration.Record(ctx, ev.Elapsed.Seconds())
}

// RecordStop records a finished session.
func (m *Metrics) RecordStop(ctx context.Context, out tuner.Outcome) {
	m.Sessions.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", out.Reason.String())))
}
