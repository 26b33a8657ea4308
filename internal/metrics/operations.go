package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

// OperationMetrics records the outcome and latency of credential store operations.
type OperationMetrics interface {
	// Record counts one call of operation and observes its duration. The status label is
	// derived from err: "success", "not_found", "invalid_input", "unauthorized",
	// "corrupted" or "error".
	Record(ctx context.Context, operation string, duration time.Duration, err error)
}

type operationMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewOperationMetrics creates OperationMetrics on meterProvider. Metric names are
// prefixed with namespace.
func NewOperationMetrics(meterProvider metric.MeterProvider, namespace string) (OperationMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of credential store operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of credential store operations in seconds, prompts included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &operationMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

func (o *operationMetrics) Record(ctx context.Context, operation string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", Status(err)),
	)
	o.operationCounter.Add(ctx, 1, attrs)
	o.durationHisto.Record(ctx, duration.Seconds(), attrs)
}

// Status maps an operation error to a low-cardinality label value.
func Status(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return "invalid_input"
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return "unauthorized"
	case apperrors.Is(err, apperrors.ErrCorrupted):
		return "corrupted"
	default:
		return "error"
	}
}

// NoOpOperationMetrics discards everything. It is used when metrics are disabled.
type NoOpOperationMetrics struct{}

// NewNoOpOperationMetrics creates a no-op OperationMetrics implementation.
func NewNoOpOperationMetrics() OperationMetrics {
	return &NoOpOperationMetrics{}
}

// Record does nothing.
func (n *NoOpOperationMetrics) Record(ctx context.Context, operation string, duration time.Duration, err error) {
}
