package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-lending/librarystore/oteladapters"
)

func newMeteredCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %q was not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration_RecordsSecondsHistogram(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()

	// act
	collector.RecordDuration("librarystore_operation_duration_seconds", 250*time.Millisecond, map[string]string{
		"operation": "books",
		"status":    "success",
	})

	// assert
	m := findMetric(t, collect(t, reader), "librarystore_operation_duration_seconds")
	assert.Equal(t, "s", m.Unit)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.25, histogram.DataPoints[0].Sum, 0.001)

	expected := attribute.NewSet(attribute.String("operation", "books"), attribute.String("status", "success"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter_Accumulates(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()
	labels := map[string]string{"operation": "change_loan_status", "conflict_type": "guarded_update"}

	// act
	collector.IncrementCounter("librarystore_concurrency_conflicts_total", labels)
	collector.IncrementCounterContext(context.Background(), "librarystore_concurrency_conflicts_total", labels)

	// assert
	m := findMetric(t, collect(t, reader), "librarystore_concurrency_conflicts_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()
	labels := map[string]string{"operation": "loans"}

	// act
	collector.RecordValue("librarystore_rows_processed", 3, labels)
	collector.RecordValueContext(context.Background(), "librarystore_rows_processed", 12, labels)

	// assert
	m := findMetric(t, collect(t, reader), "librarystore_rows_processed")
	gauge, ok := m.Data.(metricdata.Gauge[float64])
	require.True(t, ok, "expected a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 12.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_SeparatesDataPointsByLabels(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()

	// act
	collector.IncrementCounter("librarystore_database_errors_total", map[string]string{"operation": "books"})
	collector.IncrementCounter("librarystore_database_errors_total", map[string]string{"operation": "loans"})

	// assert
	m := findMetric(t, collect(t, reader), "librarystore_database_errors_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sum.DataPoints, 2)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// setup
	collector, reader := newMeteredCollector()
	const workers = 16

	// act
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("librarystore_requests_total", nil)
		}()
	}
	wg.Wait()

	// assert
	m := findMetric(t, collect(t, reader), "librarystore_requests_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(workers), sum.DataPoints[0].Value)
}
