package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/library/shared/shell/observable"
	. "github.com/AntonStoeckl/library-lending/testutil/librarystore/helper" //nolint:revive
	"github.com/AntonStoeckl/library-lending/testutil/observability/testdoubles"
)

type mockQuery struct{}

func (mockQuery) QueryType() string {
	return "MockQuery"
}

type mockQueryHandler struct {
	result []string
	err    error
}

func (h mockQueryHandler) Handle(_ context.Context, _ mockQuery) ([]string, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Handle_Success(t *testing.T) {
	// setup
	metrics := NewMetricsCollectorSpy(true)
	tracing := NewTracingCollectorSpy(true)
	contextualLogger := testdoubles.NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, []string](
		mockQueryHandler{result: []string{"a", "b"}},
		observable.WithQueryMetrics[mockQuery, []string](metrics),
		observable.WithQueryTracing[mockQuery, []string](tracing),
		observable.WithQueryContextualLogging[mockQuery, []string](contextualLogger),
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), mockQuery{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "MockQuery").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, tracing.HasSpanRecordForName(shell.SpanNameQueryHandle).WithStatus(shell.StatusSuccess).Assert())
	assert.True(t, contextualLogger.HasLog("info", shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Handle_EmptyListingIsRejected(t *testing.T) {
	// setup
	metrics := NewMetricsCollectorSpy(true)
	contextualLogger := testdoubles.NewContextualLoggerSpy(true)

	wrapper, err := observable.NewQueryWrapper[mockQuery, []string](
		mockQueryHandler{err: core.NotFoundFailure("no loans found")},
		observable.WithQueryMetrics[mockQuery, []string](metrics),
		observable.WithQueryContextualLogging[mockQuery, []string](contextualLogger),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), mockQuery{})

	// assert
	assert.Equal(t, core.KindNotFound, core.KindOf(err))
	assert.True(t, metrics.HasDurationRecordForMetric(shell.QueryHandlerDurationMetric).
		WithStatus(shell.StatusRejected).
		Assert())
	assert.True(t, contextualLogger.HasLog("warn", shell.LogMsgQueryRejected))
}
