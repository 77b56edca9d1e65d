package prometheus

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/rowconsumer/consumer"
)

func TestOutcome(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{name: "ok", want: OutcomeOK},
		{name: "conversion", err: consumer.ConversionError, want: OutcomeConversionError},
		{name: "degraded", err: consumer.ErrDegraded, want: OutcomeConversionError},
		{name: "connection", err: consumer.DatabaseConnectionError, want: OutcomeDatabaseConnectionError},
		{name: "driver", err: errors.New("driver error"), want: OutcomeDatabaseConnectionError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Outcome(tc.err))
		})
	}
}

func TestMiddlewareBuilder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MiddlewareBuilder{
		Namespace:  "startdusk",
		Subsystem:  "rowconsumer",
		Name:       "query",
		Help:       "查询耗时",
		Registerer: reg,
	}

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = mockDB.Close()
	}()
	db := consumer.MustOpenDB(mockDB, consumer.DBWithMiddlewares(m.Build()))

	mock.ExpectQuery("SELECT .*").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	_, err = consumer.Consume[int64](context.Background(), db, "SELECT id FROM user")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .*").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("x"))
	_, err = consumer.Consume[int64](context.Background(), db, "SELECT id FROM user")
	require.Error(t, err)

	mock.ExpectQuery("SELECT .*").WillReturnError(errors.New("bad connection"))
	_, err = consumer.ConsumeRows[int64](context.Background(), db, "SELECT id FROM user")
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	summary, ok := byName["startdusk_rowconsumer_query"]
	require.True(t, ok)
	var samples uint64
	for _, metric := range summary.GetMetric() {
		samples += metric.GetSummary().GetSampleCount()
	}
	assert.Equal(t, uint64(3), samples)

	outcomes, ok := byName["startdusk_rowconsumer_query_outcomes_total"]
	require.True(t, ok)
	got := make(map[string]float64)
	for _, metric := range outcomes.GetMetric() {
		labels := make(map[string]string)
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, "int64", labels["model"])
		got[labels["type"]+"/"+labels["outcome"]] += metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"CONSUME/ok":                             1,
		"CONSUME/conversion_error":               1,
		"CONSUME_ROWS/database_connection_error": 1,
	}, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}
