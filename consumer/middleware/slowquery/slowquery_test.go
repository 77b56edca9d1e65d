package slowquery

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/rowconsumer/consumer"
)

func TestSlowQuery(t *testing.T) {
	testCases := []struct {
		name      string
		threshold time.Duration
		delay     time.Duration
		wantLog   bool
	}{
		{
			name:      "slow",
			threshold: time.Millisecond,
			delay:     20 * time.Millisecond,
			wantLog:   true,
		},
		{
			name:      "fast",
			threshold: time.Minute,
			wantLog:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var logged bool
			var query string
			var duration time.Duration
			m := NewMiddlewareBuilder(tc.threshold).LogFunc(func(q string, _ []any, d time.Duration) {
				logged = true
				query = q
				duration = d
			})

			mockDB, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() {
				_ = mockDB.Close()
			}()
			mock.ExpectQuery("SELECT .*").WillDelayFor(tc.delay).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

			db := consumer.MustOpenDB(mockDB, consumer.DBWithMiddlewares(m.Build()))
			ids, err := consumer.Consume[int64](context.Background(), db, "SELECT id FROM user")
			require.NoError(t, err)
			assert.Equal(t, []int64{1}, ids)

			assert.Equal(t, tc.wantLog, logged)
			if tc.wantLog {
				assert.Equal(t, "SELECT id FROM user", query)
				assert.GreaterOrEqual(t, duration, tc.delay)
			}
		})
	}
}
