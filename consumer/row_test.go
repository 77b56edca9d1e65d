package consumer

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

func TestRow_Value(t *testing.T) {
	row := NewRow([]string{"id", "name"}, int64(1), "Tom")
	assert.Equal(t, 2, row.Len())
	assert.Equal(t, []string{"id", "name"}, row.Columns())

	val, err := row.Value(1)
	require.NoError(t, err)
	assert.Equal(t, "Tom", val)

	for _, idx := range []int{-1, 2, 100} {
		_, err = row.Value(idx)
		assert.True(t, errors.Is(err, errs.ErrIndexOutOfRange))
	}

	empty := NewRow(nil)
	_, err = empty.Value(0)
	assert.True(t, errors.Is(err, errs.ErrIndexOutOfRange))
}

func Test_Get(t *testing.T) {
	now := time.Date(2023, 5, 1, 8, 0, 0, 0, time.UTC)
	row := NewRow(nil,
		int64(12),       // 0
		"Tom",           // 1
		[]byte("bytes"), // 2
		nil,             // 3
		int64(300),      // 4
		now,             // 5
		"abc",           // 6
		int64(1),        // 7
	)

	v0, err := Get[int64](row, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v0)

	// 数字可以读成字符串, 和 database/sql 的规则一致
	s0, err := Get[string](row, 0)
	require.NoError(t, err)
	assert.Equal(t, "12", s0)

	v1, err := Get[string](row, 1)
	require.NoError(t, err)
	assert.Equal(t, "Tom", v1)

	v2, err := Get[[]byte](row, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), v2)

	s2, err := Get[string](row, 2)
	require.NoError(t, err)
	assert.Equal(t, "bytes", s2)

	v5, err := Get[time.Time](row, 5)
	require.NoError(t, err)
	assert.Equal(t, now, v5)

	v7, err := Get[bool](row, 7)
	require.NoError(t, err)
	assert.True(t, v7)

	_, err = Get[int64](row, 8)
	assert.True(t, errors.Is(err, errs.ErrIndexOutOfRange))
	_, err = Get[int8](row, 4)
	assert.Error(t, err)
	_, err = Get[int64](row, 6)
	assert.Error(t, err)
	_, err = Get[bool](row, 6)
	assert.Error(t, err)
}

func Test_Get_Null(t *testing.T) {
	row := NewRow(nil, nil)

	testCases := []struct {
		name    string
		get     func() (any, error)
		want    any
		wantErr error
	}{
		{
			name:    "int64",
			get:     func() (any, error) { return Get[int64](row, 0) },
			want:    int64(0),
			wantErr: errs.ErrUnexpectedNull,
		},
		{
			name:    "string",
			get:     func() (any, error) { return Get[string](row, 0) },
			want:    "",
			wantErr: errs.ErrUnexpectedNull,
		},
		{
			// []byte 也是非空类型, NULL 只能用指针表达
			name:    "bytes",
			get:     func() (any, error) { return Get[[]byte](row, 0) },
			want:    []byte(nil),
			wantErr: errs.ErrUnexpectedNull,
		},
		{
			name:    "uuid",
			get:     func() (any, error) { return Get[uuid.UUID](row, 0) },
			want:    uuid.Nil,
			wantErr: errs.ErrUnexpectedNull,
		},
		{
			name:    "ip",
			get:     func() (any, error) { return Get[net.IP](row, 0) },
			want:    net.IP(nil),
			wantErr: errs.ErrUnexpectedNull,
		},
		{
			name: "string pointer",
			get:  func() (any, error) { return Get[*string](row, 0) },
			want: (*string)(nil),
		},
		{
			name: "ip pointer",
			get:  func() (any, error) { return Get[*net.IP](row, 0) },
			want: (*net.IP)(nil),
		},
		{
			name: "null string",
			get:  func() (any, error) { return Get[sql.NullString](row, 0) },
			want: sql.NullString{},
		},
		{
			name: "null uuid",
			get:  func() (any, error) { return Get[uuid.NullUUID](row, 0) },
			want: uuid.NullUUID{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.get()
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_Get_Special(t *testing.T) {
	token := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	ip, err := Get[net.IP](NewRow(nil, "10.0.0.1/32"), 0)
	require.NoError(t, err)
	assert.True(t, net.ParseIP("10.0.0.1").Equal(ip))

	ip, err = Get[net.IP](NewRow(nil, []byte("::1")), 0)
	require.NoError(t, err)
	assert.True(t, net.IPv6loopback.Equal(ip))

	_, err = Get[net.IP](NewRow(nil, "not an ip"), 0)
	assert.Error(t, err)
	_, err = Get[net.IP](NewRow(nil, int64(1)), 0)
	assert.Error(t, err)

	ipPtr, err := Get[*net.IP](NewRow(nil, "192.168.1.1"), 0)
	require.NoError(t, err)
	require.NotNil(t, ipPtr)
	assert.True(t, net.ParseIP("192.168.1.1").Equal(*ipPtr))

	mac, err := Get[net.HardwareAddr](NewRow(nil, "01:23:45:67:89:ab"), 0)
	require.NoError(t, err)
	assert.Equal(t, "01:23:45:67:89:ab", mac.String())
	_, err = Get[net.HardwareAddr](NewRow(nil, "01:23"), 0)
	assert.Error(t, err)

	raw, err := Get[json.RawMessage](NewRow(nil, []byte(`{"a":1}`)), 0)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"a":1}`), raw)
	_, err = Get[json.RawMessage](NewRow(nil, "{"), 0)
	assert.True(t, errors.Is(err, errInvalidJSON))

	tk, err := Get[uuid.UUID](NewRow(nil, token.String()), 0)
	require.NoError(t, err)
	assert.Equal(t, token, tk)

	tk, err = Get[uuid.UUID](NewRow(nil, token[:]), 0)
	require.NoError(t, err)
	assert.Equal(t, token, tk)

	_, err = Get[uuid.UUID](NewRow(nil, "xyz"), 0)
	assert.Error(t, err)

	ns, err := Get[sql.NullString](NewRow(nil, "a"), 0)
	require.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "a", Valid: true}, ns)
}

func TestScanAll(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		_ = mockDB.Close()
	}()

	mockRows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "Tom").
		AddRow(int64(2), nil)
	mock.ExpectQuery("SELECT .*").WillReturnRows(mockRows)

	rows, err := mockDB.Query("SELECT id, name FROM user")
	require.NoError(t, err)
	res, err := ScanAll(rows)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []string{"id", "name"}, res[1].Columns())
	assert.Equal(t, []any{int64(1), "Tom"}, res[0].values)
	assert.Equal(t, []any{int64(2), nil}, res[1].values)

	mockRows = sqlmock.NewRows([]string{"id"}).
		AddRow(int64(1)).
		RowError(0, errors.New("mock row error"))
	mock.ExpectQuery("SELECT .*").WillReturnRows(mockRows)
	rows, err = mockDB.Query("SELECT id FROM user")
	require.NoError(t, err)
	_, err = ScanAll(rows)
	assert.EqualError(t, err, "mock row error")

	require.NoError(t, mock.ExpectationsWereMet())
}
