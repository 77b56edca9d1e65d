package consumer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

type order struct {
	ID     int64
	Buyer  string
	Amount float64
	Note   *string
}

func orderSchema() []FieldBinding[order] {
	return []FieldBinding[order]{
		Column("ID", func(o *order) *int64 { return &o.ID }),
		Column("Buyer", func(o *order) *string { return &o.Buyer }),
		Column("Amount", func(o *order) *float64 { return &o.Amount }),
		Column("Note", func(o *order) **string { return &o.Note }),
	}
}

func TestNewSchema(t *testing.T) {
	testCases := []struct {
		name    string
		fields  []FieldBinding[order]
		wantErr error
	}{
		{
			name:   "ok",
			fields: orderSchema(),
		},
		{
			name:    "no fields",
			wantErr: errs.ErrNoFields,
		},
		{
			name: "empty name",
			fields: []FieldBinding[order]{
				Column("", func(o *order) *int64 { return &o.ID }),
			},
			wantErr: errs.ErrEmptyFieldName,
		},
		{
			name: "duplicate",
			fields: []FieldBinding[order]{
				Column("ID", func(o *order) *int64 { return &o.ID }),
				Column("ID", func(o *order) *string { return &o.Buyer }),
			},
			wantErr: errs.NewErrDuplicateField("order", "ID"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewSchema[order]("order", tc.fields...)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, "order", s.TypeName())
			assert.Equal(t, []string{"ID", "Buyer", "Amount", "Note"}, s.Fields())
		})
	}

	assert.Panics(t, func() {
		MustNewSchema[order]("order")
	})
}

func TestSchema_ConsumeRow(t *testing.T) {
	s := MustNewSchema[order]("order", orderSchema()...)

	o, diags := s.ConsumeRow(NewRow(nil, int64(1), "Tom", 9.5, "fast"))
	assert.Empty(t, diags)
	require.NotNil(t, o.Note)
	assert.Equal(t, order{ID: 1, Buyer: "Tom", Amount: 9.5, Note: o.Note}, o)
	assert.Equal(t, "fast", *o.Note)

	// 所有字段都会尝试, 诊断按字段顺序排列
	o, diags = s.ConsumeRow(NewRow(nil, "x", nil, 9.5))
	require.Len(t, diags, 3)
	assert.Contains(t, diags[0], `"ID"`)
	assert.Contains(t, diags[1], `"Buyer"`)
	assert.Contains(t, diags[2], `"Note"`)
	assert.Equal(t, 9.5, o.Amount)
	assert.Nil(t, o.Note)
}

func TestRegisterSchema(t *testing.T) {
	r := NewRegistry()
	RegisterSchema(r, MustNewSchema[order]("Order", orderSchema()...))

	o, err := fromRow[order](r, NewRow(nil, int64(7), "Jerry", 1.0, nil))
	require.NoError(t, err)
	assert.Equal(t, int64(7), o.ID)
	// 走 Schema, 不会解析反射模型
	assert.Equal(t, 0, r.Len())

	_, err = fromRow[order](r, NewRow(nil, int64(7)))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Len(t, rowErr.Diagnostics, 3)
	// 错误和诊断信息都使用 Schema 的名字, 而不是 Go 类型名
	assert.Equal(t, "Order", rowErr.Type)
	for _, diag := range rowErr.Diagnostics {
		assert.Contains(t, diag, `"Order"`)
	}
}
