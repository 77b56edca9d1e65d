package consumer

import (
	"database/sql"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

// Row 是查询结果中的一行, 按列的位置保存驱动返回的原始值
// Row 只在一次转换调用中使用, 转换结束后不会被保留
type Row struct {
	columns []string
	values  []any
}

// NewRow 用已有的值构造一行, columns 可以为 nil
func NewRow(columns []string, values ...any) *Row {
	return &Row{
		columns: columns,
		values:  values,
	}
}

// ScanRow 读取 rows 当前所在的行, 调用方需要先调用 rows.Next()
func ScanRow(rows *sql.Rows) (*Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		// 扫描到 *any 时 database/sql 会复制 []byte, 所以 rows 关闭后数据依然有效
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	return &Row{
		columns: columns,
		values:  values,
	}, nil
}

// ScanAll 读完并关闭 rows
func ScanAll(rows *sql.Rows) ([]*Row, error) {
	defer func() {
		_ = rows.Close()
	}()
	var res []*Row
	for rows.Next() {
		row, err := ScanRow(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (r *Row) Len() int {
	return len(r.values)
}

func (r *Row) Columns() []string {
	return r.columns
}

// Value 返回 idx 位置上的原始值
func (r *Row) Value(idx int) (any, error) {
	if idx < 0 || idx >= len(r.values) {
		return nil, errs.NewErrIndexOutOfRange(idx, len(r.values))
	}
	return r.values[idx], nil
}

// Get 把 idx 位置上的值按 T 类型取出
// 下标越界, 非空类型读到 NULL, 以及驱动值无法赋给 T 时都会返回错误
func Get[T any](row *Row, idx int) (T, error) {
	var zero T
	src, err := row.Value(idx)
	if err != nil {
		return zero, err
	}
	return convert[T](src)
}
