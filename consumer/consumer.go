package consumer

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

// RowConsumer 由记录类型实现, 一般由 consumergen 生成
// ConsumeRow 按声明顺序把 row 第 i 列赋给第 i 个字段
// 转换失败的字段使用默认值, 返回值是按字段顺序排列的诊断信息, 全部成功时为空
type RowConsumer interface {
	ConsumeRow(row *Row) []string
}

// RowError 表示一行数据中有字段转换失败
// 即使返回了这个错误, 记录本身也是完整可用的, 失败的字段是默认值
type RowError struct {
	Type        string
	Diagnostics []string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("rowconsumer: 类型 %s 有 %d 个字段转换失败: %s",
		e.Type, len(e.Diagnostics), strings.Join(e.Diagnostics, "; "))
}

// Collector 收集一行数据的诊断信息
type Collector struct {
	typeName string
	diags    []string
}

func NewCollector(typeName string) *Collector {
	return &Collector{typeName: typeName}
}

func (c *Collector) Diagnostics() []string {
	return c.diags
}

func (c *Collector) fail(field string, err error) {
	c.diags = append(c.diags, fmt.Sprintf("rowconsumer: 字段 %q 在类型 %q 上转换失败: %v", field, c.typeName, err))
}

// Field 取出 row 第 idx 列作为字段 name 的值
// 失败时记录诊断信息并返回 T 的默认值, 不会中断后续字段的转换
func Field[T any](c *Collector, row *Row, idx int, name string) T {
	v, err := Get[T](row, idx)
	if err != nil {
		c.fail(name, err)
		return defaultValue[T]()
	}
	return v
}

func scalarDiagnostic(typeName string, err error) string {
	return fmt.Sprintf("rowconsumer: 类型 %q 转换失败: %v", typeName, err)
}

// FromRow 把一行数据转换成 T
// 有字段转换失败时返回 *RowError, 此时 T 中失败的字段为默认值
func FromRow[T any](row *Row) (T, error) {
	return fromRow[T](DefaultRegistry(), row)
}

// FromRows 按顺序转换多行数据, 只要有一行存在转换失败就返回 ErrDegraded
// 返回 ErrDegraded 时依然会返回全部数据, 但不再区分是哪一行哪个字段失败
func FromRows[T any](rows []*Row) ([]T, error) {
	return fromRows[T](DefaultRegistry(), rows, nil)
}

func fromRow[T any](r *Registry, row *Row) (T, error) {
	fn, name, err := resolve[T](r)
	if err != nil {
		var zero T
		return zero, err
	}
	v, diags := fn(row)
	if len(diags) > 0 {
		return v, &RowError{
			Type:        name,
			Diagnostics: diags,
		}
	}
	return v, nil
}

func fromRows[T any](r *Registry, rows []*Row, onDegraded func(idx int, diags []string)) ([]T, error) {
	fn, _, err := resolve[T](r)
	if err != nil {
		return nil, err
	}
	degraded := false
	data := make([]T, 0, len(rows))
	for i, row := range rows {
		v, diags := fn(row)
		if len(diags) > 0 {
			degraded = true
			if onDegraded != nil {
				onDegraded(i, diags)
			}
		}
		data = append(data, v)
	}
	if degraded {
		return data, errs.ErrDegraded
	}
	return data, nil
}

type rowFunc[T any] func(row *Row) (T, []string)

// resolve 决定 T 的转换方式, 同时返回诊断信息里使用的类型名. 优先级:
// 1. T 实现了 RowConsumer
// 2. 注册过 Schema
// 3. 封闭类型表中的标量, 读第 0 列
// 4. 反射解析结构体
func resolve[T any](r *Registry) (rowFunc[T], string, error) {
	var zero T
	if _, ok := any(&zero).(RowConsumer); ok {
		return func(row *Row) (T, []string) {
			var v T
			diags := any(&v).(RowConsumer).ConsumeRow(row)
			return v, diags
		}, modelName[T](), nil
	}

	typ := reflect.TypeOf(&zero).Elem()
	if s, ok := r.schema(typ); ok {
		schema := s.(*Schema[T])
		return schema.ConsumeRow, schema.TypeName(), nil
	}

	if isScalar(typ) {
		name := typeName(typ)
		return func(row *Row) (T, []string) {
			v, err := Get[T](row, 0)
			if err != nil {
				return defaultValue[T](), []string{scalarDiagnostic(name, err)}
			}
			return v, nil
		}, name, nil
	}

	m, err := r.Get(typ)
	if err != nil {
		return nil, "", err
	}
	return func(row *Row) (T, []string) {
		var v T
		diags := m.consume(row, reflect.ValueOf(&v).Elem())
		return v, diags
	}, m.Name, nil
}

func isScalar(typ reflect.Type) bool {
	if _, ok := extractors[typ]; ok {
		return true
	}
	if implementsScanner(typ) {
		return true
	}
	switch typ.Kind() {
	case reflect.Struct:
		return false
	case reflect.Pointer:
		return isScalar(typ.Elem())
	}
	_, ok := kindExtractor(typ)
	return ok
}

func modelName[T any]() string {
	return typeName(reflect.TypeOf((*T)(nil)).Elem())
}
