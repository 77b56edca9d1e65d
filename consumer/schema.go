package consumer

import (
	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

// FieldBinding 描述记录类型的一个字段: 字段名和取字段地址的方法
type FieldBinding[T any] struct {
	name    string
	consume func(c *Collector, row *Row, pos int, rec *T)
}

// Column 绑定一个字段, ptr 返回 rec 中这个字段的地址
//
//	consumer.Column("ID", func(u *User) *int64 { return &u.ID })
func Column[T, F any](name string, ptr func(rec *T) *F) FieldBinding[T] {
	return FieldBinding[T]{
		name: name,
		consume: func(c *Collector, row *Row, pos int, rec *T) {
			*ptr(rec) = Field[F](c, row, pos, name)
		},
	}
}

// Schema 是不依赖代码生成和反射的记录描述
// fields 的顺序就是行内列的顺序
type Schema[T any] struct {
	typeName string
	fields   []FieldBinding[T]
}

func NewSchema[T any](typeName string, fields ...FieldBinding[T]) (*Schema[T], error) {
	if len(fields) == 0 {
		return nil, errs.ErrNoFields
	}
	seen := make(map[string]struct{}, len(fields))
	for _, fd := range fields {
		if fd.name == "" {
			return nil, errs.ErrEmptyFieldName
		}
		if _, ok := seen[fd.name]; ok {
			return nil, errs.NewErrDuplicateField(typeName, fd.name)
		}
		seen[fd.name] = struct{}{}
	}
	return &Schema[T]{
		typeName: typeName,
		fields:   fields,
	}, nil
}

// MustNewSchema 和 NewSchema 一样, 出错时 panic, 适合在包初始化时使用
func MustNewSchema[T any](typeName string, fields ...FieldBinding[T]) *Schema[T] {
	s, err := NewSchema[T](typeName, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema[T]) TypeName() string {
	return s.typeName
}

// Fields 按顺序返回字段名
func (s *Schema[T]) Fields() []string {
	names := make([]string, 0, len(s.fields))
	for _, fd := range s.fields {
		names = append(names, fd.name)
	}
	return names
}

// ConsumeRow 按字段顺序转换一行, 所有字段都会尝试转换
func (s *Schema[T]) ConsumeRow(row *Row) (T, []string) {
	var rec T
	c := NewCollector(s.typeName)
	for i, fd := range s.fields {
		fd.consume(c, row, i, &rec)
	}
	return rec, c.Diagnostics()
}
