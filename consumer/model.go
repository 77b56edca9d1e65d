package consumer

import (
	"reflect"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

const (
	tagName = "rowconsumer"
	tagSkip = "-"
)

// Model 是记录类型的元数据, Fields 的顺序就是行内列的顺序
type Model struct {
	Name   string
	Type   reflect.Type
	Fields []*ModelField
}

type ModelField struct {
	// Go 字段名
	Name string
	// 在结构体中的下标
	Index int
	// 在行中的位置
	Pos  int
	Type reflect.Type

	ext extractor
}

// parseModel 只支持结构体, 不支持指针或者其他类型
func parseModel(typ reflect.Type) (*Model, error) {
	if typ.Kind() != reflect.Struct {
		return nil, errs.ErrUnsupportedShape
	}
	name := typeName(typ)
	numField := typ.NumField()
	fields := make([]*ModelField, 0, numField)
	for i := 0; i < numField; i++ {
		fd := typ.Field(i)
		// 匿名字段没有名字, 位置绑定没办法表达它
		if fd.Anonymous {
			return nil, errs.NewErrUnnamedField(name, i)
		}
		if !fd.IsExported() || fd.Tag.Get(tagName) == tagSkip {
			continue
		}
		ext, ok := lookupExtractor(fd.Type)
		if !ok {
			return nil, errs.NewErrUnsupportedFieldType(name, fd.Name, fd.Type.String())
		}
		fields = append(fields, &ModelField{
			Name:  fd.Name,
			Index: i,
			Pos:   len(fields),
			Type:  fd.Type,
			ext:   ext,
		})
	}
	if len(fields) == 0 {
		return nil, errs.ErrNoFields
	}
	return &Model{
		Name:   name,
		Type:   typ,
		Fields: fields,
	}, nil
}

// consume 把 row 写入 val, val 必须是 m.Type 类型且可寻址
func (m *Model) consume(row *Row, val reflect.Value) []string {
	c := NewCollector(m.Name)
	for _, fd := range m.Fields {
		dst := val.Field(fd.Index)
		src, err := row.Value(fd.Pos)
		if err == nil {
			err = fd.ext.assign(src, dst)
		}
		if err != nil {
			c.fail(fd.Name, err)
			fd.ext.fallback(dst)
		}
	}
	return c.Diagnostics()
}
