package errs

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange  = errors.New("rowconsumer: 列下标越界")
	ErrUnexpectedNull   = errors.New("rowconsumer: 非空字段读到了 NULL")
	ErrUnsupportedShape = errors.New("rowconsumer: 只支持具名字段的结构体")
	ErrNoFields         = errors.New("rowconsumer: 结构体没有可映射的字段")
	ErrDegraded         = errors.New("rowconsumer: 部分行转换失败")
	ErrJSONProjection   = errors.New("rowconsumer: JSON 投影失败")
	ErrEmptyFieldName   = errors.New("rowconsumer: 字段名不能为空")
	ErrTxUnsupported    = errors.New("rowconsumer: 当前连接不支持事务")
	ErrNilQueryer       = errors.New("rowconsumer: Queryer 不能为 nil")
)

func NewErrUnnamedField(typeName string, idx int) error {
	return fmt.Errorf("rowconsumer: 类型 %s 的第 %d 个字段没有名字", typeName, idx)
}

func NewErrUnsupportedFieldType(typeName, field, fieldType string) error {
	return fmt.Errorf("rowconsumer: 类型 %s 的字段 %s 使用了不支持的类型 %s", typeName, field, fieldType)
}

func NewErrDuplicateField(typeName, field string) error {
	return fmt.Errorf("rowconsumer: 类型 %s 的字段 %s 重复", typeName, field)
}

func NewErrIndexOutOfRange(idx, length int) error {
	return fmt.Errorf("%w: %d, 共 %d 列", ErrIndexOutOfRange, idx, length)
}

func NewErrConvert(src any, dst string, cause error) error {
	return fmt.Errorf("rowconsumer: 无法把 %T 转换成 %s: %w", src, dst, cause)
}

func NewErrFailedToRollbackTx(bizErr error, rbErr error, panicked bool) error {
	return fmt.Errorf("rowconsumer: 事务回滚失败, 业务错误: %w, 回滚错误: %s, 是否 panic: %t", bizErr, rbErr, panicked)
}
