package consumer

import (
	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

// 通过桥接的方式将内部错误导出外部
var (
	ErrIndexOutOfRange  = errs.ErrIndexOutOfRange
	ErrUnexpectedNull   = errs.ErrUnexpectedNull
	ErrUnsupportedShape = errs.ErrUnsupportedShape
	ErrNoFields         = errs.ErrNoFields
	ErrDegraded         = errs.ErrDegraded
	ErrJSONProjection   = errs.ErrJSONProjection
	ErrTxUnsupported    = errs.ErrTxUnsupported
)

// ConsumeError 是 Consume 唯一会返回的错误类型
// 它不携带驱动的错误细节, 调用方只能知道是哪一类失败
type ConsumeError int

const (
	// ConversionError 查询成功, 但至少有一行数据转换失败
	ConversionError ConsumeError = iota + 1
	// DatabaseConnectionError 查询本身没有执行成功
	DatabaseConnectionError
)

func (e ConsumeError) Error() string {
	switch e {
	case ConversionError:
		return "rowconsumer: 数据转换失败"
	case DatabaseConnectionError:
		return "rowconsumer: 查询执行失败"
	default:
		return "rowconsumer: 未知错误"
	}
}
