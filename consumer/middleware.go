package consumer

import (
	"context"
)

const (
	QueryTypeConsume     = "CONSUME"
	QueryTypeConsumeRows = "CONSUME_ROWS"
)

type QueryContext struct {
	// Type 声明调用类型 即 CONSUME 和 CONSUME_ROWS
	Type string

	Query string
	Args  []any

	// Model 是目标记录类型的名字
	Model string
}

type Middleware func(next Handler) Handler

type Handler func(ctx context.Context, qc *QueryContext) *QueryResult

type QueryResult struct {
	// Result 是转换后的切片 []T
	// Consume 失败时为 nil, ConsumeRows 部分失败时依然有数据
	Result any
	Err    error
}
