package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/startdusk/rowconsumer/consumer/internal/errs"
)

// jsonNull 是 ConsumeJSON 失败时返回的占位文本
const jsonNull = "null"

// Consume 执行查询并把结果转换成 []T
// 查询失败返回 DatabaseConnectionError, 任意一行转换失败返回 ConversionError
// 两种情况都不返回数据, 需要部分数据的调用方使用 ConsumeRows
func Consume[T any](ctx context.Context, sess Session, query string, args ...any) ([]T, error) {
	c := sess.getCore()
	res := run(ctx, c, &QueryContext{
		Type:  QueryTypeConsume,
		Query: query,
		Args:  args,
		Model: modelName[T](),
	}, func(ctx context.Context, qc *QueryContext) *QueryResult {
		return consumeHandler[T](ctx, sess, c, qc)
	})
	if res.Err != nil {
		var ce ConsumeError
		if errors.As(res.Err, &ce) {
			return nil, ce
		}
		// 中间件直接返回的错误, 都发生在转换之前
		return nil, DatabaseConnectionError
	}
	data, _ := res.Result.([]T)
	return data, nil
}

func consumeHandler[T any](ctx context.Context, sess Session, c core, qc *QueryContext) *QueryResult {
	rows, err := queryRows(ctx, sess, c, qc)
	if err != nil {
		return &QueryResult{Err: DatabaseConnectionError}
	}
	data, err := fromRows[T](c.r, rows, degradedLogger(c, qc))
	if err != nil {
		c.logger.Debug("rowconsumer: 丢弃转换失败的结果",
			zap.String("model", qc.Model), zap.Int("rows", len(rows)), zap.Error(err))
		return &QueryResult{Err: ConversionError}
	}
	return &QueryResult{Result: data}
}

// ConsumeRows 执行查询并尽量转换所有数据
// 有行转换失败时返回全部数据和 ErrDegraded, 查询失败时返回驱动的原始错误
func ConsumeRows[T any](ctx context.Context, sess Session, query string, args ...any) ([]T, error) {
	c := sess.getCore()
	res := run(ctx, c, &QueryContext{
		Type:  QueryTypeConsumeRows,
		Query: query,
		Args:  args,
		Model: modelName[T](),
	}, func(ctx context.Context, qc *QueryContext) *QueryResult {
		rows, err := queryRows(ctx, sess, c, qc)
		if err != nil {
			return &QueryResult{Err: err}
		}
		data, err := fromRows[T](c.r, rows, degradedLogger(c, qc))
		return &QueryResult{Result: data, Err: err}
	})
	data, _ := res.Result.([]T)
	return data, res.Err
}

// ConsumeJSON 在 Consume 的基础上把结果序列化成 JSON 数组
// 查询失败和序列化失败不做区分, 都返回 "null" 和 ErrJSONProjection
func ConsumeJSON[T any](ctx context.Context, sess Session, query string, args ...any) (string, error) {
	data, err := Consume[T](ctx, sess, query, args...)
	if err != nil {
		return jsonNull, errs.ErrJSONProjection
	}
	bs, err := json.Marshal(data)
	if err != nil {
		return jsonNull, errs.ErrJSONProjection
	}
	return string(bs), nil
}

func queryRows(ctx context.Context, sess Session, c core, qc *QueryContext) ([]*Row, error) {
	rows, err := sess.queryContext(ctx, qc.Query, qc.Args...)
	if err != nil {
		c.logger.Debug("rowconsumer: 查询执行失败", zap.String("model", qc.Model), zap.Error(err))
		return nil, err
	}
	res, err := ScanAll(rows)
	if err != nil {
		c.logger.Debug("rowconsumer: 读取结果失败", zap.String("model", qc.Model), zap.Error(err))
		return nil, err
	}
	return res, nil
}

func degradedLogger(c core, qc *QueryContext) func(idx int, diags []string) {
	return func(idx int, diags []string) {
		c.logger.Debug("rowconsumer: 行转换失败",
			zap.String("model", qc.Model), zap.Int("row", idx), zap.Strings("diagnostics", diags))
	}
}
