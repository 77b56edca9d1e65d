package querylog

import (
	"context"

	"go.uber.org/zap"

	"github.com/startdusk/rowconsumer/consumer"
)

type MiddlewareBuilder struct {
	// 存在问题, SQL参数存在敏感数据不应该被打印出来
	// 使用 debug 标记为标记是否打印出参数(不推荐做法, 会入侵大面积代码)
	logFunc func(query string, args []any)
}

// NewMiddlewareBuilder 默认用 zap 的全局 logger 输出
func NewMiddlewareBuilder() *MiddlewareBuilder {
	return (&MiddlewareBuilder{}).Logger(zap.L())
}

func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m *MiddlewareBuilder) Logger(logger *zap.Logger) *MiddlewareBuilder {
	m.logFunc = func(query string, args []any) {
		logger.Info("rowconsumer: query", zap.String("sql", query), zap.Any("args", args))
	}
	return m
}

func (m MiddlewareBuilder) Build() consumer.Middleware {
	return func(next consumer.Handler) consumer.Handler {
		return func(ctx context.Context, qc *consumer.QueryContext) *consumer.QueryResult {
			if m.logFunc != nil {
				m.logFunc(qc.Query, qc.Args)
			}
			return next(ctx, qc)
		}
	}
}
