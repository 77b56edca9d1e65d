package slowquery

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/startdusk/rowconsumer/consumer"
)

type MiddlewareBuilder struct {
	logFunc func(query string, args []any, duration time.Duration)

	// 慢查询阈值, 设置需要考虑公司实际情况, 如100ms
	threshold time.Duration
}

func NewMiddlewareBuilder(threshold time.Duration) *MiddlewareBuilder {
	m := &MiddlewareBuilder{
		threshold: threshold,
	}
	return m.Logger(zap.L())
}

func (m *MiddlewareBuilder) LogFunc(fn func(query string, args []any, duration time.Duration)) *MiddlewareBuilder {
	m.logFunc = fn
	return m
}

func (m *MiddlewareBuilder) Logger(logger *zap.Logger) *MiddlewareBuilder {
	m.logFunc = func(query string, _ []any, duration time.Duration) {
		logger.Warn("rowconsumer: slow query", zap.String("sql", query), zap.Duration("duration", duration))
	}
	return m
}

func (m MiddlewareBuilder) Build() consumer.Middleware {
	return func(next consumer.Handler) consumer.Handler {
		return func(ctx context.Context, qc *consumer.QueryContext) *consumer.QueryResult {
			startTime := time.Now()
			defer func() {
				duration := time.Since(startTime)
				// 不是慢查询
				if duration <= m.threshold {
					return
				}
				if m.logFunc != nil {
					m.logFunc(qc.Query, qc.Args, duration)
				}
			}()
			return next(ctx, qc)
		}
	}
}
