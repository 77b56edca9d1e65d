package opentelemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/startdusk/rowconsumer/consumer"
)

const instrumentationName = "github.com/startdusk/rowconsumer/consumer/middleware/opentelemetry"

type MiddlewareBuilder struct {
	Tracer trace.Tracer
}

func (m MiddlewareBuilder) Build() consumer.Middleware {
	if m.Tracer == nil {
		m.Tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return func(next consumer.Handler) consumer.Handler {
		return func(ctx context.Context, qc *consumer.QueryContext) *consumer.QueryResult {
			// span name: CONSUME-User
			spanCtx, span := m.Tracer.Start(ctx, fmt.Sprintf("%s-%s", qc.Type, qc.Model))
			defer span.End()

			// tracing这里没必要记录参数, 防止数据过大(如 blob), 防止敏感数据被记录到tracing(如 用户密码)
			span.SetAttributes(attribute.String("sql", qc.Query))
			span.SetAttributes(attribute.String("model", qc.Model))
			span.SetAttributes(attribute.String("component", "rowconsumer"))

			res := next(spanCtx, qc)
			if res.Err != nil {
				span.RecordError(res.Err)
			}
			return res
		}
	}
}
