package consumer

import (
	"context"

	"go.uber.org/zap"
)

type core struct {
	r      *Registry
	logger *zap.Logger

	mdls []Middleware
}

// run 用中间件包装 handler 后执行
func run(ctx context.Context, c core, qc *QueryContext, handler Handler) *QueryResult {
	root := handler
	for i := len(c.mdls) - 1; i >= 0; i-- {
		root = c.mdls[i](root)
	}
	return root(ctx, qc)
}
